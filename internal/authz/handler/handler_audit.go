package handler

import (
	"net/http"

	"authcore/internal/authz/model"

	"github.com/labstack/echo/v4"
)

// GetAuditRecords handles GET /audit/records
func (h *AuthzHandler) GetAuditRecords(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.GetAuditRecordsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid parameters"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	resp, err := h.Service.GetAuditRecords(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAuditVerify handles GET /audit/verify
func (h *AuthzHandler) GetAuditVerify(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	report, err := h.Service.VerifyAuditIntegrity(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, report)
}

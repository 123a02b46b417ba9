package handler

import (
	"net/http"

	"authcore/internal/authz/model"

	"github.com/labstack/echo/v4"
)

// PostPermissionsCheck handles POST /permissions/check
func (h *AuthzHandler) PostPermissionsCheck(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.CheckPermissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	decision, err := h.Service.Check(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.CheckPermissionResponse{
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
	})
}

// PostPermissionsCheckAny handles POST /permissions/check-any
func (h *AuthzHandler) PostPermissionsCheckAny(c echo.Context) error {
	return h.checkBatch(c, false)
}

// PostPermissionsCheckAll handles POST /permissions/check-all
func (h *AuthzHandler) PostPermissionsCheckAll(c echo.Context) error {
	return h.checkBatch(c, true)
}

func (h *AuthzHandler) checkBatch(c echo.Context, requireAll bool) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.CheckBatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	var decision model.Decision
	if requireAll {
		decision, err = h.Service.CheckAll(c.Request().Context(), callerID, req)
	} else {
		decision, err = h.Service.CheckAny(c.Request().Context(), callerID, req)
	}
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.CheckPermissionResponse{
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
	})
}

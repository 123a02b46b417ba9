package handler

import (
	"net/http"

	"authcore/internal/authz/model"
	"authcore/internal/authz/service"

	"github.com/labstack/echo/v4"
)

type AuthzHandler struct {
	Service service.AuthzService
}

func NewAuthzHandler(s service.AuthzService) *AuthzHandler {
	return &AuthzHandler{Service: s}
}

func (h *AuthzHandler) extractCallerID(c echo.Context) (string, error) {
	callerID := c.Request().Header.Get("x-user-id")
	if callerID == "" {
		return "", service.ErrUnauthorized
	}
	return callerID, nil
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// PostRole handles POST /roles
func (h *AuthzHandler) PostRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.CreateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	role, err := h.Service.CreateRole(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusCreated, role)
}

// GetRoles handles GET /roles
func (h *AuthzHandler) GetRoles(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.ListRolesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid parameters"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	roles, err := h.Service.ListRoles(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, roles)
}

// GetRole handles GET /roles/:slug
func (h *AuthzHandler) GetRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	role, err := h.Service.GetRole(c.Request().Context(), callerID, c.Param("slug"))
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, role)
}

// PutRole handles PUT /roles/:slug
func (h *AuthzHandler) PutRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.UpdateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	role, err := h.Service.UpdateRole(c.Request().Context(), callerID, c.Param("slug"), req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, role)
}

// DeleteRole handles DELETE /roles/:slug
func (h *AuthzHandler) DeleteRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	if err := h.Service.DeleteRole(c.Request().Context(), callerID, c.Param("slug")); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// PostRoleActivate handles POST /roles/:slug/activate
func (h *AuthzHandler) PostRoleActivate(c echo.Context) error {
	return h.setRoleStatus(c, model.RoleStatusActive)
}

// PostRoleDeactivate handles POST /roles/:slug/deactivate
func (h *AuthzHandler) PostRoleDeactivate(c echo.Context) error {
	return h.setRoleStatus(c, model.RoleStatusInactive)
}

func (h *AuthzHandler) setRoleStatus(c echo.Context, status string) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	if err := h.Service.SetRoleStatus(c.Request().Context(), callerID, c.Param("slug"), status); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

package router

import (
	"authcore/internal/authz/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterRoutes(e *echo.Echo, h *handler.AuthzHandler) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "x-user-id"},
	}))

	// Health Check
	e.GET("/health", handler.HealthCheck)

	v1 := e.Group("/api/v1")
	v1.Use(handler.RequestIDMiddleware)

	// Enforcement surface. Authorization for every operation happens in
	// the service layer so each decision is gated and audited exactly
	// once.
	v1.POST("/permissions/check", h.PostPermissionsCheck)
	v1.POST("/permissions/check-any", h.PostPermissionsCheckAny)
	v1.POST("/permissions/check-all", h.PostPermissionsCheckAll)

	// Role management
	v1.POST("/roles", h.PostRole)
	v1.GET("/roles", h.GetRoles)
	v1.GET("/roles/:slug", h.GetRole)
	v1.PUT("/roles/:slug", h.PutRole)
	v1.DELETE("/roles/:slug", h.DeleteRole)
	v1.POST("/roles/:slug/activate", h.PostRoleActivate)
	v1.POST("/roles/:slug/deactivate", h.PostRoleDeactivate)

	// Principal role assignment and overrides
	v1.POST("/principals/:id/roles", h.PostPrincipalRole)
	v1.DELETE("/principals/:id/roles/:slug", h.DeletePrincipalRole)
	v1.PUT("/principals/:id/overrides/:module", h.PutPrincipalOverride)
	v1.DELETE("/principals/:id/overrides/:module", h.DeletePrincipalOverride)
	v1.PUT("/principals/:id/active", h.PutPrincipalActive)
	v1.GET("/principals/:id/permissions", h.GetPrincipalPermissions)

	// Ledger surface
	v1.GET("/audit/records", h.GetAuditRecords)
	v1.GET("/audit/verify", h.GetAuditVerify)
}

package handler

import (
	"errors"
	"net/http"

	"authcore/internal/authz/audit"
	"authcore/internal/authz/model"
	"authcore/internal/authz/service"
)

// Helper to map errors to HTTP status and body
func httpError(err error) (int, interface{}) {
	var code string
	var msg string
	var status int

	switch {
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
		code = "forbidden"
		msg = "Permission denied"
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
		code = "unauthorized"
		msg = "Unauthorized"
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
		msg = "Record not found"
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
		code = "conflict"
		msg = "Role slug already exists"
	case errors.Is(err, service.ErrRoleInUse):
		status = http.StatusConflict
		code = "role_in_use"
		msg = "Role is assigned to principals"
	case errors.Is(err, service.ErrSystemRoleImmutable):
		status = http.StatusForbidden
		code = "system_role_immutable"
		msg = "System roles cannot be edited or deleted"
	case errors.Is(err, service.ErrVersionConflict):
		status = http.StatusConflict
		code = "version_conflict"
		msg = "Role was modified concurrently, reload and retry"
	case errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
		code = "bad_request"
		msg = "Invalid input"
	case errors.Is(err, audit.ErrWrite):
		// Audit durability outranks completing the action: surface loudly.
		status = http.StatusInternalServerError
		code = "audit_write_failed"
		msg = "Operation aborted: audit record could not be written"
	default:
		status = http.StatusInternalServerError
		code = "internal_error"
		msg = err.Error()
	}

	return status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: code, Message: msg},
	}
}

func validationError(err error) model.ErrorResponse {
	detail := model.FormatValidationError(err)
	return model.ErrorResponse{Error: *detail}
}

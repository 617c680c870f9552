package handler

import (
	"errors"
	"net/http"

	"compliance-service/internal/rbac"
	apperrors "compliance-service/pkg/errors"
)

// MapToPublicError maps domain and rbac errors to a status and a generic
// message. Wrapped causes never reach the client.
func MapToPublicError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, rbac.ErrDenied):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, rbac.ErrInvalidRole), errors.Is(err, rbac.ErrInvalidPermission):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable, "service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

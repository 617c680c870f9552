package http

import (
	"errors"
	"fmt"
	stdhttp "net/http"

	"compliance-service/internal/http/middleware"
	"compliance-service/internal/rbac"
	apperrors "compliance-service/pkg/errors"
	"compliance-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to HTTP status codes, hides internal errors from
// clients, and logs with the request ID.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := classify(err)

		requestID := middleware.GetRequestID(c)
		if requestID == "" {
			requestID = "unknown"
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", code),
			zap.String("error", logger.SanitizeLogMessage(err.Error())),
		}

		if code >= stdhttp.StatusInternalServerError {
			log.Error("server_error", fields...)
			if code == stdhttp.StatusInternalServerError {
				// Don't expose internal errors to clients
				message = "Internal server error"
			}
		} else {
			log.Debug("client_error", fields...)
		}

		if err := c.JSON(code, map[string]interface{}{
			"error":      message,
			"request_id": requestID,
		}); err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}

func classify(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	code := stdhttp.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = stdhttp.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		code, message = stdhttp.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, rbac.ErrDenied):
		code, message = stdhttp.StatusForbidden, "Forbidden"
	case errors.Is(err, apperrors.ErrConflict):
		code, message = stdhttp.StatusConflict, "Conflict"
	case errors.Is(err, apperrors.ErrInvalidInput):
		code, message = stdhttp.StatusBadRequest, "Invalid input"
	case errors.Is(err, rbac.ErrInvalidRole):
		code, message = stdhttp.StatusBadRequest, "Invalid role"
	case errors.Is(err, rbac.ErrInvalidPermission):
		code, message = stdhttp.StatusBadRequest, "Invalid permission"
	case errors.Is(err, apperrors.ErrUnavailable):
		code, message = stdhttp.StatusServiceUnavailable, "Service unavailable"
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && code < stdhttp.StatusInternalServerError {
		message = appErr.Message
	}

	return code, message
}

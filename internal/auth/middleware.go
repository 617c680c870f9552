package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"compliance-service/internal/rbac"
	apperrors "compliance-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RoleResolver maps a verified user to their current role.
type RoleResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (rbac.Role, error)
}

type Middleware struct {
	jwtService *JWTService
	resolver   RoleResolver
	logger     *zap.Logger
}

func NewMiddleware(jwtService *JWTService, resolver RoleResolver, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		jwtService: jwtService,
		resolver:   resolver,
		logger:     logger,
	}
}

// RequireJWT authenticates the bearer token and stores the caller's user ID
// and resolved role on the context. A user with no assignment passes with
// rbac.NoRole and is denied by every permission check downstream.
func (m *Middleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				m.logger.Debug("token rejected", zap.Error(err))
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			role, err := m.resolver.Resolve(c.Request().Context(), claims.UserID)
			if err != nil {
				m.logger.Error("role resolution failed",
					zap.String("user_id", claims.UserID.String()),
					zap.Error(err))
				if errors.Is(err, apperrors.ErrUnavailable) {
					return respondError(c, http.StatusServiceUnavailable, msgRoleLookupFailed)
				}
				return respondError(c, http.StatusInternalServerError, msgRoleLookupFailed)
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyRole, role)

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID := c.Get(ContextKeyUserID)
	if userID == nil {
		return uuid.Nil, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalServer(msgInvalidUserIDCtx, nil)
	}

	return id, nil
}

// GetRole returns the caller's role, or rbac.NoRole when none was resolved.
func GetRole(c echo.Context) rbac.Role {
	role, ok := c.Get(ContextKeyRole).(rbac.Role)
	if !ok {
		return rbac.NoRole
	}
	return role
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

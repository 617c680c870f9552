package auth

import (
	"net/http"

	"compliance-service/internal/rbac"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DecisionRecorder receives every route-level authorization outcome.
type DecisionRecorder interface {
	RecordDecision(requirement string, allowed bool)
}

// RBACMiddleware gates routes on the role placed in the context by RequireJWT.
type RBACMiddleware struct {
	rbacChecker *rbac.Checker
	recorder    DecisionRecorder
	logger      *zap.Logger
}

func NewRBACMiddleware(checker *rbac.Checker, logger *zap.Logger) *RBACMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RBACMiddleware{
		rbacChecker: checker,
		logger:      logger,
	}
}

// WithRecorder attaches a recorder for allow/deny counts. Passing nil disables it.
func (m *RBACMiddleware) WithRecorder(r DecisionRecorder) *RBACMiddleware {
	m.recorder = r
	return m
}

func (m *RBACMiddleware) RequirePermission(perm rbac.Permission) echo.MiddlewareFunc {
	return m.require(func(role rbac.Role) error {
		return m.rbacChecker.Authorize(role, perm)
	}, string(perm))
}

func (m *RBACMiddleware) RequireAnyPermission(perms ...rbac.Permission) echo.MiddlewareFunc {
	return m.require(func(role rbac.Role) error {
		if m.rbacChecker.HasAnyPermission(role, perms...) {
			return nil
		}
		return rbac.ErrDenied
	}, joinPermissions("any", perms))
}

func (m *RBACMiddleware) RequireAllPermissions(perms ...rbac.Permission) echo.MiddlewareFunc {
	return m.require(func(role rbac.Role) error {
		if m.rbacChecker.HasAllPermissions(role, perms...) {
			return nil
		}
		return rbac.ErrDenied
	}, joinPermissions("all", perms))
}

func (m *RBACMiddleware) RequireAccess(resource rbac.Resource, action rbac.Action) echo.MiddlewareFunc {
	return m.require(func(role rbac.Role) error {
		if m.rbacChecker.CanAccess(role, resource, action) {
			return nil
		}
		return rbac.ErrDenied
	}, string(rbac.NewPermission(resource, action)))
}

func (m *RBACMiddleware) require(decide func(rbac.Role) error, requirement string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := GetUserID(c)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgUserNotAuthenticated)
			}

			role := GetRole(c)
			err = decide(role)
			if m.recorder != nil {
				m.recorder.RecordDecision(requirement, err == nil)
			}
			if err != nil {
				m.logger.Info("access denied",
					zap.String("user_id", userID.String()),
					zap.String("role", string(role)),
					zap.String("required", requirement),
					zap.Error(err))
				return respondError(c, http.StatusForbidden, msgPermissionDenied)
			}

			return next(c)
		}
	}
}

func joinPermissions(mode string, perms []rbac.Permission) string {
	out := mode + "("
	for i, p := range perms {
		if i > 0 {
			out += ","
		}
		out += string(p)
	}
	return out + ")"
}

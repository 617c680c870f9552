package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"compliance-service/internal/auth"
	"compliance-service/internal/domain/assignment"
	"compliance-service/internal/rbac"
	"compliance-service/internal/rbac/presets"
	apperrors "compliance-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AssignmentHandler manages which role each user holds. Route-level
// middleware checks team:* permissions; the handler additionally enforces
// that callers can only hand out or take away roles they fully cover.
type AssignmentHandler struct {
	checker     *rbac.Checker
	store       AssignmentStore
	invalidator RoleInvalidator
	logger      *zap.Logger
}

func NewAssignmentHandler(
	checker *rbac.Checker,
	store AssignmentStore,
	invalidator RoleInvalidator,
	logger *zap.Logger,
) *AssignmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentHandler{
		checker:     checker,
		store:       store,
		invalidator: invalidator,
		logger:      logger,
	}
}

type AssignRoleRequest struct {
	Role string `json:"role"`
}

type AssignmentResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Role        rbac.Role `json:"role"`
	DisplayName string    `json:"display_name"`
	AssignedBy  uuid.UUID `json:"assigned_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AssignmentsResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

func (h *AssignmentHandler) toResponse(a *assignment.Assignment) AssignmentResponse {
	name, _ := h.checker.DisplayName(a.Role)
	return AssignmentResponse{
		UserID:      a.UserID,
		Role:        a.Role,
		DisplayName: name,
		AssignedBy:  a.AssignedBy,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (h *AssignmentHandler) List(c echo.Context) error {
	list, err := h.store.List(c.Request().Context())
	if err != nil {
		h.logger.Error("list role assignments", zap.Error(err))
		return respondError(c, http.StatusInternalServerError, msgLoadAssignmentsFail)
	}

	resp := AssignmentsResponse{Assignments: make([]AssignmentResponse, 0, len(list))}
	for _, a := range list {
		resp.Assignments = append(resp.Assignments, h.toResponse(a))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *AssignmentHandler) Get(c echo.Context) error {
	userID, err := parseUserIDParam(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	a, err := h.store.Get(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgAssignmentNotFound)
		}
		h.logger.Error("get role assignment", zap.String("user_id", userID.String()), zap.Error(err))
		return respondError(c, http.StatusInternalServerError, msgLoadAssignmentsFail)
	}

	return c.JSON(http.StatusOK, h.toResponse(a))
}

func (h *AssignmentHandler) Assign(c echo.Context) error {
	targetID, err := parseUserIDParam(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	callerID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, msgUserNotAuthenticated)
	}
	callerRole := auth.GetRole(c)

	var req AssignRoleRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	role, err := h.checker.ParseRole(strings.TrimSpace(req.Role))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidRole)
	}

	if role == presets.RoleSuperAdmin && !h.checker.HasPermission(callerRole, presets.PermSettingsAdmin) {
		return respondError(c, http.StatusForbidden, msgSuperAdminGrantDenied)
	}

	if !h.checker.Covers(callerRole, role) {
		return respondError(c, http.StatusForbidden, msgCannotGrantRole)
	}

	current, err := h.currentRole(c, targetID)
	if err != nil {
		return handleHTTPError(c, err)
	}

	if current != rbac.NoRole {
		if !h.checker.Covers(callerRole, current) {
			return respondError(c, http.StatusForbidden, msgCannotManageUser)
		}
	}

	saved, err := h.store.Upsert(c.Request().Context(), assignment.UpsertInput{
		UserID:     targetID,
		Role:       role,
		AssignedBy: callerID,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgLastSuperAdmin)
		}
		if status, msg := MapToPublicError(err); status < http.StatusInternalServerError {
			return respondError(c, status, msg)
		}
		h.logger.Error("upsert role assignment", zap.String("user_id", targetID.String()), zap.Error(err))
		return respondError(c, http.StatusInternalServerError, msgSaveAssignmentFail)
	}

	h.invalidate(c, targetID)
	h.logger.Info("role assigned",
		zap.String("user_id", targetID.String()),
		zap.String("role", string(role)),
		zap.String("previous_role", string(current)),
		zap.String("assigned_by", callerID.String()))

	return c.JSON(http.StatusOK, h.toResponse(saved))
}

func (h *AssignmentHandler) Revoke(c echo.Context) error {
	targetID, err := parseUserIDParam(c)
	if err != nil {
		return handleHTTPError(c, err)
	}
	callerRole := auth.GetRole(c)

	current, err := h.currentRole(c, targetID)
	if err != nil {
		return handleHTTPError(c, err)
	}
	if current == rbac.NoRole {
		return respondError(c, http.StatusNotFound, msgAssignmentNotFound)
	}

	if !h.checker.Covers(callerRole, current) {
		return respondError(c, http.StatusForbidden, msgCannotManageUser)
	}

	// The store refuses to remove the last SUPER_ADMIN atomically with the
	// delete, so two concurrent revokes cannot both pass.
	if err := h.store.Delete(c.Request().Context(), targetID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return respondError(c, http.StatusNotFound, msgAssignmentNotFound)
		case errors.Is(err, apperrors.ErrConflict):
			return respondError(c, http.StatusConflict, msgLastSuperAdmin)
		}
		h.logger.Error("delete role assignment", zap.String("user_id", targetID.String()), zap.Error(err))
		return respondError(c, http.StatusInternalServerError, msgRemoveAssignmentFail)
	}

	h.invalidate(c, targetID)
	h.logger.Info("role revoked", zap.String("user_id", targetID.String()), zap.String("role", string(current)))

	return respondMessage(c, http.StatusOK, msgAssignmentRemoved)
}

// currentRole returns the target's stored role, or rbac.NoRole when there is
// none. Errors are *echo.HTTPError ready for handleHTTPError.
func (h *AssignmentHandler) currentRole(c echo.Context, userID uuid.UUID) (rbac.Role, error) {
	a, err := h.store.Get(c.Request().Context(), userID)
	switch {
	case err == nil:
		return a.Role, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return rbac.NoRole, nil
	default:
		h.logger.Error("get role assignment", zap.String("user_id", userID.String()), zap.Error(err))
		return rbac.NoRole, echo.NewHTTPError(http.StatusInternalServerError, msgLoadAssignmentsFail)
	}
}

func (h *AssignmentHandler) invalidate(c echo.Context, userID uuid.UUID) {
	if err := h.invalidator.Invalidate(c.Request().Context(), userID); err != nil {
		// The entry still expires on its TTL.
		h.logger.Warn("role cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

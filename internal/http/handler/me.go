package handler

import (
	"net/http"
	"strings"

	"compliance-service/internal/auth"
	"compliance-service/internal/rbac"

	"github.com/labstack/echo/v4"
)

// MeHandler answers questions about the calling user's own access.
type MeHandler struct {
	checker *rbac.Checker
}

func NewMeHandler(checker *rbac.Checker) *MeHandler {
	return &MeHandler{checker: checker}
}

type MyPermissionsResponse struct {
	Role        rbac.Role         `json:"role"`
	DisplayName string            `json:"display_name"`
	Permissions []rbac.Permission `json:"permissions"`
}

// CheckRequest takes either a permission list with a mode, or a single
// resource/action pair.
type CheckRequest struct {
	Permissions []string `json:"permissions,omitempty"`
	Mode        string   `json:"mode,omitempty"`
	Resource    string   `json:"resource,omitempty"`
	Action      string   `json:"action,omitempty"`
}

type CheckResponse struct {
	Allowed bool `json:"allowed"`
}

func (h *MeHandler) GetPermissions(c echo.Context) error {
	role := auth.GetRole(c)
	resp := MyPermissionsResponse{Role: role, Permissions: []rbac.Permission{}}

	if role == rbac.NoRole {
		return c.JSON(http.StatusOK, resp)
	}

	name, err := h.checker.DisplayName(role)
	if err != nil {
		return err
	}
	perms, err := h.checker.PermissionsForRole(role)
	if err != nil {
		return err
	}

	resp.DisplayName = name
	resp.Permissions = perms
	return c.JSON(http.StatusOK, resp)
}

// Check evaluates a permission question for the caller. Unknown tokens are
// answered with allowed=false rather than an error.
func (h *MeHandler) Check(c echo.Context) error {
	var req CheckRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	role := auth.GetRole(c)
	pairForm := req.Resource != "" || req.Action != ""

	switch {
	case pairForm && (len(req.Permissions) > 0 || req.Mode != ""):
		return respondError(c, http.StatusBadRequest, msgCheckFormAmbiguous)
	case pairForm:
		allowed := h.checker.CanAccess(role, rbac.Resource(strings.TrimSpace(req.Resource)), rbac.Action(strings.TrimSpace(req.Action)))
		return c.JSON(http.StatusOK, CheckResponse{Allowed: allowed})
	case req.Permissions == nil:
		return respondError(c, http.StatusBadRequest, msgCheckFormMissing)
	}

	perms := make([]rbac.Permission, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		perms = append(perms, rbac.Permission(strings.TrimSpace(p)))
	}

	var allowed bool
	switch req.Mode {
	case checkModeAll:
		allowed = h.checker.HasAllPermissions(role, perms...)
	case checkModeAny:
		allowed = h.checker.HasAnyPermission(role, perms...)
	default:
		return respondError(c, http.StatusBadRequest, msgCheckModeInvalid)
	}

	return c.JSON(http.StatusOK, CheckResponse{Allowed: allowed})
}

package handler

import (
	"net/http"

	"compliance-service/internal/rbac"

	"github.com/labstack/echo/v4"
)

// CatalogHandler exposes the static permission model so clients can build
// their UI gating from the same source the server enforces.
type CatalogHandler struct {
	checker *rbac.Checker
}

func NewCatalogHandler(checker *rbac.Checker) *CatalogHandler {
	return &CatalogHandler{checker: checker}
}

type PermissionResponse struct {
	Permission rbac.Permission `json:"permission"`
	Resource   rbac.Resource   `json:"resource"`
	Action     rbac.Action     `json:"action"`
}

type ResourceResponse struct {
	Name    rbac.Resource `json:"name"`
	Actions []rbac.Action `json:"actions"`
}

type CatalogResponse struct {
	Permissions []PermissionResponse `json:"permissions"`
	Resources   []ResourceResponse   `json:"resources"`
}

type RoleResponse struct {
	Name        rbac.Role         `json:"name"`
	DisplayName string            `json:"display_name"`
	Permissions []rbac.Permission `json:"permissions"`
}

type RolesResponse struct {
	Roles []RoleResponse `json:"roles"`
}

func (h *CatalogHandler) ListPermissions(c echo.Context) error {
	perms := h.checker.ListPermissions()
	resp := CatalogResponse{
		Permissions: make([]PermissionResponse, 0, len(perms)),
	}

	for _, p := range perms {
		resp.Permissions = append(resp.Permissions, PermissionResponse{
			Permission: p,
			Resource:   p.Resource(),
			Action:     p.Action(),
		})
	}

	for _, rd := range h.checker.Resources() {
		resp.Resources = append(resp.Resources, ResourceResponse{Name: rd.Name, Actions: rd.Actions})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) ListRoles(c echo.Context) error {
	defs := h.checker.Roles()
	resp := RolesResponse{Roles: make([]RoleResponse, 0, len(defs))}

	for _, rd := range defs {
		perms, err := h.checker.PermissionsForRole(rd.Name)
		if err != nil {
			return err
		}
		resp.Roles = append(resp.Roles, RoleResponse{
			Name:        rd.Name,
			DisplayName: rd.DisplayName,
			Permissions: perms,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetRole(c echo.Context) error {
	role, err := h.checker.ParseRole(c.Param(paramRole))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidRole)
	}

	resp, err := h.describeRole(role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) describeRole(role rbac.Role) (RoleResponse, error) {
	name, err := h.checker.DisplayName(role)
	if err != nil {
		return RoleResponse{}, err
	}
	perms, err := h.checker.PermissionsForRole(role)
	if err != nil {
		return RoleResponse{}, err
	}
	return RoleResponse{Name: role, DisplayName: name, Permissions: perms}, nil
}

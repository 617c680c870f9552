package rbac

import "strings"

// Role represents a user's role in the system
type Role string

// NoRole is the absent role of an unauthenticated or unassigned caller.
// Every decision made for it is a denial.
const NoRole Role = ""

// Permission is a capability token of the form "<resource>:<action>"
type Permission string

// Resource represents a category of protected functionality
type Resource string

// Action represents an operation on a resource
type Action string

// CRUD actions accepted by CanAccess. Resource-specific actions are only
// reachable through the full permission token.
const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

const permissionSeparator = ":"

// NewPermission builds the permission token for a resource/action pair
func NewPermission(resource Resource, action Action) Permission {
	return Permission(string(resource) + permissionSeparator + string(action))
}

// Resource returns the resource segment of the token
func (p Permission) Resource() Resource {
	res, _, _ := strings.Cut(string(p), permissionSeparator)
	return Resource(res)
}

// Action returns the action segment of the token
func (p Permission) Action() Action {
	_, act, _ := strings.Cut(string(p), permissionSeparator)
	return Action(act)
}

// IsCRUD reports whether the action is one of view, create, edit or delete
func (a Action) IsCRUD() bool {
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return true
	}
	return false
}

// RoleDefinition defines a role and its presentation label
type RoleDefinition struct {
	Name        Role
	DisplayName string
}

// ResourceDefinition defines a resource and the actions it supports
type ResourceDefinition struct {
	Name    Resource
	Actions []Action
}

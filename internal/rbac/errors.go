package rbac

import "errors"

var (
	ErrDenied            = errors.New("authorization denied")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidPermission = errors.New("invalid permission")
)

const (
	errConfigRolesEmpty                  = "rbac config: roles must not be empty"
	errConfigResourcesEmpty              = "rbac config: resources must not be empty"
	errConfigGrantsEmpty                 = "rbac config: grants must not be empty"
	errConfigRoleNameEmpty               = "rbac config: role name must not be empty"
	errConfigDuplicateRoleNameFmt        = "rbac config: duplicate role name: %s"
	errConfigDisplayNameEmptyFmt         = "rbac config: role %s has no display name"
	errConfigResourceEmpty               = "rbac config: resource must not be empty"
	errConfigResourceSeparatorFmt        = "rbac config: resource %s must not contain ':'"
	errConfigDuplicateResourceFmt        = "rbac config: duplicate resource: %s"
	errConfigResourceActionsEmptyFmt     = "rbac config: resource %s has no actions"
	errConfigActionEmptyFmt              = "rbac config: resource %s has an empty action"
	errConfigDuplicateActionFmt          = "rbac config: duplicate action %s on resource %s"
	errConfigGrantUnknownRoleFmt         = "rbac config: grant references unknown role: %s"
	errConfigGrantUnknownPermissionFmt   = "rbac config: grant for role %s references unknown permission: %s"
	errConfigGrantDuplicatePermissionFmt = "rbac config: grant for role %s lists permission %s twice"
	errConfigRoleWithoutGrantFmt         = "rbac config: role %s has no grant entry"
	errMustNewPanicFmt                   = "rbac.MustNew: %v"
	errDeniedNoRole                      = "no role"
	errDeniedRoleLacksPermissionFmt      = "role '%s' lacks permission '%s'"
)

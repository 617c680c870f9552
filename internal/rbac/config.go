package rbac

import (
	"fmt"
	"strings"
)

// Config holds the full access-control policy: the role enumeration, the
// permission catalog (as resources with their actions) and the hand-authored
// role to permission table.
type Config struct {
	Roles     []RoleDefinition
	Resources []ResourceDefinition
	Grants    map[Role][]Permission
}

// Permissions expands the resource definitions into the permission catalog,
// in declaration order.
func (c *Config) Permissions() []Permission {
	var perms []Permission
	for _, rd := range c.Resources {
		for _, act := range rd.Actions {
			perms = append(perms, NewPermission(rd.Name, act))
		}
	}
	return perms
}

// Validate checks internal consistency of the Config
func (c *Config) Validate() error {
	if len(c.Roles) == 0 {
		return fmt.Errorf(errConfigRolesEmpty)
	}
	if len(c.Resources) == 0 {
		return fmt.Errorf(errConfigResourcesEmpty)
	}
	if len(c.Grants) == 0 {
		return fmt.Errorf(errConfigGrantsEmpty)
	}

	roleNames := make(map[Role]bool, len(c.Roles))
	for _, rd := range c.Roles {
		if rd.Name == NoRole {
			return fmt.Errorf(errConfigRoleNameEmpty)
		}
		if roleNames[rd.Name] {
			return fmt.Errorf(errConfigDuplicateRoleNameFmt, rd.Name)
		}
		if rd.DisplayName == "" {
			return fmt.Errorf(errConfigDisplayNameEmptyFmt, rd.Name)
		}
		roleNames[rd.Name] = true
	}

	permSet := make(map[Permission]bool)
	resSet := make(map[Resource]bool, len(c.Resources))
	for _, rd := range c.Resources {
		if rd.Name == "" {
			return fmt.Errorf(errConfigResourceEmpty)
		}
		if strings.Contains(string(rd.Name), permissionSeparator) {
			return fmt.Errorf(errConfigResourceSeparatorFmt, rd.Name)
		}
		if resSet[rd.Name] {
			return fmt.Errorf(errConfigDuplicateResourceFmt, rd.Name)
		}
		if len(rd.Actions) == 0 {
			return fmt.Errorf(errConfigResourceActionsEmptyFmt, rd.Name)
		}
		resSet[rd.Name] = true

		for _, act := range rd.Actions {
			if act == "" {
				return fmt.Errorf(errConfigActionEmptyFmt, rd.Name)
			}
			perm := NewPermission(rd.Name, act)
			if permSet[perm] {
				return fmt.Errorf(errConfigDuplicateActionFmt, act, rd.Name)
			}
			permSet[perm] = true
		}
	}

	for role, perms := range c.Grants {
		if !roleNames[role] {
			return fmt.Errorf(errConfigGrantUnknownRoleFmt, role)
		}
		seen := make(map[Permission]bool, len(perms))
		for _, p := range perms {
			if !permSet[p] {
				return fmt.Errorf(errConfigGrantUnknownPermissionFmt, role, p)
			}
			if seen[p] {
				return fmt.Errorf(errConfigGrantDuplicatePermissionFmt, role, p)
			}
			seen[p] = true
		}
	}

	for _, rd := range c.Roles {
		if _, ok := c.Grants[rd.Name]; !ok {
			return fmt.Errorf(errConfigRoleWithoutGrantFmt, rd.Name)
		}
	}

	return nil
}

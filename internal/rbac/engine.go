package rbac

import "fmt"

// Checker answers authorization questions against a validated Config.
// All lookup tables are built in New and never written again, so a Checker
// may be shared freely between goroutines.
type Checker struct {
	config       Config
	catalog      []Permission
	validPerms   map[Permission]bool
	validRoles   map[Role]bool
	displayNames map[Role]string
	grants       map[Role]map[Permission]bool
	grantLists   map[Role][]Permission
}

// New creates a Checker from a validated Config
func New(cfg Config) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rc := &Checker{config: cfg}
	rc.buildLookups()
	return rc, nil
}

// MustNew creates a Checker and panics on invalid config.
// Use this with known-good presets at init time.
func MustNew(cfg Config) *Checker {
	rc, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf(errMustNewPanicFmt, err))
	}
	return rc
}

func (rc *Checker) buildLookups() {
	cfg := rc.config

	rc.catalog = cfg.Permissions()
	rc.validPerms = make(map[Permission]bool, len(rc.catalog))
	for _, p := range rc.catalog {
		rc.validPerms[p] = true
	}

	rc.validRoles = make(map[Role]bool, len(cfg.Roles))
	rc.displayNames = make(map[Role]string, len(cfg.Roles))
	for _, rd := range cfg.Roles {
		rc.validRoles[rd.Name] = true
		rc.displayNames[rd.Name] = rd.DisplayName
	}

	// Grant lists are stored in catalog order regardless of how the table
	// was authored, so listings are stable.
	rc.grants = make(map[Role]map[Permission]bool, len(cfg.Grants))
	rc.grantLists = make(map[Role][]Permission, len(cfg.Grants))
	for role, perms := range cfg.Grants {
		set := make(map[Permission]bool, len(perms))
		for _, p := range perms {
			set[p] = true
		}
		rc.grants[role] = set

		list := make([]Permission, 0, len(perms))
		for _, p := range rc.catalog {
			if set[p] {
				list = append(list, p)
			}
		}
		rc.grantLists[role] = list
	}
}

// ListPermissions returns every permission in the catalog exactly once
func (rc *Checker) ListPermissions() []Permission {
	out := make([]Permission, len(rc.catalog))
	copy(out, rc.catalog)
	return out
}

// Roles returns the role enumeration in declaration order
func (rc *Checker) Roles() []RoleDefinition {
	out := make([]RoleDefinition, len(rc.config.Roles))
	copy(out, rc.config.Roles)
	return out
}

// Resources returns the resource definitions in declaration order
func (rc *Checker) Resources() []ResourceDefinition {
	out := make([]ResourceDefinition, 0, len(rc.config.Resources))
	for _, rd := range rc.config.Resources {
		actions := make([]Action, len(rd.Actions))
		copy(actions, rd.Actions)
		out = append(out, ResourceDefinition{Name: rd.Name, Actions: actions})
	}
	return out
}

// PermissionsForRole returns the table entry for role
func (rc *Checker) PermissionsForRole(role Role) ([]Permission, error) {
	if !rc.validRoles[role] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	list := rc.grantLists[role]
	out := make([]Permission, len(list))
	copy(out, list)
	return out, nil
}

// DisplayName returns the presentation label of role
func (rc *Checker) DisplayName(role Role) (string, error) {
	name, ok := rc.displayNames[role]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return name, nil
}

// ParseRole validates a role string from an untrusted source
func (rc *Checker) ParseRole(role string) (Role, error) {
	r := Role(role)
	if rc.validRoles[r] {
		return r, nil
	}
	return NoRole, fmt.Errorf("%w: %q", ErrInvalidRole, role)
}

// ParsePermission validates a permission token from an untrusted source
func (rc *Checker) ParsePermission(perm string) (Permission, error) {
	p := Permission(perm)
	if rc.validPerms[p] {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPermission, perm)
}

// HasPermission reports whether role holds perm. NoRole, unknown roles and
// permissions outside the catalog are all denied.
func (rc *Checker) HasPermission(role Role, perm Permission) bool {
	if role == NoRole {
		return false
	}
	return rc.grants[role][perm]
}

// HasAnyPermission reports whether role holds at least one of perms.
// An empty requirement denies.
func (rc *Checker) HasAnyPermission(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if rc.HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether role holds every one of perms.
// An empty requirement is vacuously satisfied, even for NoRole.
func (rc *Checker) HasAllPermissions(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !rc.HasPermission(role, p) {
			return false
		}
	}
	return true
}

// CanAccess checks a CRUD action on a resource. Non-CRUD actions and
// resource/action pairs missing from the catalog are denied.
func (rc *Checker) CanAccess(role Role, resource Resource, action Action) bool {
	if !action.IsCRUD() {
		return false
	}
	perm := NewPermission(resource, action)
	if !rc.validPerms[perm] {
		return false
	}
	return rc.HasPermission(role, perm)
}

// Covers reports whether role holds every permission held by other.
// Both roles must be defined.
func (rc *Checker) Covers(role, other Role) bool {
	if !rc.validRoles[role] || !rc.validRoles[other] {
		return false
	}
	return rc.HasAllPermissions(role, rc.grantLists[other]...)
}

// Authorize is the error-returning form of HasPermission, for callers that
// want a loggable reason. The error always wraps ErrDenied.
func (rc *Checker) Authorize(role Role, perm Permission) error {
	if role == NoRole {
		return fmt.Errorf("%w: %s", ErrDenied, errDeniedNoRole)
	}
	if !rc.HasPermission(role, perm) {
		return fmt.Errorf("%w: "+errDeniedRoleLacksPermissionFmt, ErrDenied, role, perm)
	}
	return nil
}

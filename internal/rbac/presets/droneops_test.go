package presets_test

import (
	"testing"

	"compliance-service/internal/rbac"
	"compliance-service/internal/rbac/presets"
)

var allRoles = []rbac.Role{
	presets.RoleSuperAdmin,
	presets.RoleAdmin,
	presets.RoleOperationsManager,
	presets.RoleQAManager,
	presets.RolePilot,
	presets.RoleTechnician,
	presets.RoleViewer,
}

// rolesAndNone includes the absent role alongside every defined one.
var rolesAndNone = append([]rbac.Role{rbac.NoRole}, allRoles...)

func grantSet(t *testing.T, role rbac.Role) map[rbac.Permission]bool {
	t.Helper()
	perms, err := presets.Checker().PermissionsForRole(role)
	if err != nil {
		t.Fatalf("PermissionsForRole(%s): %v", role, err)
	}
	set := make(map[rbac.Permission]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return set
}

func TestCheckerIsShared(t *testing.T) {
	if presets.Checker() != presets.Checker() {
		t.Fatal("Checker() should return the same instance on every call")
	}
}

func TestRoleEnumerationMatchesConfig(t *testing.T) {
	roles := presets.Checker().Roles()
	if len(roles) != len(allRoles) {
		t.Fatalf("expected %d roles, got %d", len(allRoles), len(roles))
	}
	for i, rd := range roles {
		if rd.Name != allRoles[i] {
			t.Errorf("role %d: expected %s, got %s", i, allRoles[i], rd.Name)
		}
	}
}

func TestCatalogTokensAreWellFormed(t *testing.T) {
	checker := presets.Checker()
	perms := checker.ListPermissions()
	if len(perms) != 29 {
		t.Errorf("expected 29 permissions in catalog, got %d", len(perms))
	}
	for _, p := range perms {
		if p.Resource() == "" || p.Action() == "" {
			t.Errorf("permission %q is not of the form resource:action", p)
		}
		if rbac.NewPermission(p.Resource(), p.Action()) != p {
			t.Errorf("permission %q does not round-trip through its segments", p)
		}
	}
}

// ============================================================================
// Role Table Properties
// ============================================================================

func TestTotality(t *testing.T) {
	for _, role := range allRoles {
		perms, err := presets.Checker().PermissionsForRole(role)
		if err != nil {
			t.Errorf("PermissionsForRole(%s) returned error: %v", role, err)
		}
		if len(perms) == 0 {
			t.Errorf("role %s maps to no permissions", role)
		}
		if _, err := presets.Checker().DisplayName(role); err != nil {
			t.Errorf("DisplayName(%s) returned error: %v", role, err)
		}
	}
}

func TestSuperAdminHoldsWholeCatalog(t *testing.T) {
	super := grantSet(t, presets.RoleSuperAdmin)
	catalog := presets.Checker().ListPermissions()

	if len(super) != len(catalog) {
		t.Fatalf("super admin holds %d permissions, catalog has %d", len(super), len(catalog))
	}
	for _, p := range catalog {
		if !super[p] {
			t.Errorf("super admin lacks %s", p)
		}
	}
}

func TestAdminIsCatalogMinusSettingsAdmin(t *testing.T) {
	admin := grantSet(t, presets.RoleAdmin)
	catalog := presets.Checker().ListPermissions()

	if len(admin) != len(catalog)-1 {
		t.Fatalf("admin holds %d permissions, expected %d", len(admin), len(catalog)-1)
	}
	for _, p := range catalog {
		if p == presets.PermSettingsAdmin {
			if admin[p] {
				t.Error("admin must not hold settings:admin")
			}
			continue
		}
		if !admin[p] {
			t.Errorf("admin lacks %s", p)
		}
	}
}

func TestSupersetMonotonicity(t *testing.T) {
	super := grantSet(t, presets.RoleSuperAdmin)
	admin := grantSet(t, presets.RoleAdmin)

	for _, role := range allRoles {
		for p := range grantSet(t, role) {
			if !super[p] {
				t.Errorf("super admin lacks %s held by %s", p, role)
			}
			if role != presets.RoleSuperAdmin && !admin[p] {
				t.Errorf("admin lacks %s held by %s", p, role)
			}
		}
	}
}

func TestScopedRolesAreStrictSubsetsOfAdmin(t *testing.T) {
	admin := grantSet(t, presets.RoleAdmin)
	for _, role := range allRoles[2:] {
		set := grantSet(t, role)
		if len(set) >= len(admin) {
			t.Errorf("%s is not a strict subset of admin (%d >= %d)", role, len(set), len(admin))
		}
		if !presets.Checker().Covers(presets.RoleAdmin, role) {
			t.Errorf("admin does not cover %s", role)
		}
		if presets.Checker().Covers(role, presets.RoleAdmin) {
			t.Errorf("%s should not cover admin", role)
		}
	}
}

func TestScopedRoleTable(t *testing.T) {
	expected := map[rbac.Role][]rbac.Permission{
		presets.RoleOperationsManager: {
			"drone:view", "drone:create", "drone:edit",
			"order:view", "order:create", "order:edit",
			"team:view", "team:create", "team:edit",
			"subcontractor:view", "subcontractor:create", "subcontractor:edit",
			"battery:view", "battery:create", "battery:edit",
			"compliance:view", "compliance:upload",
			"report:view", "report:export",
			"settings:view",
		},
		presets.RoleQAManager: {
			"drone:view", "drone:edit",
			"order:view", "team:view", "subcontractor:view", "battery:view",
			"compliance:view", "compliance:upload", "compliance:approve",
			"report:view", "report:export",
		},
		presets.RolePilot: {
			"drone:view", "team:view", "battery:view",
			"compliance:view", "compliance:upload",
		},
		presets.RoleTechnician: {
			"drone:view", "battery:view", "battery:create", "battery:edit",
			"team:view", "compliance:view", "compliance:upload",
		},
		presets.RoleViewer: {
			"drone:view", "order:view", "team:view", "subcontractor:view",
			"battery:view", "compliance:view", "report:view",
		},
	}

	for role, want := range expected {
		t.Run(string(role), func(t *testing.T) {
			got := grantSet(t, role)
			if len(got) != len(want) {
				t.Errorf("expected %d permissions, got %d", len(want), len(got))
			}
			for _, p := range want {
				if !got[p] {
					t.Errorf("missing %s", p)
				}
			}
		})
	}
}

// ============================================================================
// Decision Properties
// ============================================================================

func TestAbsenceDenies(t *testing.T) {
	checker := presets.Checker()
	for _, p := range checker.ListPermissions() {
		if checker.HasPermission(rbac.NoRole, p) {
			t.Errorf("HasPermission(NoRole, %s) should be false", p)
		}
	}
}

func TestAnyAllVacuousDuality(t *testing.T) {
	checker := presets.Checker()
	for _, role := range rolesAndNone {
		if checker.HasAnyPermission(role) {
			t.Errorf("HasAnyPermission(%q) with no permissions should be false", role)
		}
		if !checker.HasAllPermissions(role) {
			t.Errorf("HasAllPermissions(%q) with no permissions should be true", role)
		}
		if checker.HasAnyPermission(role, []rbac.Permission{}...) {
			t.Errorf("HasAnyPermission(%q, []) should be false", role)
		}
	}
}

func TestAllImpliesAny(t *testing.T) {
	checker := presets.Checker()
	catalog := checker.ListPermissions()

	// Every contiguous window of the catalog is a non-empty requirement list.
	for _, role := range rolesAndNone {
		for start := 0; start < len(catalog); start++ {
			for end := start + 1; end <= len(catalog); end++ {
				list := catalog[start:end]
				if checker.HasAllPermissions(role, list...) && !checker.HasAnyPermission(role, list...) {
					t.Errorf("role %q: all(%v) holds but any does not", role, list)
				}
			}
		}
	}
}

func TestCanAccessMatchesHasPermission(t *testing.T) {
	checker := presets.Checker()
	for _, role := range rolesAndNone {
		for _, rd := range checker.Resources() {
			for _, act := range rd.Actions {
				if !act.IsCRUD() {
					continue
				}
				perm := rbac.NewPermission(rd.Name, act)
				if checker.CanAccess(role, rd.Name, act) != checker.HasPermission(role, perm) {
					t.Errorf("CanAccess(%q, %s, %s) disagrees with HasPermission(%s)", role, rd.Name, act, perm)
				}
			}
		}
	}
}

func TestUnknownTokenDenial(t *testing.T) {
	checker := presets.Checker()
	for _, role := range rolesAndNone {
		for _, act := range []rbac.Action{rbac.ActionView, rbac.ActionCreate, rbac.ActionEdit, rbac.ActionDelete} {
			if checker.CanAccess(role, "nonexistent_resource", act) {
				t.Errorf("CanAccess(%q, nonexistent_resource, %s) should be false", role, act)
			}
		}
	}
}

func TestResourceSpecificActionsNeedFullToken(t *testing.T) {
	checker := presets.Checker()

	if checker.CanAccess(presets.RoleSuperAdmin, presets.ResourceReport, presets.ActionExport) {
		t.Error("CanAccess must not accept non-CRUD actions")
	}
	if !checker.HasPermission(presets.RoleQAManager, rbac.NewPermission(presets.ResourceReport, presets.ActionExport)) {
		t.Error("QA manager should export reports through the full token")
	}
}

func TestScenarios(t *testing.T) {
	checker := presets.Checker()

	if !checker.HasPermission(presets.RoleViewer, "drone:view") {
		t.Error("VIEWER should have drone:view")
	}
	if checker.HasPermission(presets.RoleViewer, "drone:create") {
		t.Error("VIEWER should not have drone:create")
	}
	if !checker.HasPermission(presets.RoleTechnician, "battery:create") {
		t.Error("TECHNICIAN should have battery:create")
	}
	if checker.HasPermission(presets.RolePilot, "battery:create") {
		t.Error("PILOT should not have battery:create")
	}
	if !checker.HasAnyPermission(presets.RoleQAManager, "compliance:approve", "order:delete") {
		t.Error("QA_MANAGER should match compliance:approve")
	}
	if checker.HasAllPermissions(presets.RoleOperationsManager, "drone:view", "drone:create", "drone:delete") {
		t.Error("OPERATIONS_MANAGER should not hold drone:delete")
	}
	if checker.CanAccess(rbac.NoRole, presets.ResourceDrone, rbac.ActionView) {
		t.Error("absent role should not access drones")
	}
	if checker.HasPermission(presets.RoleAdmin, "settings:admin") {
		t.Error("ADMIN should not have settings:admin")
	}
	if !checker.HasPermission(presets.RoleSuperAdmin, "settings:admin") {
		t.Error("SUPER_ADMIN should have settings:admin")
	}
}

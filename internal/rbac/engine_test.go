package rbac_test

import (
	"errors"
	"sync"
	"testing"

	"compliance-service/internal/rbac"
	"compliance-service/internal/rbac/presets"
)

func newChecker(t *testing.T) *rbac.Checker {
	t.Helper()
	rc, err := rbac.New(presets.DroneOps())
	if err != nil {
		t.Fatalf("failed to create checker: %v", err)
	}
	return rc
}

// ============================================================================
// Catalog Tests
// ============================================================================

func TestListPermissionsUnique(t *testing.T) {
	checker := newChecker(t)

	perms := checker.ListPermissions()
	if len(perms) == 0 {
		t.Fatal("catalog must not be empty")
	}

	seen := make(map[rbac.Permission]bool, len(perms))
	for _, p := range perms {
		if seen[p] {
			t.Errorf("permission %s listed twice", p)
		}
		seen[p] = true
	}
}

func TestListPermissionsReturnsCopy(t *testing.T) {
	checker := newChecker(t)

	perms := checker.ListPermissions()
	perms[0] = "tampered:view"

	if checker.ListPermissions()[0] == "tampered:view" {
		t.Error("ListPermissions must not expose internal state")
	}
}

func TestPermissionsForRoleInvalid(t *testing.T) {
	checker := newChecker(t)

	for _, role := range []rbac.Role{rbac.NoRole, "ROOT", "viewer"} {
		_, err := checker.PermissionsForRole(role)
		if !errors.Is(err, rbac.ErrInvalidRole) {
			t.Errorf("PermissionsForRole(%q) error should wrap ErrInvalidRole, got: %v", role, err)
		}
	}
}

func TestPermissionsForRoleReturnsCopy(t *testing.T) {
	checker := newChecker(t)

	perms, err := checker.PermissionsForRole(presets.RolePilot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	perms[0] = presets.PermSettingsAdmin

	if checker.HasPermission(presets.RolePilot, presets.PermSettingsAdmin) {
		t.Error("mutating a returned slice must not grant permissions")
	}
}

func TestDisplayName(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		role      rbac.Role
		expected  string
		shouldErr bool
	}{
		{presets.RoleSuperAdmin, "Super Admin", false},
		{presets.RoleAdmin, "Admin", false},
		{presets.RoleOperationsManager, "Operations Manager", false},
		{presets.RoleQAManager, "QA Manager", false},
		{presets.RolePilot, "Pilot", false},
		{presets.RoleTechnician, "Technician", false},
		{presets.RoleViewer, "Viewer", false},
		{"GUEST", "", true},
		{rbac.NoRole, "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			name, err := checker.DisplayName(tt.role)
			if tt.shouldErr {
				if !errors.Is(err, rbac.ErrInvalidRole) {
					t.Errorf("DisplayName(%q) should wrap ErrInvalidRole, got: %v", tt.role, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DisplayName(%q) unexpected error: %v", tt.role, err)
			}
			if name != tt.expected {
				t.Errorf("DisplayName(%q) = %q, expected %q", tt.role, name, tt.expected)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name      string
		role      string
		expected  rbac.Role
		shouldErr bool
	}{
		{"Valid pilot", "PILOT", presets.RolePilot, false},
		{"Valid QA manager", "QA_MANAGER", presets.RoleQAManager, false},
		{"Lowercase is not a role", "pilot", rbac.NoRole, true},
		{"Unknown role", "ROOT", rbac.NoRole, true},
		{"Empty role", "", rbac.NoRole, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := checker.ParseRole(tt.role)
			if tt.shouldErr {
				if !errors.Is(err, rbac.ErrInvalidRole) {
					t.Errorf("ParseRole(%q) error should wrap ErrInvalidRole, got: %v", tt.role, err)
				}
			} else if err != nil {
				t.Errorf("ParseRole(%q) unexpected error: %v", tt.role, err)
			}
			if result != tt.expected {
				t.Errorf("ParseRole(%q) = %q, expected %q", tt.role, result, tt.expected)
			}
		})
	}
}

func TestParsePermission(t *testing.T) {
	checker := newChecker(t)

	if p, err := checker.ParsePermission("compliance:approve"); err != nil || p != presets.PermComplianceApprove {
		t.Errorf("ParsePermission(compliance:approve) = %q, %v", p, err)
	}

	for _, raw := range []string{"", "drone", "drone:fly", "report:delete", "Drone:view"} {
		if _, err := checker.ParsePermission(raw); !errors.Is(err, rbac.ErrInvalidPermission) {
			t.Errorf("ParsePermission(%q) should wrap ErrInvalidPermission, got: %v", raw, err)
		}
	}
}

func TestPermissionSegments(t *testing.T) {
	p := rbac.NewPermission(presets.ResourceCompliance, presets.ActionApprove)
	if p != presets.PermComplianceApprove {
		t.Fatalf("NewPermission = %s, expected %s", p, presets.PermComplianceApprove)
	}
	if p.Resource() != presets.ResourceCompliance {
		t.Errorf("Resource() = %s", p.Resource())
	}
	if p.Action() != presets.ActionApprove {
		t.Errorf("Action() = %s", p.Action())
	}

	bare := rbac.Permission("drone")
	if bare.Resource() != "drone" || bare.Action() != "" {
		t.Errorf("token without separator split into %q/%q", bare.Resource(), bare.Action())
	}
}

// ============================================================================
// Decision Tests
// ============================================================================

func TestHasPermission(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name     string
		role     rbac.Role
		perm     rbac.Permission
		expected bool
	}{
		{"Viewer can view drones", presets.RoleViewer, presets.PermDroneView, true},
		{"Viewer cannot create drones", presets.RoleViewer, presets.PermDroneCreate, false},
		{"Technician can create batteries", presets.RoleTechnician, presets.PermBatteryCreate, true},
		{"Pilot cannot create batteries", presets.RolePilot, presets.PermBatteryCreate, false},
		{"Admin lacks settings admin", presets.RoleAdmin, presets.PermSettingsAdmin, false},
		{"Super admin has settings admin", presets.RoleSuperAdmin, presets.PermSettingsAdmin, true},
		{"No role is denied", rbac.NoRole, presets.PermDroneView, false},
		{"Unknown role is denied", "ROOT", presets.PermDroneView, false},
		{"Unknown permission is denied", presets.RoleSuperAdmin, "drone:fly", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.HasPermission(tt.role, tt.perm); got != tt.expected {
				t.Errorf("HasPermission(%q, %s) = %v, expected %v", tt.role, tt.perm, got, tt.expected)
			}
		})
	}
}

func TestHasAnyPermission(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name     string
		role     rbac.Role
		perms    []rbac.Permission
		expected bool
	}{
		{"QA manager first matches", presets.RoleQAManager, []rbac.Permission{presets.PermComplianceApprove, presets.PermOrderDelete}, true},
		{"QA manager last matches", presets.RoleQAManager, []rbac.Permission{presets.PermOrderDelete, presets.PermReportExport}, true},
		{"Pilot none match", presets.RolePilot, []rbac.Permission{presets.PermOrderView, presets.PermReportView}, false},
		{"Empty denies", presets.RoleSuperAdmin, nil, false},
		{"No role denies", rbac.NoRole, []rbac.Permission{presets.PermDroneView}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.HasAnyPermission(tt.role, tt.perms...); got != tt.expected {
				t.Errorf("HasAnyPermission(%q, %v) = %v, expected %v", tt.role, tt.perms, got, tt.expected)
			}
		})
	}
}

func TestHasAllPermissions(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name     string
		role     rbac.Role
		perms    []rbac.Permission
		expected bool
	}{
		{
			"Operations manager lacks drone delete",
			presets.RoleOperationsManager,
			[]rbac.Permission{presets.PermDroneView, presets.PermDroneCreate, presets.PermDroneDelete},
			false,
		},
		{
			"Operations manager drone without delete",
			presets.RoleOperationsManager,
			[]rbac.Permission{presets.PermDroneView, presets.PermDroneCreate, presets.PermDroneEdit},
			true,
		},
		{"Empty is vacuously true", presets.RoleViewer, nil, true},
		{"Empty is vacuously true for no role", rbac.NoRole, nil, true},
		{"No role with requirement", rbac.NoRole, []rbac.Permission{presets.PermDroneView}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.HasAllPermissions(tt.role, tt.perms...); got != tt.expected {
				t.Errorf("HasAllPermissions(%q, %v) = %v, expected %v", tt.role, tt.perms, got, tt.expected)
			}
		})
	}
}

func TestCanAccess(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name     string
		role     rbac.Role
		resource rbac.Resource
		action   rbac.Action
		expected bool
	}{
		{"No role cannot view drones", rbac.NoRole, presets.ResourceDrone, rbac.ActionView, false},
		{"Viewer can view drones", presets.RoleViewer, presets.ResourceDrone, rbac.ActionView, true},
		{"Technician can edit batteries", presets.RoleTechnician, presets.ResourceBattery, rbac.ActionEdit, true},
		{"Technician cannot delete batteries", presets.RoleTechnician, presets.ResourceBattery, rbac.ActionDelete, false},
		{"Admin can delete compliance", presets.RoleAdmin, presets.ResourceCompliance, rbac.ActionDelete, true},
		{"Unknown resource", presets.RoleSuperAdmin, "nonexistent_resource", rbac.ActionView, false},
		{"Action undefined for resource", presets.RoleSuperAdmin, presets.ResourceReport, rbac.ActionDelete, false},
		{"Non-CRUD action", presets.RoleSuperAdmin, presets.ResourceCompliance, presets.ActionUpload, false},
		{"Separator smuggled in resource", presets.RoleSuperAdmin, "drone:view", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.CanAccess(tt.role, tt.resource, tt.action); got != tt.expected {
				t.Errorf("CanAccess(%q, %s, %s) = %v, expected %v", tt.role, tt.resource, tt.action, got, tt.expected)
			}
		})
	}
}

func TestCovers(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name     string
		role     rbac.Role
		other    rbac.Role
		expected bool
	}{
		{"Super admin covers admin", presets.RoleSuperAdmin, presets.RoleAdmin, true},
		{"Admin does not cover super admin", presets.RoleAdmin, presets.RoleSuperAdmin, false},
		{"Admin covers QA manager", presets.RoleAdmin, presets.RoleQAManager, true},
		{"Role covers itself", presets.RolePilot, presets.RolePilot, true},
		{"Operations manager covers pilot", presets.RoleOperationsManager, presets.RolePilot, true},
		{"Operations manager does not cover QA manager", presets.RoleOperationsManager, presets.RoleQAManager, false},
		{"QA manager does not cover technician", presets.RoleQAManager, presets.RoleTechnician, false},
		{"Unknown role", "ROOT", presets.RoleViewer, false},
		{"No role", rbac.NoRole, rbac.NoRole, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.Covers(tt.role, tt.other); got != tt.expected {
				t.Errorf("Covers(%q, %q) = %v, expected %v", tt.role, tt.other, got, tt.expected)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	checker := newChecker(t)

	if err := checker.Authorize(presets.RoleQAManager, presets.PermComplianceApprove); err != nil {
		t.Errorf("QA manager should be authorized to approve: %v", err)
	}

	err := checker.Authorize(presets.RolePilot, presets.PermComplianceApprove)
	if !errors.Is(err, rbac.ErrDenied) {
		t.Errorf("expected ErrDenied, got: %v", err)
	}

	err = checker.Authorize(rbac.NoRole, presets.PermDroneView)
	if !errors.Is(err, rbac.ErrDenied) {
		t.Errorf("expected ErrDenied for no role, got: %v", err)
	}
}

func TestConcurrentReads(t *testing.T) {
	checker := newChecker(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				checker.HasPermission(presets.RoleViewer, presets.PermDroneView)
				checker.CanAccess(presets.RoleTechnician, presets.ResourceBattery, rbac.ActionCreate)
				_, _ = checker.PermissionsForRole(presets.RoleQAManager)
			}
		}()
	}
	wg.Wait()
}

func TestMustNewPanicsOnInvalidConfig(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustNew should panic on invalid config")
		}
	}()
	rbac.MustNew(rbac.Config{})
}

func TestMustNewSucceedsWithPreset(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustNew should not panic with valid preset: %v", r)
		}
	}()
	rbac.MustNew(presets.DroneOps())
}

package presets

import "compliance-service/internal/rbac"

// Drone operations roles.
const (
	RoleSuperAdmin        rbac.Role = "SUPER_ADMIN"
	RoleAdmin             rbac.Role = "ADMIN"
	RoleOperationsManager rbac.Role = "OPERATIONS_MANAGER"
	RoleQAManager         rbac.Role = "QA_MANAGER"
	RolePilot             rbac.Role = "PILOT"
	RoleTechnician        rbac.Role = "TECHNICIAN"
	RoleViewer            rbac.Role = "VIEWER"
)

// Resources.
const (
	ResourceDrone         rbac.Resource = "drone"
	ResourceOrder         rbac.Resource = "order"
	ResourceTeam          rbac.Resource = "team"
	ResourceSubcontractor rbac.Resource = "subcontractor"
	ResourceBattery       rbac.Resource = "battery"
	ResourceCompliance    rbac.Resource = "compliance"
	ResourceReport        rbac.Resource = "report"
	ResourceSettings      rbac.Resource = "settings"
)

// Resource-specific actions. The CRUD verbs live in package rbac.
const (
	ActionUpload  rbac.Action = "upload"
	ActionApprove rbac.Action = "approve"
	ActionExport  rbac.Action = "export"
	ActionAdmin   rbac.Action = "admin"
)

// Permission catalog.
const (
	PermDroneView   rbac.Permission = "drone:view"
	PermDroneCreate rbac.Permission = "drone:create"
	PermDroneEdit   rbac.Permission = "drone:edit"
	PermDroneDelete rbac.Permission = "drone:delete"

	PermOrderView   rbac.Permission = "order:view"
	PermOrderCreate rbac.Permission = "order:create"
	PermOrderEdit   rbac.Permission = "order:edit"
	PermOrderDelete rbac.Permission = "order:delete"

	PermTeamView   rbac.Permission = "team:view"
	PermTeamCreate rbac.Permission = "team:create"
	PermTeamEdit   rbac.Permission = "team:edit"
	PermTeamDelete rbac.Permission = "team:delete"

	PermSubcontractorView   rbac.Permission = "subcontractor:view"
	PermSubcontractorCreate rbac.Permission = "subcontractor:create"
	PermSubcontractorEdit   rbac.Permission = "subcontractor:edit"
	PermSubcontractorDelete rbac.Permission = "subcontractor:delete"

	PermBatteryView   rbac.Permission = "battery:view"
	PermBatteryCreate rbac.Permission = "battery:create"
	PermBatteryEdit   rbac.Permission = "battery:edit"
	PermBatteryDelete rbac.Permission = "battery:delete"

	PermComplianceView    rbac.Permission = "compliance:view"
	PermComplianceUpload  rbac.Permission = "compliance:upload"
	PermComplianceApprove rbac.Permission = "compliance:approve"
	PermComplianceDelete  rbac.Permission = "compliance:delete"

	PermReportView   rbac.Permission = "report:view"
	PermReportExport rbac.Permission = "report:export"

	PermSettingsView  rbac.Permission = "settings:view"
	PermSettingsEdit  rbac.Permission = "settings:edit"
	PermSettingsAdmin rbac.Permission = "settings:admin"
)

var crud = []rbac.Action{rbac.ActionView, rbac.ActionCreate, rbac.ActionEdit, rbac.ActionDelete}

// DroneOps returns the access-control policy of the drone operations
// compliance tracker.
//
// SUPER_ADMIN holds the whole catalog. ADMIN holds everything except
// settings:admin. The remaining roles are scoped to their job:
//
//	OPERATIONS_MANAGER  fleet, orders, people and batteries without delete; compliance upload; report export
//	QA_MANAGER          drone edit, compliance approval, report export, read elsewhere
//	PILOT               read fleet, team and batteries; compliance upload
//	TECHNICIAN          battery maintenance; compliance upload
//	VIEWER              read-only
func DroneOps() rbac.Config {
	catalog := []rbac.Permission{
		PermDroneView, PermDroneCreate, PermDroneEdit, PermDroneDelete,
		PermOrderView, PermOrderCreate, PermOrderEdit, PermOrderDelete,
		PermTeamView, PermTeamCreate, PermTeamEdit, PermTeamDelete,
		PermSubcontractorView, PermSubcontractorCreate, PermSubcontractorEdit, PermSubcontractorDelete,
		PermBatteryView, PermBatteryCreate, PermBatteryEdit, PermBatteryDelete,
		PermComplianceView, PermComplianceUpload, PermComplianceApprove, PermComplianceDelete,
		PermReportView, PermReportExport,
		PermSettingsView, PermSettingsEdit, PermSettingsAdmin,
	}

	adminGrants := make([]rbac.Permission, 0, len(catalog)-1)
	for _, p := range catalog {
		if p != PermSettingsAdmin {
			adminGrants = append(adminGrants, p)
		}
	}

	return rbac.Config{
		Roles: []rbac.RoleDefinition{
			{Name: RoleSuperAdmin, DisplayName: "Super Admin"},
			{Name: RoleAdmin, DisplayName: "Admin"},
			{Name: RoleOperationsManager, DisplayName: "Operations Manager"},
			{Name: RoleQAManager, DisplayName: "QA Manager"},
			{Name: RolePilot, DisplayName: "Pilot"},
			{Name: RoleTechnician, DisplayName: "Technician"},
			{Name: RoleViewer, DisplayName: "Viewer"},
		},
		Resources: []rbac.ResourceDefinition{
			{Name: ResourceDrone, Actions: crud},
			{Name: ResourceOrder, Actions: crud},
			{Name: ResourceTeam, Actions: crud},
			{Name: ResourceSubcontractor, Actions: crud},
			{Name: ResourceBattery, Actions: crud},
			{Name: ResourceCompliance, Actions: []rbac.Action{rbac.ActionView, ActionUpload, ActionApprove, rbac.ActionDelete}},
			{Name: ResourceReport, Actions: []rbac.Action{rbac.ActionView, ActionExport}},
			{Name: ResourceSettings, Actions: []rbac.Action{rbac.ActionView, rbac.ActionEdit, ActionAdmin}},
		},
		Grants: map[rbac.Role][]rbac.Permission{
			RoleSuperAdmin: catalog,
			RoleAdmin:      adminGrants,
			RoleOperationsManager: {
				PermDroneView, PermDroneCreate, PermDroneEdit,
				PermOrderView, PermOrderCreate, PermOrderEdit,
				PermTeamView, PermTeamCreate, PermTeamEdit,
				PermSubcontractorView, PermSubcontractorCreate, PermSubcontractorEdit,
				PermBatteryView, PermBatteryCreate, PermBatteryEdit,
				PermComplianceView, PermComplianceUpload,
				PermReportView, PermReportExport,
				PermSettingsView,
			},
			RoleQAManager: {
				PermDroneView, PermDroneEdit,
				PermOrderView,
				PermTeamView,
				PermSubcontractorView,
				PermBatteryView,
				PermComplianceView, PermComplianceUpload, PermComplianceApprove,
				PermReportView, PermReportExport,
			},
			RolePilot: {
				PermDroneView,
				PermTeamView,
				PermBatteryView,
				PermComplianceView, PermComplianceUpload,
			},
			RoleTechnician: {
				PermDroneView,
				PermBatteryView, PermBatteryCreate, PermBatteryEdit,
				PermTeamView,
				PermComplianceView, PermComplianceUpload,
			},
			RoleViewer: {
				PermDroneView,
				PermOrderView,
				PermTeamView,
				PermSubcontractorView,
				PermBatteryView,
				PermComplianceView,
				PermReportView,
			},
		},
	}
}

var droneOpsChecker = rbac.MustNew(DroneOps())

// Checker returns the shared checker for the DroneOps policy. It is built
// once at package initialisation and is read-only.
func Checker() *rbac.Checker {
	return droneOpsChecker
}

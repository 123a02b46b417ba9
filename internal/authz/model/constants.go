package model

// Verbs (closed vocabulary, five entries)
const (
	VerbView   = "view"
	VerbCreate = "create"
	VerbUpdate = "update"
	VerbDelete = "delete"
	VerbExport = "export"
)

// AllVerbs lists the verbs in canonical order.
var AllVerbs = []string{VerbView, VerbCreate, VerbUpdate, VerbDelete, VerbExport}

// Modules subject to permissioning
const (
	ModuleOrders    = "orders"
	ModuleCustomers = "customers"
	ModuleInventory = "inventory"
	ModuleBilling   = "billing"
	ModuleReports   = "reports"
	ModuleStaff     = "staff"
	ModuleSettings  = "settings"
)

var KnownModules = []string{
	ModuleOrders,
	ModuleCustomers,
	ModuleInventory,
	ModuleBilling,
	ModuleReports,
	ModuleStaff,
	ModuleSettings,
}

// Seeded role slugs
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleStaff      = "staff"
	RoleViewer     = "viewer"
)

// Role lifecycle states: draft -> active <-> inactive
const (
	RoleStatusDraft    = "draft"
	RoleStatusActive   = "active"
	RoleStatusInactive = "inactive"
)

// Audit action codes (closed vocabulary)
const (
	ActionCreateRole          = "CREATE_ROLE"
	ActionUpdateRole          = "UPDATE_ROLE"
	ActionDeleteRole          = "DELETE_ROLE"
	ActionActivateRole        = "ACTIVATE_ROLE"
	ActionDeactivateRole      = "DEACTIVATE_ROLE"
	ActionAssignRole          = "ASSIGN_ROLE"
	ActionRevokeRole          = "REVOKE_ROLE"
	ActionSetOverride         = "SET_OVERRIDE"
	ActionClearOverride       = "CLEAR_OVERRIDE"
	ActionActivatePrincipal   = "ACTIVATE_PRINCIPAL"
	ActionDeactivatePrincipal = "DEACTIVATE_PRINCIPAL"
	ActionPermissionGranted   = "PERMISSION_GRANTED"
	ActionPermissionDenied    = "PERMISSION_DENIED"
	ActionLoginFailed         = "LOGIN_FAILED"
	ActionUnknown             = "UNKNOWN_ACTION"
)

// Audit outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeWarning = "warning"
	OutcomePending = "pending"
)

// Audit severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Audit entity types
const (
	EntityTypeRole       = "role"
	EntityTypePrincipal  = "principal"
	EntityTypePermission = "permission"
)

// System actor used for seed and maintenance writes
const ActorSystem = "system"

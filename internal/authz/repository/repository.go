package repository

import (
	"context"
	"errors"

	"authcore/internal/authz/model"
)

var (
	ErrDuplicate       = errors.New("duplicate record")
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("version conflict")
	// ErrAppendOnly is returned for any attempt to update or delete an
	// audit record. This holds unconditionally, super role included.
	ErrAppendOnly = errors.New("audit records are append-only")
)

type RoleRepository interface {
	// Create a role definition; ErrDuplicate on slug collision
	CreateRole(ctx context.Context, role *model.RoleDefinition) error
	// Fetch one role by slug; ErrNotFound when missing
	GetRoleBySlug(ctx context.Context, slug string) (*model.RoleDefinition, error)
	// List roles matching the filter
	FindRoles(ctx context.Context, filter model.RoleFilter) ([]*model.RoleDefinition, error)
	// Resolve role slugs to active definitions (inactive/draft omitted)
	FindActiveRolesBySlugs(ctx context.Context, slugs []string) ([]*model.RoleDefinition, error)
	// Compare-and-swap update keyed on Version; ErrVersionConflict on a lost update
	UpdateRole(ctx context.Context, role *model.RoleDefinition) error
	// Hard delete; callers enforce the assignment-count and system-role rules
	DeleteRole(ctx context.Context, slug string) error
	// Initialize indexes
	EnsureIndexes(ctx context.Context) error
}

type PrincipalRepository interface {
	// Fetch a principal; ErrNotFound when missing
	GetPrincipal(ctx context.Context, id string) (*model.Principal, error)
	// Count principals currently referencing a role slug
	CountRoleAssignments(ctx context.Context, slug string) (int64, error)
	// Attach a role slug (idempotent)
	AssignRole(ctx context.Context, principalID, slug, updatedBy string) error
	// Detach a role slug
	RevokeRole(ctx context.Context, principalID, slug, updatedBy string) error
	// Set the override grant for one module
	SetOverride(ctx context.Context, principalID, module string, grant any, updatedBy string) error
	// Remove the override for one module
	ClearOverride(ctx context.Context, principalID, module, updatedBy string) error
	// Toggle the active flag (soft deactivate; principals are never hard-deleted)
	SetPrincipalActive(ctx context.Context, principalID string, active bool, updatedBy string) error
}

type AuditRepository interface {
	// Insert a record; ErrDuplicate when the sequence position is already taken
	InsertRecord(ctx context.Context, rec *model.AuditRecord) error
	// Current chain tail (highest sequence); nil when the chain is empty
	Tail(ctx context.Context) (*model.AuditRecord, error)
	// Walk the chain in sequence order
	ScanSequence(ctx context.Context, fn func(*model.AuditRecord) error) error
	// Filtered, paginated listing
	FindRecords(ctx context.Context, req model.GetAuditRecordsReq) ([]*model.AuditRecord, int64, error)
	// Always fail with ErrAppendOnly; present so the boundary is explicit
	UpdateRecord(ctx context.Context, id string, fields map[string]any) error
	DeleteRecord(ctx context.Context, id string) error
	// Initialize indexes (unique sequence among them)
	EnsureAuditIndexes(ctx context.Context) error
}

package model

import "time"

// Principal is an authenticated actor being authorized. Identity resolution
// happens upstream; this service only reads the stored projection.
type Principal struct {
	ID       string   `bson:"_id" json:"id"`
	TenantID string   `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Roles    []string `bson:"roles,omitempty" json:"roles,omitempty"`
	// Overrides maps module -> grant in any of the historical encodings
	// (compact code string, verb-boolean object, bare bool). Decoded only by
	// the permission package.
	Overrides map[string]any `bson:"overrides,omitempty" json:"overrides,omitempty"`
	// LegacyPermissions is the pre-role flat permission map some principals
	// still carry. Same historical encodings as Overrides.
	LegacyPermissions map[string]any `bson:"legacy_permissions,omitempty" json:"legacy_permissions,omitempty"`
	IsActive          bool           `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	UpdatedBy string    `bson:"updated_by,omitempty" json:"-"`
}

// HasRoleSlug reports whether the principal carries the given role slug.
func (p *Principal) HasRoleSlug(slug string) bool {
	for _, s := range p.Roles {
		if s == slug {
			return true
		}
	}
	return false
}

// RoleDefinition is a named set of per-module grants.
type RoleDefinition struct {
	ID     string `bson:"_id,omitempty" json:"id"`
	Slug   string `bson:"slug" json:"slug"`
	Name   string `bson:"name" json:"name"`
	Status string `bson:"status" json:"status"`
	// IsDefault marks seeded system roles. System roles may only toggle
	// status; name and permissions are immutable.
	IsDefault bool `bson:"is_default" json:"is_default"`
	// Permissions maps module -> grant in any historical encoding.
	Permissions map[string]any `bson:"permissions" json:"permissions"`
	// Version arbitrates concurrent role edits (compare-and-swap).
	Version int64 `bson:"version" json:"version"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// Active reports whether the role currently contributes grants.
func (r *RoleDefinition) Active() bool {
	return r.Status == RoleStatusActive
}

// RoleFilter narrows role listings.
type RoleFilter struct {
	Status    string
	IsDefault *bool
	Slugs     []string
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Requirement names one module+verb pair to check.
type Requirement struct {
	Module string `json:"module" validate:"required"`
	Verb   string `json:"verb" validate:"required,oneof=view create update delete export"`
}

// ErrorResponse for consistent error handling
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

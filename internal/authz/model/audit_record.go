package model

import "time"

// AuditRecord is one immutable, hash-linked entry in the audit chain.
// Records are append-only: the repository rejects any update or delete.
type AuditRecord struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Sequence  int64     `bson:"sequence" json:"sequence"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`

	ActorID   string `bson:"actor_id" json:"actor_id"`
	ActorRole string `bson:"actor_role,omitempty" json:"actor_role,omitempty"`

	Action     string `bson:"action" json:"action"`
	EntityType string `bson:"entity_type" json:"entity_type"`
	EntityID   string `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	// TenantID is empty for platform-level actions.
	TenantID string `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`

	Outcome  string `bson:"outcome" json:"outcome"`
	Severity string `bson:"severity" json:"severity"`

	Details     map[string]any `bson:"details,omitempty" json:"details,omitempty"`
	BeforeState map[string]any `bson:"before_state,omitempty" json:"before_state,omitempty"`
	AfterState  map[string]any `bson:"after_state,omitempty" json:"after_state,omitempty"`

	// Hash is the sha256 digest of this record's immutable content.
	// PreviousHash links to the prior record; empty only for sequence 1.
	Hash         string `bson:"hash" json:"hash"`
	PreviousHash string `bson:"previous_hash,omitempty" json:"previous_hash,omitempty"`
}

// IntegrityReport is the result of a full chain verification scan.
type IntegrityReport struct {
	TotalRecords int64        `json:"total_records"`
	BrokenLinks  []BrokenLink `json:"broken_links"`
}

// Intact reports whether the scan found no broken links.
func (r *IntegrityReport) Intact() bool {
	return len(r.BrokenLinks) == 0
}

// BrokenLink describes one position whose previous-hash pointer does not
// match the prior record's stored hash.
type BrokenLink struct {
	Position             int64  `json:"position"`
	ExpectedPreviousHash string `json:"expected_previous_hash"`
	ActualPreviousHash   string `json:"actual_previous_hash"`
}

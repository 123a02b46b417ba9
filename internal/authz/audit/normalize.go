package audit

import (
	"strings"
	"time"

	"authcore/internal/authz/model"
)

// Entry is what callers hand to Append. Field names accept both the
// current vocabularies and the legacy ones (RiskLevel, free-form action
// names); normalization maps everything onto the closed vocabularies.
// Unmapped values fall back to generic catch-alls: an audit write must
// never be the reason a business operation fails.
type Entry struct {
	Action     string
	ActorID    string
	ActorRole  string
	EntityType string
	EntityID   string
	TenantID   string
	Outcome    string
	Severity   string
	// RiskLevel is the pre-rename severity vocabulary still used by some
	// callers.
	RiskLevel   string
	Details     map[string]any
	BeforeState map[string]any
	AfterState  map[string]any
	// Timestamp defaults to now when zero.
	Timestamp time.Time
}

var knownActions = map[string]bool{
	model.ActionCreateRole:          true,
	model.ActionUpdateRole:          true,
	model.ActionDeleteRole:          true,
	model.ActionActivateRole:        true,
	model.ActionDeactivateRole:      true,
	model.ActionAssignRole:          true,
	model.ActionRevokeRole:          true,
	model.ActionSetOverride:         true,
	model.ActionClearOverride:       true,
	model.ActionActivatePrincipal:   true,
	model.ActionDeactivatePrincipal: true,
	model.ActionPermissionGranted:   true,
	model.ActionPermissionDenied:    true,
	model.ActionLoginFailed:         true,
	model.ActionUnknown:             true,
}

// legacyActionAliases maps the old coarse action names onto the closed
// action-code vocabulary.
var legacyActionAliases = map[string]string{
	"role_created":   model.ActionCreateRole,
	"role_updated":   model.ActionUpdateRole,
	"role_deleted":   model.ActionDeleteRole,
	"role_assigned":  model.ActionAssignRole,
	"role_revoked":   model.ActionRevokeRole,
	"access_granted": model.ActionPermissionGranted,
	"access_denied":  model.ActionPermissionDenied,
	"login_fail":     model.ActionLoginFailed,
}

var knownSeverities = map[string]bool{
	model.SeverityLow:      true,
	model.SeverityMedium:   true,
	model.SeverityHigh:     true,
	model.SeverityCritical: true,
}

// legacyRiskLevels maps the old riskLevel vocabulary onto severities.
var legacyRiskLevels = map[string]string{
	"info":   model.SeverityLow,
	"notice": model.SeverityLow,
	"warn":   model.SeverityMedium,
	"danger": model.SeverityHigh,
	"severe": model.SeverityCritical,
}

var knownOutcomes = map[string]bool{
	model.OutcomeSuccess: true,
	model.OutcomeFailure: true,
	model.OutcomeWarning: true,
	model.OutcomePending: true,
}

var legacyOutcomes = map[string]string{
	"ok":    model.OutcomeSuccess,
	"error": model.OutcomeFailure,
	"warn":  model.OutcomeWarning,
}

func normalizeAction(raw string) string {
	if knownActions[raw] {
		return raw
	}
	if mapped, ok := legacyActionAliases[strings.ToLower(raw)]; ok {
		return mapped
	}
	return model.ActionUnknown
}

func normalizeSeverity(severity, riskLevel string) string {
	if knownSeverities[severity] {
		return severity
	}
	if mapped, ok := legacyRiskLevels[strings.ToLower(riskLevel)]; ok {
		return mapped
	}
	if mapped, ok := legacyRiskLevels[strings.ToLower(severity)]; ok {
		return mapped
	}
	return model.SeverityMedium
}

func normalizeOutcome(raw string) string {
	if knownOutcomes[raw] {
		return raw
	}
	if mapped, ok := legacyOutcomes[strings.ToLower(raw)]; ok {
		return mapped
	}
	return model.OutcomeWarning
}

// normalize builds the canonical record shape from an entry. Sequence,
// hashes, and ID are assigned by the chain during append.
func normalize(e Entry) *model.AuditRecord {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &model.AuditRecord{
		Timestamp:   ts,
		ActorID:     e.ActorID,
		ActorRole:   e.ActorRole,
		Action:      normalizeAction(e.Action),
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		TenantID:    e.TenantID,
		Outcome:     normalizeOutcome(e.Outcome),
		Severity:    normalizeSeverity(e.Severity, e.RiskLevel),
		Details:     e.Details,
		BeforeState: e.BeforeState,
		AfterState:  e.AfterState,
	}
}

package audit

import (
	"testing"
	"time"

	"authcore/internal/authz/model"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAction(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"current code passes through", model.ActionCreateRole, model.ActionCreateRole},
		{"legacy role_created", "role_created", model.ActionCreateRole},
		{"legacy access_denied", "access_denied", model.ActionPermissionDenied},
		{"legacy login_fail", "login_fail", model.ActionLoginFailed},
		{"legacy alias case-insensitive", "Role_Assigned", model.ActionAssignRole},
		{"unmapped falls back", "did_something", model.ActionUnknown},
		{"empty falls back", "", model.ActionUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalizeAction(tc.raw))
		})
	}
}

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		name      string
		severity  string
		riskLevel string
		expected  string
	}{
		{"current value wins", model.SeverityHigh, "info", model.SeverityHigh},
		{"legacy riskLevel info", "", "info", model.SeverityLow},
		{"legacy riskLevel danger", "", "danger", model.SeverityHigh},
		{"legacy riskLevel severe", "", "severe", model.SeverityCritical},
		{"legacy vocabulary in severity field", "warn", "", model.SeverityMedium},
		{"unmapped falls back to medium", "apocalyptic", "", model.SeverityMedium},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalizeSeverity(tc.severity, tc.riskLevel))
		})
	}
}

func TestNormalizeOutcome(t *testing.T) {
	assert.Equal(t, model.OutcomeSuccess, normalizeOutcome("ok"))
	assert.Equal(t, model.OutcomeFailure, normalizeOutcome("error"))
	assert.Equal(t, model.OutcomeWarning, normalizeOutcome("warn"))
	assert.Equal(t, model.OutcomeSuccess, normalizeOutcome(model.OutcomeSuccess))
	assert.Equal(t, model.OutcomeWarning, normalizeOutcome("exploded"))
}

func TestNormalizeEntry(t *testing.T) {
	rec := normalize(Entry{
		Action:    "role_revoked",
		ActorID:   "admin-1",
		Outcome:   "ok",
		RiskLevel: "notice",
	})

	assert.Equal(t, model.ActionRevokeRole, rec.Action)
	assert.Equal(t, model.OutcomeSuccess, rec.Outcome)
	assert.Equal(t, model.SeverityLow, rec.Severity)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestComputeHashDeterministic(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := &model.AuditRecord{
		Timestamp:  ts,
		ActorID:    "admin-1",
		Action:     model.ActionCreateRole,
		EntityType: model.EntityTypeRole,
		EntityID:   "ops",
		Details:    map[string]any{"b": 2, "a": 1},
	}

	first := ComputeHash(rec)
	second := ComputeHash(rec)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	// Key insertion order in the details map must not change the digest.
	rec.Details = map[string]any{"a": 1, "b": 2}
	assert.Equal(t, first, ComputeHash(rec))

	// Any content change must.
	rec.EntityID = "sales"
	assert.NotEqual(t, first, ComputeHash(rec))
}

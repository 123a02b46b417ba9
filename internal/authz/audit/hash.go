package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"authcore/internal/authz/model"
)

// hashPayload is the canonical serialization a record's hash is computed
// over. Fixed struct field order plus json.Marshal's sorted map keys make
// the digest deterministic. The hash and previous-hash fields are excluded
// to avoid circularity; sequence and outcome are excluded so the digest
// covers only the immutable action content.
type hashPayload struct {
	Timestamp  string         `json:"timestamp"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Details    map[string]any `json:"details,omitempty"`
}

// ComputeHash returns the sha256 content digest of a record.
func ComputeHash(rec *model.AuditRecord) string {
	payload := hashPayload{
		Timestamp:  rec.Timestamp.UTC().Format(time.RFC3339Nano),
		ActorID:    rec.ActorID,
		Action:     rec.Action,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Details:    rec.Details,
	}
	// Marshal of this payload cannot fail: every field is a string or a
	// string-keyed map of JSON-encodable values.
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Wraps github.com/google/uuid for the identifiers that are UUIDs rather
// than ULIDs: credential IDs, user IDs, and the pipeline and filter/action
// binding IDs the control-plane facade assigns. Execution IDs and OAuth2
// state values use New()/MustNew() from id.go.
package util

import "github.com/google/uuid"

// NewUUID returns a random (v4) UUID.
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses s into a uuid.UUID, surfacing malformed input to the
// caller rather than silently zeroing it.
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Package id provides UUIDv7 identifiers for documents.
// UUIDv7 embeds a millisecond timestamp, so ids created later sort later.
package id

import (
	"github.com/google/uuid"

	"bizconsole/internal/core/apperror"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// Parse converts string to ID. Malformed input yields an INVALID_INPUT AppError.
func Parse(s string) (ID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperror.NewInvalidInput("invalid id format").
			WithDetail("id", s).
			WithCause(err)
	}
	return parsed, nil
}

// legacyNamespace scopes ids derived from identifiers minted before UUIDs.
var legacyNamespace = uuid.MustParse("6f1c2b9e-4d7a-5e38-9b0c-2a1f8e7d6c54")

// FromLegacy derives a stable UUIDv5 from a pre-UUID identifier, so the same
// legacy record maps to the same ID on every load.
func FromLegacy(key string) ID {
	return uuid.NewSHA1(legacyNamespace, []byte(key))
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// IsNil checks if ID is zero-value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}

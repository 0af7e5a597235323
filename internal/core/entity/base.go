// Package entity holds the fields shared by every stored business record.
package entity

import (
	"context"
	"time"

	"bizconsole/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without storage access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseDocument contains identity and audit fields for documents.
type BaseDocument struct {
	// ID is the primary key (UUIDv7), immutable once assigned
	ID id.ID `json:"id"`

	// Version is incremented on each mutation
	Version int `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBaseDocument creates a new BaseDocument with generated ID and timestamps.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsNew reports whether the document has not been assigned an identity yet.
func (b *BaseDocument) IsNew() bool {
	return id.IsNil(b.ID)
}

// Touch updates the UpdatedAt timestamp and increments version.
func (b *BaseDocument) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.Version++
}

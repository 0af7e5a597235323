package numerator

import (
	"context"
	"time"
)

// Generator generates sequential document numbers.
// Implementations live in infrastructure layer (in-memory, PostgreSQL).
type Generator interface {
	// GetNextNumber generates the next document number.
	// Pattern: PREFIX-YEAR-XXXXX (e.g., INV-2026-00001)
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber sets the current sequence value; the next number issued is value+1.
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}

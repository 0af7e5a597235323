package numerator

import (
	"context"
	"sync"
	"time"

	corenumerator "bizconsole/internal/core/numerator"
)

// MemoryGenerator keeps sequences in process memory. Used with the memory and
// file storage backends; the document store re-seeds it from loaded documents
// and the recorded sequence marks.
// Strategy is irrelevant here: every number is already served from memory.
type MemoryGenerator struct {
	mu        sync.Mutex
	sequences map[string]int64
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*MemoryGenerator)(nil)

// NewMemory creates an empty in-memory generator.
func NewMemory() *MemoryGenerator {
	return &MemoryGenerator{sequences: make(map[string]int64)}
}

// GetNextNumber implements Generator.
func (g *MemoryGenerator) GetNextNumber(_ context.Context, cfg corenumerator.Config, _ *corenumerator.Options, period time.Time) (string, error) {
	key := cfg.Key(period)

	g.mu.Lock()
	g.sequences[key]++
	num := g.sequences[key]
	g.mu.Unlock()

	return cfg.Format(period, num), nil
}

// SetNextNumber implements Generator. Values lower than the current one are ignored
// so that seeding never reissues a number.
func (g *MemoryGenerator) SetNextNumber(_ context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	key := cfg.Key(period)

	g.mu.Lock()
	defer g.mu.Unlock()
	if value > g.sequences[key] {
		g.sequences[key] = value
	}
	return nil
}

package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "bizconsole/internal/core/numerator"
)

func TestMemoryGenerator_SequencePerKey(t *testing.T) {
	gen := NewMemory()
	ctx := context.Background()
	quo := corenumerator.DefaultConfig("QUO")
	inv := corenumerator.DefaultConfig("INV")

	n, err := gen.GetNextNumber(ctx, quo, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "QUO-2026-00001", n)

	n, _ = gen.GetNextNumber(ctx, inv, nil, period)
	assert.Equal(t, "INV-2026-00001", n)

	n, _ = gen.GetNextNumber(ctx, quo, nil, period.AddDate(1, 0, 0))
	assert.Equal(t, "QUO-2027-00001", n, "yearly reset")
}

func TestMemoryGenerator_SeedNeverGoesBackwards(t *testing.T) {
	gen := NewMemory()
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("INV")

	require.NoError(t, gen.SetNextNumber(ctx, cfg, period, 41))
	require.NoError(t, gen.SetNextNumber(ctx, cfg, period, 3))

	n, _ := gen.GetNextNumber(ctx, cfg, nil, time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "INV-2026-00042", n)
}

package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "bizconsole/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates one sys_sequences row: strict calls pass only the key,
// range reservations and SetNextNumber pass (key, value).
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	calls        int
	setMode      bool
	err          error
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.err != nil {
		return &mockRow{err: m.err}
	}

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	if m.setMode {
		m.currentValue = increment
	} else {
		m.currentValue += increment
	}
	return &mockRow{val: m.currentValue}
}

var period = time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)

func TestPostgresGenerator_Strict(t *testing.T) {
	q := &mockQuerier{}
	gen := NewPostgres(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("INV")

	num, err := gen.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", num)

	num, err = gen.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00002", num)
	assert.Equal(t, 2, q.calls)
}

func TestPostgresGenerator_Cached(t *testing.T) {
	q := &mockQuerier{}
	gen := NewPostgres(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("QUO")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 10}

	num, err := gen.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "QUO-2026-00001", num)
	assert.Equal(t, int64(10), q.currentValue)

	num, err = gen.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "QUO-2026-00002", num)
	assert.Equal(t, 1, q.calls, "second number must come from the reserved range")

	for i := 0; i < 8; i++ {
		_, err = gen.GetNextNumber(ctx, cfg, opts, period)
		require.NoError(t, err)
	}

	num, err = gen.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "QUO-2026-00011", num)
	assert.Equal(t, int64(20), q.currentValue)
	assert.Equal(t, 2, q.calls)
}

func TestPostgresGenerator_SetNextNumberDropsRange(t *testing.T) {
	q := &mockQuerier{}
	gen := NewPostgres(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("INV")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 10}

	_, err := gen.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)

	q.setMode = true
	require.NoError(t, gen.SetNextNumber(ctx, cfg, period, 100))
	q.setMode = false

	num, err := gen.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00101", num)
}

func TestPostgresGenerator_Error(t *testing.T) {
	q := &mockQuerier{err: errors.New("connection refused")}
	gen := NewPostgres(q)

	_, err := gen.GetNextNumber(context.Background(), corenumerator.DefaultConfig("INV"), nil, period)
	assert.ErrorContains(t, err, "connection refused")
}

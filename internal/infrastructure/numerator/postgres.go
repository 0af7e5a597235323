// Package numerator provides implementations of document auto-numbering.
// It implements the core/numerator.Generator interface.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	corenumerator "bizconsole/internal/core/numerator"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Execer runs DDL statements.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const sequenceTableDDL = `
CREATE TABLE IF NOT EXISTS sys_sequences (
    key         TEXT PRIMARY KEY,
    current_val BIGINT NOT NULL
)`

// EnsureSchema creates the sequence table if it does not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, sequenceTableDDL); err != nil {
		return fmt.Errorf("create sys_sequences: %w", err)
	}
	return nil
}

type cachedRange struct {
	current int64
	max     int64
}

// PostgresGenerator issues document numbers from the sys_sequences table.
type PostgresGenerator struct {
	querier Querier

	// cacheMu protects ranges map
	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*PostgresGenerator)(nil)

// NewPostgres creates a generator backed by the given querier (usually a pgxpool.Pool).
func NewPostgres(querier Querier) *PostgresGenerator {
	return &PostgresGenerator{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// GetNextNumber generates the next document number.
func (g *PostgresGenerator) GetNextNumber(ctx context.Context, cfg corenumerator.Config, opts *corenumerator.Options, period time.Time) (string, error) {
	if opts == nil {
		opts = corenumerator.DefaultOptions()
	}

	key := cfg.Key(period)
	var (
		num int64
		err error
	)

	switch opts.Strategy {
	case corenumerator.StrategyCached:
		num, err = g.getNextCached(ctx, key, opts)
	default:
		num, err = g.getNextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return cfg.Format(period, num), nil
}

// getNextStrict fetches the next number directly from DB using UPSERT + RETURNING.
func (g *PostgresGenerator) getNextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := g.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// getNextCached hands out numbers from a reserved range, reserving a new one when exhausted.
// current_val always holds the last reserved value, so a reservation of N returns
// the range (current_val-N, current_val].
func (g *PostgresGenerator) getNextCached(ctx context.Context, key string, opts *corenumerator.Options) (int64, error) {
	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()

	rng, exists := g.ranges[key]
	if !exists {
		rng = &cachedRange{}
		g.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := g.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (key, current_val)
            VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
            RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber sets the sequence value (for migration purposes) and drops any cached range.
func (g *PostgresGenerator) SetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	key := cfg.Key(period)

	var result int64
	err := g.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)

	g.cacheMu.Lock()
	delete(g.ranges, key)
	g.cacheMu.Unlock()

	if err != nil {
		return fmt.Errorf("set next number: %w", err)
	}
	return nil
}

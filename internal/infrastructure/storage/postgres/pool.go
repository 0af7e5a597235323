// Package postgres provides PostgreSQL infrastructure components.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizconsole/pkg/logger"
)

// applicationName tags every connection in pg_stat_activity.
const applicationName = "bizconsole"

// PoolConfig sizes the connection pool behind the collections table.
type PoolConfig struct {
	DSN               string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// DefaultPoolConfig returns defaults sized for a single console instance.
// Every document mutation is one upsert, so a small pool is plenty.
func DefaultPoolConfig(dsn string) PoolConfig {
	return PoolConfig{
		DSN:               dsn,
		MaxConns:          10,
		MinConns:          1,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
	}
}

// Pool is the shared connection pool of the postgres backend.
type Pool struct {
	*pgxpool.Pool
}

// NewPool connects, tags the session and pings before returning.
func NewPool(ctx context.Context, cfg PoolConfig) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET application_name = '"+applicationName+"'")
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes all connections in the pool.
func (p *Pool) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

// PoolStats is a usage snapshot shown on the readiness endpoint.
type PoolStats struct {
	Total       int32  `json:"total"`
	Acquired    int32  `json:"acquired"`
	Idle        int32  `json:"idle"`
	Max         int32  `json:"max"`
	Acquires    int64  `json:"acquires"`
	AcquireWait string `json:"acquireWait"`
	Saturated   bool   `json:"saturated"`
}

// newPoolStats derives the snapshot; the pool is saturated when every
// connection it may open is checked out.
func newPoolStats(total, acquired, idle, maxConns int32, acquires int64, wait time.Duration) PoolStats {
	return PoolStats{
		Total:       total,
		Acquired:    acquired,
		Idle:        idle,
		Max:         maxConns,
		Acquires:    acquires,
		AcquireWait: wait.Round(time.Millisecond).String(),
		Saturated:   maxConns > 0 && acquired >= maxConns,
	}
}

// Stats reads the current pool usage.
func (p *Pool) Stats() PoolStats {
	stat := p.Stat()
	return newPoolStats(
		stat.TotalConns(),
		stat.AcquiredConns(),
		stat.IdleConns(),
		stat.MaxConns(),
		stat.AcquireCount(),
		stat.AcquireDuration(),
	)
}

// LogStats writes the current pool usage to the log, warning when saturated.
func (p *Pool) LogStats(ctx context.Context) {
	stats := p.Stats()
	fields := []any{
		"total", stats.Total,
		"acquired", stats.Acquired,
		"idle", stats.Idle,
		"max", stats.Max,
		"acquire_wait", stats.AcquireWait,
	}
	if stats.Saturated {
		logger.Warn(ctx, "database pool saturated", fields...)
		return
	}
	logger.Info(ctx, "database pool stats", fields...)
}

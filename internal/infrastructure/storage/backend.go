// Package storage selects and opens the configured persistence backend and
// builds the document stores on top of it.
package storage

import (
	"context"
	"fmt"

	"bizconsole/internal/config"
	corenumerator "bizconsole/internal/core/numerator"
	"bizconsole/internal/domain/documents"
	"bizconsole/internal/infrastructure/numerator"
	"bizconsole/internal/infrastructure/storage/file"
	"bizconsole/internal/infrastructure/storage/memory"
	"bizconsole/internal/infrastructure/storage/postgres"
	"bizconsole/pkg/logger"
)

// Backend bundles everything a document store needs from infrastructure.
type Backend struct {
	Name        string
	Persistence documents.Persistence
	Numerator   corenumerator.Generator
	Numbering   *corenumerator.Options

	// SeedNumbering is set for backends whose sequences live in process memory.
	SeedNumbering bool

	// Ready probes the backend; nil when there is nothing to probe.
	Ready func(ctx context.Context) error

	// Stats reports backend usage for the readiness output; nil when the
	// backend has none.
	Stats func() any

	// Pool is set for the postgres backend only.
	Pool *postgres.Pool
}

// Open builds the backend described by cfg.
func Open(ctx context.Context, cfg *config.Configuration) (*Backend, error) {
	strategy, err := corenumerator.ParseStrategy(cfg.Numbering.Strategy)
	if err != nil {
		return nil, err
	}
	numbering := &corenumerator.Options{Strategy: strategy, RangeSize: cfg.Numbering.RangeSize}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return &Backend{
			Name:          config.BackendMemory,
			Persistence:   memory.New(),
			Numerator:     numerator.NewMemory(),
			Numbering:     numbering,
			SeedNumbering: true,
		}, nil

	case config.BackendFile:
		store, err := file.New(cfg.Storage.File.Dir)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "file storage ready", "dir", cfg.Storage.File.Dir)
		return &Backend{
			Name:          config.BackendFile,
			Persistence:   store,
			Numerator:     numerator.NewMemory(),
			Numbering:     numbering,
			SeedNumbering: true,
		}, nil

	case config.BackendPostgres:
		return openPostgres(ctx, cfg, numbering)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func openPostgres(ctx context.Context, cfg *config.Configuration, numbering *corenumerator.Options) (*Backend, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.Storage.Postgres.DSN)
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Storage.Postgres.MaxConns
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	if err := numerator.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	collections, err := postgres.NewCollectionStore(postgres.NewTxManager(pool), cfg.Storage.Postgres.CompressThreshold)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info(ctx, "postgres storage ready",
		"max_conns", poolCfg.MaxConns,
		"compress_threshold", cfg.Storage.Postgres.CompressThreshold)

	return &Backend{
		Name:        config.BackendPostgres,
		Persistence: collections,
		Numerator:   numerator.NewPostgres(pool),
		Numbering:   numbering,
		Ready: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
		Stats: func() any {
			return pool.Stats()
		},
		Pool: pool,
	}, nil
}

// Close releases backend resources.
func (b *Backend) Close(ctx context.Context) {
	if b.Pool != nil {
		b.Pool.LogStats(ctx)
		b.Pool.Close()
	}
}

// OpenStores loads the quotation and invoice collections.
func (b *Backend) OpenStores(ctx context.Context) (quotations, invoices *documents.Store, err error) {
	open := func(kind documents.Kind) (*documents.Store, error) {
		store, err := documents.NewStore(ctx, documents.StoreConfig{
			Kind:          kind,
			Persistence:   b.Persistence,
			Numerator:     b.Numerator,
			Numbering:     b.Numbering,
			SeedNumbering: b.SeedNumbering,
		})
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", kind.CollectionKey(), err)
		}
		return store, nil
	}

	if quotations, err = open(documents.KindQuotation); err != nil {
		return nil, nil, err
	}
	if invoices, err = open(documents.KindInvoice); err != nil {
		return nil, nil, err
	}
	return quotations, invoices, nil
}

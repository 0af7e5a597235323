package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bizconsole/internal/core/tx"
	"bizconsole/internal/domain/documents"
	"bizconsole/internal/infrastructure/storage/codec"
	"bizconsole/pkg/logger"
)

// CollectionsTable stores one row per document collection.
const CollectionsTable = "doc_collections"

const collectionsSchema = `
CREATE TABLE IF NOT EXISTS doc_collections (
	key         TEXT PRIMARY KEY,
	payload     BYTEA NOT NULL,
	compression TEXT NOT NULL DEFAULT 'none',
	item_count  INTEGER NOT NULL DEFAULT 0,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the collections table if it does not exist.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, collectionsSchema); err != nil {
		return fmt.Errorf("create %s: %w", CollectionsTable, err)
	}
	return nil
}

type collectionRow struct {
	Payload     []byte          `db:"payload"`
	Compression CompressionAlgo `db:"compression"`
}

// Transactor runs statements inside transactions and hands out the querier
// bound to the current one. TxManager is the production implementation.
type Transactor interface {
	tx.ReadOnlyManager
	GetQuerier(ctx context.Context) Querier
}

var _ Transactor = (*TxManager)(nil)

// CollectionStore implements documents.Persistence as a key-value table.
// Loads run in a read-only transaction; each save replaces the whole encoded
// collection in a single upsert.
type CollectionStore struct {
	txm        Transactor
	builder    squirrel.StatementBuilderType
	compressor *payloadCompressor
}

var _ documents.Persistence = (*CollectionStore)(nil)

// NewCollectionStore creates a store. Payloads larger than compressThreshold
// bytes are stored zstd-compressed; zero selects the default threshold.
func NewCollectionStore(txm Transactor, compressThreshold int) (*CollectionStore, error) {
	compressor, err := newPayloadCompressor(compressThreshold)
	if err != nil {
		return nil, err
	}
	return &CollectionStore{
		txm:        txm,
		builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		compressor: compressor,
	}, nil
}

// Load implements documents.Persistence.
func (s *CollectionStore) Load(ctx context.Context, key string) ([]documents.Document, error) {
	ctx, span := tracer.Start(ctx, "collections.load",
		trace.WithAttributes(attribute.String("collection.key", key)))
	defer span.End()

	query, args, err := s.loadQuery(key)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var (
		row   collectionRow
		found = true
	)
	err = s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		err := pgxscan.Get(ctx, s.txm.GetQuerier(ctx), &row, query, args...)
		if pgxscan.NotFound(err) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load collection %s: %w", key, err)
	}
	if !found {
		return nil, nil
	}
	span.SetAttributes(
		attribute.String("collection.compression", string(row.Compression)),
		attribute.Int("collection.bytes", len(row.Payload)),
	)

	payload, err := s.compressor.decompress(row.Payload, row.Compression)
	if err == nil {
		var docs []documents.Document
		if docs, err = codec.Decode(payload); err == nil {
			return docs, nil
		}
	}

	logger.Warn(ctx, "stored collection is unreadable, starting empty",
		"collection", key,
		"error", err)
	return nil, nil
}

// Save implements documents.Persistence.
func (s *CollectionStore) Save(ctx context.Context, key string, docs []documents.Document) error {
	ctx, span := tracer.Start(ctx, "collections.save",
		trace.WithAttributes(
			attribute.String("collection.key", key),
			attribute.Int("collection.count", len(docs)),
		))
	defer span.End()

	raw, err := codec.Encode(docs)
	if err != nil {
		return err
	}

	payload, algo := s.compressor.compress(raw)
	span.SetAttributes(
		attribute.String("collection.compression", string(algo)),
		attribute.Int("collection.bytes", len(payload)),
	)

	query, args, err := s.saveQuery(key, payload, algo, len(docs))
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := s.txm.GetQuerier(ctx).Exec(ctx, query, args...)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("save collection %s: %w", key, err)
	}
	return nil
}

func (s *CollectionStore) loadQuery(key string) (string, []any, error) {
	return s.builder.
		Select("payload", "compression").
		From(CollectionsTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
}

func (s *CollectionStore) saveQuery(key string, payload []byte, algo CompressionAlgo, count int) (string, []any, error) {
	return s.builder.
		Insert(CollectionsTable).
		Columns("key", "payload", "compression", "item_count", "updated_at").
		Values(key, payload, string(algo), count, squirrel.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET " +
			"payload = EXCLUDED.payload, " +
			"compression = EXCLUDED.compression, " +
			"item_count = EXCLUDED.item_count, " +
			"updated_at = EXCLUDED.updated_at").
		ToSql()
}

// Package documents implements the quotation and invoice engine: line and
// totals calculation, the status vocabulary and the persisted document store.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"bizconsole/internal/core/apperror"
	"bizconsole/internal/core/entity"
	"bizconsole/internal/core/id"
	"bizconsole/internal/core/numerator"
	"bizconsole/internal/core/types"
	"bizconsole/internal/domain"
	"bizconsole/pkg/logger"
)

// StoreConfig wires a Store.
type StoreConfig struct {
	Kind        Kind
	Persistence Persistence
	Numerator   numerator.Generator

	// Numbering options passed to the generator; nil means strict.
	Numbering *numerator.Options

	// SeedNumbering raises the generator's sequences past the numbers found in
	// the loaded collection. Use it with generators that do not keep their own
	// durable counters.
	SeedNumbering bool
}

// Store owns the authoritative, insertion-ordered collection of one document
// kind. Every mutation rewrites the whole persisted collection.
type Store struct {
	kind        Kind
	persistence Persistence
	numerator   numerator.Generator
	numbering   *numerator.Options
	numberCfg   numerator.Config
	hooks       *domain.HookRegistry[*Document]
	markStore   SequenceMarks

	mu    sync.Mutex
	docs  []Document
	marks map[string]SequenceMark
}

// NewStore loads the persisted collection of cfg.Kind and returns a ready store.
func NewStore(ctx context.Context, cfg StoreConfig) (*Store, error) {
	if !cfg.Kind.Valid() {
		return nil, fmt.Errorf("unknown document kind %q", cfg.Kind)
	}
	if cfg.Persistence == nil {
		return nil, errors.New("persistence is required")
	}
	if cfg.Numerator == nil {
		return nil, errors.New("numerator is required")
	}

	s := &Store{
		kind:        cfg.Kind,
		persistence: cfg.Persistence,
		numerator:   cfg.Numerator,
		numbering:   cfg.Numbering,
		numberCfg:   numerator.DefaultConfig(cfg.Kind.NumberPrefix()),
		hooks:       domain.NewHookRegistry[*Document](),
	}
	if s.numbering == nil {
		s.numbering = numerator.DefaultOptions()
	}

	loaded, err := cfg.Persistence.Load(ctx, s.key())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key(), err)
	}
	for i := range loaded {
		doc := loaded[i]
		doc.Kind = s.kind
		if doc.Status == "" {
			doc.Status = StatusDraft
		}
		doc.Recalculate()
		s.docs = append(s.docs, doc.Clone())
	}

	if cfg.SeedNumbering {
		if ms, ok := cfg.Persistence.(SequenceMarks); ok {
			marks, err := ms.LoadMarks(ctx, s.key())
			if err != nil {
				return nil, fmt.Errorf("load sequence marks: %w", err)
			}
			s.markStore = ms
			s.marks = marks
		}
		if s.marks == nil {
			s.marks = make(map[string]SequenceMark)
		}
		if err := s.seedNumbering(ctx); err != nil {
			return nil, fmt.Errorf("seed numbering: %w", err)
		}
	}

	logger.Info(ctx, "document store loaded",
		"collection", s.key(),
		"count", len(s.docs))

	return s, nil
}

// Kind returns the document kind held by the store.
func (s *Store) Kind() Kind {
	return s.kind
}

// Hooks returns the hook registry for registering callbacks.
// Before-update hooks also run for status changes.
func (s *Store) Hooks() *domain.HookRegistry[*Document] {
	return s.hooks
}

// Create validates draft, assigns identity and number, appends it and
// persists the collection. On a persistence failure the document is kept and
// returned together with the error.
func (s *Store) Create(ctx context.Context, draft *Document) (*Document, error) {
	if draft == nil {
		return nil, apperror.NewValidation("document is required")
	}

	doc := draft.Clone()
	doc.Kind = s.kind
	doc.Status = NormalizeStatus(doc.Status)
	if doc.Status == "" {
		doc.Status = StatusDraft
	}
	if doc.IssueDate.IsZero() {
		doc.IssueDate = types.Today()
	}
	doc.Recalculate()

	// Run before-create hooks (normalization, extra checks)
	if err := s.hooks.RunBeforeCreate(ctx, &doc); err != nil {
		return nil, err
	}
	doc.Recalculate()

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc.BaseDocument = entity.NewBaseDocument()
	number, err := s.numerator.GetNextNumber(ctx, s.numberCfg, s.numbering, doc.CreatedAt)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generate number: %w", err))
	}
	doc.Number = number

	s.docs = append(s.docs, doc)
	persistErr := s.persistLocked(ctx)
	if err := s.recordMarkLocked(ctx, doc); err != nil && persistErr == nil {
		persistErr = err
	}

	if err := s.hooks.RunAfterCreate(ctx, &doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "document created",
		"kind", s.kind,
		"id", doc.ID,
		"number", doc.Number,
		"total", doc.Total.String())

	result := doc.Clone()
	return &result, persistErr
}

// Update merges patch into the document with the given id. An unknown id is a
// silent no-op: it returns (nil, nil) and nothing is written. An empty patch
// returns the stored document without touching or writing it.
func (s *Store) Update(ctx context.Context, docID id.ID, patch Patch) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(docID)
	if idx < 0 {
		logger.Debug(ctx, "update skipped, document not found", "kind", s.kind, "id", docID)
		return nil, nil
	}
	if patch.IsEmpty() {
		result := s.docs[idx].Clone()
		return &result, nil
	}

	if patch.Status != nil {
		normalized := NormalizeStatus(*patch.Status)
		patch.Status = &normalized
	}

	doc := s.docs[idx].Clone()
	patch.applyTo(&doc)

	if err := s.hooks.RunBeforeUpdate(ctx, &doc); err != nil {
		return nil, err
	}
	doc.Recalculate()

	if err := doc.validateShape(ctx); err != nil {
		return nil, err
	}

	doc.Touch()
	s.docs[idx] = doc
	persistErr := s.persistLocked(ctx)

	if err := s.hooks.RunAfterUpdate(ctx, &doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	logger.Info(ctx, "document updated",
		"kind", s.kind,
		"id", doc.ID,
		"number", doc.Number,
		"version", doc.Version)

	result := doc.Clone()
	return &result, persistErr
}

// SetStatus assigns status to the document with the given id regardless of its
// current status. An unknown id is a silent no-op returning (nil, nil).
func (s *Store) SetStatus(ctx context.Context, docID id.ID, status Status) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(docID)
	if idx < 0 {
		logger.Debug(ctx, "status change skipped, document not found", "kind", s.kind, "id", docID)
		return nil, nil
	}

	doc := s.docs[idx].Clone()
	tr, err := ApplyStatus(ctx, &doc, status)
	if err != nil {
		return nil, err
	}

	if err := s.hooks.RunBeforeUpdate(ctx, &doc); err != nil {
		return nil, err
	}

	doc.Touch()
	s.docs[idx] = doc
	persistErr := s.persistLocked(ctx)

	if err := s.hooks.RunAfterUpdate(ctx, &doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	logger.Info(ctx, "document status changed",
		"kind", s.kind,
		"id", doc.ID,
		"number", doc.Number,
		"from", tr.From,
		"to", tr.To)

	result := doc.Clone()
	return &result, persistErr
}

// Remove deletes the document with the given id. It performs no confirmation
// and no reference checks. An unknown id returns false and writes nothing.
func (s *Store) Remove(ctx context.Context, docID id.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(docID)
	if idx < 0 {
		return false, nil
	}

	removed := s.docs[idx]
	s.docs = append(s.docs[:idx], s.docs[idx+1:]...)
	persistErr := s.persistLocked(ctx)

	if err := s.hooks.RunAfterDelete(ctx, &removed); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}

	logger.Info(ctx, "document removed",
		"kind", s.kind,
		"id", removed.ID,
		"number", removed.Number)

	return true, persistErr
}

// List returns copies of all documents in insertion order.
func (s *Store) List(_ context.Context) []Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneAll(s.docs)
}

// Get returns a copy of the document with the given id.
func (s *Store) Get(_ context.Context, docID id.ID) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(docID)
	if idx < 0 {
		return nil, apperror.NewNotFound(s.kind.Label(), docID)
	}
	doc := s.docs[idx].Clone()
	return &doc, nil
}

// Search filters the collection by a case-insensitive substring of number,
// customer or project, and by status when one is given. Insertion order is kept.
func (s *Store) Search(ctx context.Context, query string, status Status) []Document {
	query = strings.ToLower(strings.TrimSpace(query))
	status = NormalizeStatus(status)

	return lo.Filter(s.List(ctx), func(doc Document, _ int) bool {
		if status != "" && doc.Status != status {
			return false
		}
		if query == "" {
			return true
		}
		return lo.SomeBy([]string{doc.Number, doc.Customer, doc.Project}, func(field string) bool {
			return strings.Contains(strings.ToLower(field), query)
		})
	})
}

func (s *Store) key() string {
	return s.kind.CollectionKey()
}

func (s *Store) indexLocked(docID id.ID) int {
	_, idx, ok := lo.FindIndexOf(s.docs, func(doc Document) bool {
		return doc.ID == docID
	})
	if !ok {
		return -1
	}
	return idx
}

// persistLocked writes the whole collection. The in-memory state is never
// rolled back; a failed write is reported as a PersistenceFailure.
func (s *Store) persistLocked(ctx context.Context) error {
	if err := s.persistence.Save(ctx, s.key(), cloneAll(s.docs)); err != nil {
		logger.Error(ctx, "failed to persist collection",
			"collection", s.key(),
			"count", len(s.docs),
			"error", err)
		return apperror.NewPersistenceFailure(s.key(), err)
	}
	return nil
}

// recordMarkLocked stores the number of a newly created document as the
// sequence high-water mark. It is a no-op for backends without marks.
func (s *Store) recordMarkLocked(ctx context.Context, doc Document) error {
	if s.markStore == nil {
		return nil
	}
	num := numerator.ParseNumber(doc.Number)
	if num < 0 {
		return nil
	}
	key := s.numberCfg.Key(doc.CreatedAt)
	if num <= s.marks[key].Last {
		return nil
	}
	s.marks[key] = SequenceMark{Period: doc.CreatedAt, Last: num}

	if err := s.markStore.SaveMarks(ctx, s.key(), s.marks); err != nil {
		logger.Error(ctx, "failed to persist sequence marks",
			"collection", s.key(),
			"sequence", key,
			"error", err)
		return apperror.NewPersistenceFailure(s.key(), err)
	}
	return nil
}

// seedNumbering moves each yearly sequence past the highest number already in
// the collection or recorded in the sequence marks.
func (s *Store) seedNumbering(ctx context.Context) error {
	highest := make(map[string]int64)
	periods := make(map[string]time.Time)

	for key, mark := range s.marks {
		if mark.Last > 0 && !mark.Period.IsZero() {
			highest[key] = mark.Last
			periods[key] = mark.Period
		}
	}

	for _, doc := range s.docs {
		period := doc.CreatedAt
		if period.IsZero() {
			period = doc.IssueDate.Time
		}
		if period.IsZero() {
			continue
		}
		num := numerator.ParseNumber(doc.Number)
		if num < 0 {
			continue
		}
		key := s.numberCfg.Key(period)
		if num > highest[key] {
			highest[key] = num
			periods[key] = period
		}
	}

	for key, num := range highest {
		if err := s.numerator.SetNextNumber(ctx, s.numberCfg, periods[key], num); err != nil {
			return fmt.Errorf("sequence %s: %w", key, err)
		}
	}
	return nil
}

func cloneAll(docs []Document) []Document {
	return lo.Map(docs, func(doc Document, _ int) Document {
		return doc.Clone()
	})
}

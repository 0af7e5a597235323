// Package memory is an in-process persistence backend. It keeps the encoded
// payload of each collection, so it exercises the same serialization path as
// the durable backends.
package memory

import (
	"context"
	"sync"

	"bizconsole/internal/domain/documents"
	"bizconsole/internal/infrastructure/storage/codec"
	"bizconsole/pkg/logger"
)

// Store implements documents.Persistence in memory.
type Store struct {
	mu       sync.Mutex
	payloads map[string][]byte
	marks    map[string][]byte
	saves    map[string]int
	failWith error
}

var (
	_ documents.Persistence   = (*Store)(nil)
	_ documents.SequenceMarks = (*Store)(nil)
)

// New creates an empty store.
func New() *Store {
	return &Store{
		payloads: make(map[string][]byte),
		marks:    make(map[string][]byte),
		saves:    make(map[string]int),
	}
}

// Load implements documents.Persistence.
func (s *Store) Load(ctx context.Context, key string) ([]documents.Document, error) {
	s.mu.Lock()
	raw, ok := s.payloads[key]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	docs, err := codec.Decode(raw)
	if err != nil {
		logger.Warn(ctx, "stored collection is unreadable, starting empty",
			"collection", key,
			"error", err)
		return nil, nil
	}
	return docs, nil
}

// Save implements documents.Persistence.
func (s *Store) Save(_ context.Context, key string, docs []documents.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves[key]++
	if s.failWith != nil {
		return s.failWith
	}

	raw, err := codec.Encode(docs)
	if err != nil {
		return err
	}
	s.payloads[key] = raw
	return nil
}

// LoadMarks implements documents.SequenceMarks.
func (s *Store) LoadMarks(ctx context.Context, key string) (map[string]documents.SequenceMark, error) {
	s.mu.Lock()
	raw, ok := s.marks[key]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	marks, err := codec.DecodeMarks(raw)
	if err != nil {
		logger.Warn(ctx, "stored sequence marks are unreadable, ignoring them",
			"collection", key,
			"error", err)
		return nil, nil
	}
	return marks, nil
}

// SaveMarks implements documents.SequenceMarks. It fails like Save while a
// failure is injected, but is not counted by Saves.
func (s *Store) SaveMarks(_ context.Context, key string, marks map[string]documents.SequenceMark) error {
	raw, err := codec.EncodeMarks(marks)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.marks[key] = raw
	return nil
}

// FailWith makes every following Save return err. Pass nil to recover.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	s.failWith = err
	s.mu.Unlock()
}

// Raw returns the stored payload of key.
func (s *Store) Raw(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.payloads[key]
	return append([]byte(nil), raw...), ok
}

// Put replaces the stored payload of key.
func (s *Store) Put(key string, raw []byte) {
	s.mu.Lock()
	s.payloads[key] = append([]byte(nil), raw...)
	s.mu.Unlock()
}

// Saves reports how many times key was written, failed writes included.
func (s *Store) Saves(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[key]
}

// Package file persists each collection as a JSON file in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"bizconsole/internal/domain/documents"
	"bizconsole/internal/infrastructure/storage/codec"
	"bizconsole/pkg/logger"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store implements documents.Persistence on the local filesystem.
// Writes go to a temporary file that is renamed over the target, so a crash
// never leaves a half-written collection behind.
type Store struct {
	dir string
	mu  sync.Mutex
}

var (
	_ documents.Persistence   = (*Store)(nil)
	_ documents.SequenceMarks = (*Store)(nil)
)

// New creates the directory if needed and returns a store rooted at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the file that holds key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// MarksPath returns the file that holds the sequence marks of key.
func (s *Store) MarksPath(key string) string {
	return filepath.Join(s.dir, key+".marks.json")
}

// Load implements documents.Persistence.
func (s *Store) Load(ctx context.Context, key string) ([]documents.Document, error) {
	if !validKey.MatchString(key) {
		return nil, fmt.Errorf("invalid collection key %q", key)
	}

	s.mu.Lock()
	raw, err := os.ReadFile(s.Path(key))
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	docs, err := codec.Decode(raw)
	if err != nil {
		logger.Warn(ctx, "stored collection is unreadable, starting empty",
			"collection", key,
			"path", s.Path(key),
			"error", err)
		return nil, nil
	}
	return docs, nil
}

// Save implements documents.Persistence.
func (s *Store) Save(_ context.Context, key string, docs []documents.Document) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid collection key %q", key)
	}

	raw, err := codec.Encode(docs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceFile(key, s.Path(key), raw)
}

// LoadMarks implements documents.SequenceMarks.
func (s *Store) LoadMarks(ctx context.Context, key string) (map[string]documents.SequenceMark, error) {
	if !validKey.MatchString(key) {
		return nil, fmt.Errorf("invalid collection key %q", key)
	}

	s.mu.Lock()
	raw, err := os.ReadFile(s.MarksPath(key))
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s marks: %w", key, err)
	}

	marks, err := codec.DecodeMarks(raw)
	if err != nil {
		logger.Warn(ctx, "stored sequence marks are unreadable, ignoring them",
			"collection", key,
			"path", s.MarksPath(key),
			"error", err)
		return nil, nil
	}
	return marks, nil
}

// SaveMarks implements documents.SequenceMarks.
func (s *Store) SaveMarks(_ context.Context, key string, marks map[string]documents.SequenceMark) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid collection key %q", key)
	}

	raw, err := codec.EncodeMarks(marks)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceFile(key, s.MarksPath(key), raw)
}

// replaceFile writes raw to a temporary file and renames it over path.
// Callers hold s.mu.
func (s *Store) replaceFile(key, path string, raw []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

package documents

import (
	"context"
	"time"
)

// Persistence mirrors a whole collection to durable storage.
//
// Load returns the stored collection in its stored order; an absent or
// unreadable payload yields an empty collection and no error. Save replaces the
// whole collection.
type Persistence interface {
	Load(ctx context.Context, key string) ([]Document, error)
	Save(ctx context.Context, key string, docs []Document) error
}

// SequenceMark is the highest number issued in one numbering sequence.
type SequenceMark struct {
	Period time.Time `json:"period"`
	Last   int64     `json:"last"`
}

// SequenceMarks is implemented by persistence backends that keep issued
// numbers next to a collection, so numbers of removed documents are not
// handed out again after a restart. Marks are keyed by sequence key.
type SequenceMarks interface {
	LoadMarks(ctx context.Context, key string) (map[string]SequenceMark, error)
	SaveMarks(ctx context.Context, key string, marks map[string]SequenceMark) error
}

// Renderer turns a finished document into a printable artifact.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	ContentType() string
}

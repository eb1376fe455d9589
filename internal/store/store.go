package store

import (
	"context"
	"time"

	"git.home.luguber.info/inful/subtext/internal/subtext"
)

// Record is one parsed note as held by the store.
type Record struct {
	NoteID      string
	Path        string
	Fingerprint string
	Document    subtext.Document
	UpdatedAt   time.Time
}

// Store persists parsed documents keyed by note id.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, noteID string) (Record, error)
	// Fingerprint returns the stored fingerprint, or "" when the note is unknown.
	Fingerprint(ctx context.Context, noteID string) (string, error)
	// IDs lists stored note ids in order.
	IDs(ctx context.Context) ([]string, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, noteID string) error
	Count(ctx context.Context) (int, error)
	Close() error
}

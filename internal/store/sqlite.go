package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and creates if needed) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "open sqlite database").
			WithContext("path", dbPath).
			Build()
	}
	// A second connection to ":memory:" would be a different database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryStore, "initialize schema").
			WithContext("path", dbPath).
			Build()
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		note_id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		parsed TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_fingerprint ON documents(fingerprint);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put inserts or replaces the record for rec.NoteID. A zero UpdatedAt is
// set to now.
func (s *SQLiteStore) Put(ctx context.Context, rec Record) error {
	parsed, err := json.Marshal(rec.Document)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", rec.NoteID, err)
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (note_id, path, fingerprint, parsed, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(note_id) DO UPDATE SET
			path = excluded.path,
			fingerprint = excluded.fingerprint,
			parsed = excluded.parsed,
			updated_at = excluded.updated_at`,
		rec.NoteID, rec.Path, rec.Fingerprint, string(parsed), rec.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return storeError(err, "upsert document", rec.NoteID)
	}
	return nil
}

// Get returns the record for noteID, or a not-found error.
func (s *SQLiteStore) Get(ctx context.Context, noteID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT note_id, path, fingerprint, parsed, updated_at FROM documents WHERE note_id = ?", noteID)
	rec, err := scanRecord(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Record{}, errors.NotFoundError("document not found").WithContext("note_id", noteID).Build()
	}
	if err != nil {
		return Record{}, storeError(err, "get document", noteID)
	}
	return rec, nil
}

// Fingerprint returns the stored fingerprint for noteID, or "" when the
// note has never been stored.
func (s *SQLiteStore) Fingerprint(ctx context.Context, noteID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fp string
	err := s.db.QueryRowContext(ctx, "SELECT fingerprint FROM documents WHERE note_id = ?", noteID).Scan(&fp)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", storeError(err, "get fingerprint", noteID)
	}
	return fp, nil
}

// IDs returns every stored note id in ascending order.
func (s *SQLiteStore) IDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT note_id FROM documents ORDER BY note_id")
	if err != nil {
		return nil, storeError(err, "list ids", "")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return ids, nil
}

// List returns every stored record ordered by note id.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT note_id, path, fingerprint, parsed, updated_at FROM documents ORDER BY note_id")
	if err != nil {
		return nil, storeError(err, "list documents", "")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Delete removes noteID. Deleting an unknown id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE note_id = ?", noteID); err != nil {
		return storeError(err, "delete document", noteID)
	}
	return nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, storeError(err, "count documents", "")
	}
	return n, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec     Record
		parsed  string
		updated int64
	)
	if err := sc.Scan(&rec.NoteID, &rec.Path, &rec.Fingerprint, &parsed, &updated); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(parsed), &rec.Document); err != nil {
		return Record{}, fmt.Errorf("unmarshal document %s: %w", rec.NoteID, err)
	}
	rec.UpdatedAt = time.UnixMilli(updated)
	return rec, nil
}

func storeError(err error, op, noteID string) error {
	b := errors.WrapError(err, errors.CategoryStore, op)
	if noteID != "" {
		b = b.WithContext("note_id", noteID)
	}
	return b.Build()
}

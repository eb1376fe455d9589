package index

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/subtext/internal/batch"
	"git.home.luguber.info/inful/subtext/internal/logfields"
	"git.home.luguber.info/inful/subtext/internal/metrics"
	"git.home.luguber.info/inful/subtext/internal/notes"
	"git.home.luguber.info/inful/subtext/internal/observability"
	"git.home.luguber.info/inful/subtext/internal/store"
	"git.home.luguber.info/inful/subtext/internal/util/sets"
)

// Event announces that a note was (re)parsed and stored.
type Event struct {
	NoteID      string    `json:"noteId"`
	Path        string    `json:"path"`
	Fingerprint string    `json:"fingerprint"`
	Blocks      int       `json:"blocks"`
	Links       []string  `json:"links"`
	ParsedAt    time.Time `json:"parsedAt"`
}

// Publisher receives an Event for every stored note.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Summary counts what one run did.
type Summary struct {
	Indexed   int
	Unchanged int
	Removed   int
	Failed    int
}

// Indexer keeps a store in step with a set of notes.
type Indexer struct {
	store      store.Store
	dispatcher *batch.Dispatcher
	recorder   metrics.Recorder
	publisher  Publisher
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithRecorder sets the metrics recorder. A nil recorder keeps the no-op one.
func WithRecorder(r metrics.Recorder) Option {
	return func(ix *Indexer) {
		if r != nil {
			ix.recorder = r
		}
	}
}

// WithPublisher enables event publishing. A nil publisher disables it.
func WithPublisher(p Publisher) Option {
	return func(ix *Indexer) { ix.publisher = p }
}

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(ix *Indexer) {
		if l != nil {
			ix.logger = l
		}
	}
}

// New creates an Indexer writing to st and parsing with d.
func New(st store.Store, d *batch.Dispatcher, opts ...Option) *Indexer {
	ix := &Indexer{
		store:      st,
		dispatcher: d,
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Sync makes the store hold exactly the given notes: changed notes are
// reparsed and stored, and stored notes missing from all are removed.
func (ix *Indexer) Sync(ctx context.Context, all []notes.Note) (Summary, error) {
	sum, err := ix.Update(ctx, all)
	if err != nil {
		return sum, err
	}

	keep := make(sets.Set[string], len(all))
	for _, n := range all {
		keep.Add(n.ID)
	}
	ids, err := ix.store.IDs(ctx)
	if err != nil {
		return sum, err
	}
	removed, err := ix.Remove(ctx, keep.Missing(ids)...)
	sum.Removed = removed
	if err != nil {
		return sum, err
	}

	if n, err := ix.store.Count(ctx); err == nil {
		ix.recorder.SetStoredDocuments(n)
	}
	return sum, nil
}

// Update reparses and stores the notes whose fingerprint changed. Other
// stored notes are left alone.
func (ix *Indexer) Update(ctx context.Context, ns []notes.Note) (Summary, error) {
	var sum Summary
	changed := make([]notes.Note, 0, len(ns))
	for _, n := range ns {
		fp, err := ix.store.Fingerprint(ctx, n.ID)
		if err != nil {
			return sum, err
		}
		if fp == n.Fingerprint {
			sum.Unchanged++
			ix.recorder.IncIndexOutcome(metrics.IndexUnchanged)
			continue
		}
		changed = append(changed, n)
	}
	if len(changed) == 0 {
		return sum, nil
	}

	input := make([]batch.Note, len(changed))
	for i, n := range changed {
		id, err := json.Marshal(n.ID)
		if err != nil {
			return sum, err
		}
		input[i] = batch.Note{ID: id, Content: n.Body}
	}
	results, err := ix.dispatcher.Dispatch(ctx, input)
	if err != nil {
		return sum, err
	}

	now := ix.now()
	for i, res := range results {
		n := changed[i]
		if res.Error != "" {
			sum.Failed++
			ix.recorder.IncIndexOutcome(metrics.IndexFailed)
			ix.logger.WarnContext(ctx, "Skipping note", logfields.NoteID(n.ID), slog.String(logfields.KeyError, res.Error))
			continue
		}
		rec := store.Record{NoteID: n.ID, Path: n.Path, Fingerprint: n.Fingerprint, Document: res.ParsedContent, UpdatedAt: now}
		if err := ix.store.Put(ctx, rec); err != nil {
			return sum, err
		}
		sum.Indexed++
		ix.recorder.IncIndexOutcome(metrics.IndexIndexed)
		ix.logger.DebugContext(ctx, "Indexed note", logfields.NoteID(n.ID), logfields.Blocks(len(res.ParsedContent)))
		ix.publish(ctx, rec)
	}
	return sum, nil
}

// Remove deletes notes from the store and returns how many it removed.
func (ix *Indexer) Remove(ctx context.Context, ids ...string) (int, error) {
	for i, id := range ids {
		if err := ix.store.Delete(ctx, id); err != nil {
			return i, err
		}
		ix.recorder.IncIndexOutcome(metrics.IndexRemoved)
		ix.logger.DebugContext(ctx, "Removed note", logfields.NoteID(id))
	}
	return len(ids), nil
}

func (ix *Indexer) publish(ctx context.Context, rec store.Record) {
	if ix.publisher == nil {
		return
	}
	links := rec.Document.Links()
	targets := make([]string, len(links))
	for i, l := range links {
		targets[i] = l.Text
	}
	ev := Event{
		NoteID:      rec.NoteID,
		Path:        rec.Path,
		Fingerprint: rec.Fingerprint,
		Blocks:      len(rec.Document),
		Links:       targets,
		ParsedAt:    rec.UpdatedAt,
	}
	if err := ix.publisher.Publish(ctx, ev); err != nil {
		ix.logger.WarnContext(ctx, "Failed to publish parse event", logfields.NoteID(rec.NoteID), logfields.Error(err))
	}
}

// Run loads src and syncs the store with it.
func (ix *Indexer) Run(ctx context.Context, src Source) (Summary, error) {
	ctx = observability.WithSource(ctx, src.Describe())
	start := ix.now()
	all, err := src.Load(ctx)
	if err != nil {
		return Summary{}, err
	}
	sum, err := ix.Sync(ctx, all)
	if err != nil {
		return sum, err
	}
	ix.logger.InfoContext(ctx, "Index run complete",
		logfields.Notes(len(all)),
		slog.Int("indexed", sum.Indexed),
		slog.Int("unchanged", sum.Unchanged),
		slog.Int("removed", sum.Removed),
		slog.Int("failed", sum.Failed),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return sum, nil
}


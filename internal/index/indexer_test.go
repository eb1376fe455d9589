package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/subtext/internal/batch"
	"git.home.luguber.info/inful/subtext/internal/config"
	"git.home.luguber.info/inful/subtext/internal/notes"
	"git.home.luguber.info/inful/subtext/internal/store"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *capturePublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func note(t *testing.T, rel, content string) notes.Note {
	t.Helper()
	n, err := notes.New(rel, []byte(content))
	require.NoError(t, err)
	return n
}

func newIndexer(t *testing.T, opts ...Option) (*Indexer, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st, batch.NewDispatcher(batch.WithConcurrency(2)), opts...), st
}

func TestIndexer_Sync(t *testing.T) {
	ctx := context.Background()
	pub := &capturePublisher{}
	ix, st := newIndexer(t, WithPublisher(pub))
	fixed := time.UnixMilli(1_700_000_000_000)
	ix.now = func() time.Time { return fixed }

	a := note(t, "a.subtext", "# A\nsee [[b]]")
	b := note(t, "b.subtext", "plain")

	sum, err := ix.Sync(ctx, []notes.Note{a, b})
	require.NoError(t, err)
	assert.Equal(t, Summary{Indexed: 2}, sum)
	require.Len(t, pub.events, 2)
	assert.Equal(t, "a", pub.events[0].NoteID)
	assert.Equal(t, []string{"[[b]]"}, pub.events[0].Links)
	assert.Equal(t, 2, pub.events[0].Blocks)

	rec, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint, rec.Fingerprint)
	assert.True(t, fixed.Equal(rec.UpdatedAt))

	// Unchanged a, edited b, new c.
	b2 := note(t, "b.subtext", "plain, edited")
	c := note(t, "c.subtext", "- item")
	sum, err = ix.Sync(ctx, []notes.Note{a, b2, c})
	require.NoError(t, err)
	assert.Equal(t, Summary{Indexed: 2, Unchanged: 1}, sum)

	// a removed.
	sum, err = ix.Sync(ctx, []notes.Note{b2, c})
	require.NoError(t, err)
	assert.Equal(t, Summary{Unchanged: 2, Removed: 1}, sum)

	ids, err := st.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids)
}

func TestIndexer_UpdateKeepsOthers(t *testing.T) {
	ctx := context.Background()
	ix, st := newIndexer(t)

	_, err := ix.Sync(ctx, []notes.Note{note(t, "a.txt", "a"), note(t, "b.txt", "b")})
	require.NoError(t, err)

	sum, err := ix.Update(ctx, []notes.Note{note(t, "a.txt", "a2")})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Indexed)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	removed, err := ix.Remove(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestIndexer_RunDirSource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.subtext"), []byte("$status done"), 0o600))

	ix, st := newIndexer(t)
	src := SourceFromConfig(config.NotesConfig{Dir: dir, Extensions: []string{".subtext"}})
	assert.Equal(t, dir, src.Describe())

	sum, err := ix.Run(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Indexed)

	rec, err := st.Get(ctx, "x")
	require.NoError(t, err)
	require.Len(t, rec.Document, 1)
}

func TestSourceFromConfig_Git(t *testing.T) {
	src := SourceFromConfig(config.NotesConfig{Git: config.GitSource{Repo: "/srv/notes", Revision: "main"}})
	gs, ok := src.(GitSource)
	require.True(t, ok)
	assert.Equal(t, "/srv/notes@main", gs.Describe())
}

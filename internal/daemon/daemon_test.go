package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/subtext/internal/batch"
	"git.home.luguber.info/inful/subtext/internal/config"
	"git.home.luguber.info/inful/subtext/internal/index"
	"git.home.luguber.info/inful/subtext/internal/metrics"
	"git.home.luguber.info/inful/subtext/internal/store"
	"git.home.luguber.info/inful/subtext/internal/subtext"
)

func newTestDaemon(t *testing.T) (*Daemon, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Notes.Dir = dir
	cfg.Notes.Extensions = []string{".subtext"}
	cfg.Metrics.Enabled = true
	cfg.Metrics.Addr = cfg.Daemon.HTTPAddr

	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	d := batch.NewDispatcher(batch.WithRecorder(rec))
	return New(cfg, Deps{
		Store:      st,
		Dispatcher: d,
		Indexer:    index.New(st, d, index.WithRecorder(rec)),
		Source:     index.SourceFromConfig(cfg.Notes),
		Registry:   reg,
	}), dir
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestAPI_Parse(t *testing.T) {
	d, _ := newTestDaemon(t)
	h := d.apiHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/parse",
		strings.NewReader(`{"action":"PARSE_NOTES","notes":[{"id":1,"content":"# Hi"}]}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"parsedContent":[{"type":"heading","data":{"whitespace":" ","text":[{"type":"NORMAL_TEXT","text":"Hi"}]}}]}]`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"notes":{}}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Expected an array of notes, received object instead.")
}

func TestAPI_Format(t *testing.T) {
	d, _ := newTestDaemon(t)
	rec := httptest.NewRecorder()
	d.apiHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/format",
		strings.NewReader(`[{"type":"quote","data":{"whitespace":" ","text":[{"type":"NORMAL_TEXT","text":"hi"}]}}]`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "> hi", rec.Body.String())
}

func TestReindexAndNotesEndpoint(t *testing.T) {
	d, dir := newTestDaemon(t)
	write(t, dir, "todo.subtext", "- milk")

	d.Reindex(context.Background())

	rec := httptest.NewRecorder()
	d.apiHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes/todo", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "todo.subtext", body["path"])

	rec = httptest.NewRecorder()
	d.apiHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	d.apiHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "subtext_index_outcomes_total")
}

func TestHealth(t *testing.T) {
	d, _ := newTestDaemon(t)

	resp := d.Health(context.Background())
	assert.Equal(t, HealthStatusDegraded, resp.Status)

	d.Reindex(context.Background())
	resp = d.Health(context.Background())
	assert.Equal(t, HealthStatusHealthy, resp.Status)
	require.Len(t, resp.Checks, 2)
}

func TestHandleChanges(t *testing.T) {
	ctx := context.Background()
	d, dir := newTestDaemon(t)
	a := write(t, dir, "a.subtext", "one")
	write(t, dir, "b.subtext", "two")
	d.Reindex(ctx)

	write(t, dir, "a.subtext", "one, edited")
	b := filepath.Join(dir, "b.subtext")
	require.NoError(t, os.Remove(b))
	ignored := write(t, dir, "c.md", "ignored")

	d.handleChanges(ctx, []string{a, b, ignored})

	ids, err := d.store.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	got, err := d.store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "one, edited", subtext.JoinSpans(subtext.Spans(got.Document[0])))
}

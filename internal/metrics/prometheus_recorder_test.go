package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveParseDuration(150 * time.Microsecond)
	pr.IncParseResult(ResultSuccess)
	pr.AddBlocks("heading", 2)
	pr.AddBlocks("paragraph", 0)
	pr.AddSpans("WIKILINK", 3)
	pr.ObserveBatch(4, 2*time.Millisecond)
	pr.IncIndexOutcome(IndexIndexed)
	pr.SetStoredDocuments(9)

	require.InDelta(t, 2, testutil.ToFloat64(pr.blocks.WithLabelValues("heading")), 0)
	require.InDelta(t, 3, testutil.ToFloat64(pr.spans.WithLabelValues("WIKILINK")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.parseResults.WithLabelValues("success")), 0)
	require.InDelta(t, 9, testutil.ToFloat64(pr.storedDocuments), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveParseDuration(time.Millisecond)
		pr.IncParseResult(ResultFailed)
		pr.AddBlocks("code", 1)
		pr.SetStoredDocuments(1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg).IncIndexOutcome(IndexRemoved)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `subtext_index_outcomes_total{outcome="removed"} 1`)
}

package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "subtext"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	parseDuration   prom.Histogram
	parseResults    *prom.CounterVec
	blocks          *prom.CounterVec
	spans           *prom.CounterVec
	batchSize       prom.Histogram
	batchDuration   prom.Histogram
	indexOutcomes   *prom.CounterVec
	storedDocuments prom.Gauge
}

// NewPrometheusRecorder constructs and registers the parser metrics on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		parseDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Duration of parsing a single note body",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		}),
		parseResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "parse_results_total",
			Help:      "Parsed notes by result",
		}, []string{"result"}),
		blocks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Blocks produced by kind",
		}, []string{"kind"}),
		spans: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "spans_total",
			Help:      "Inline spans produced by kind",
		}, []string{"kind"}),
		batchSize: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size_notes",
			Help:      "Number of notes per PARSE_NOTES batch",
			Buckets:   prom.ExponentialBuckets(1, 4, 8),
		}),
		batchDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of a PARSE_NOTES batch",
			Buckets:   prom.DefBuckets,
		}),
		indexOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "index_outcomes_total",
			Help:      "Indexer outcomes per note",
		}, []string{"outcome"}),
		storedDocuments: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_documents",
			Help:      "Parsed documents held by the store after the last index run",
		}),
	}
	reg.MustRegister(pr.parseDuration, pr.parseResults, pr.blocks, pr.spans,
		pr.batchSize, pr.batchDuration, pr.indexOutcomes, pr.storedDocuments)
	return pr
}

func (p *PrometheusRecorder) ObserveParseDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.parseDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncParseResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.parseResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddBlocks(kind string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.blocks.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) AddSpans(kind string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.spans.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveBatch(size int, d time.Duration) {
	if p == nil {
		return
	}
	p.batchSize.Observe(float64(size))
	p.batchDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncIndexOutcome(outcome IndexOutcome) {
	if p == nil {
		return
	}
	p.indexOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetStoredDocuments(n int) {
	if p == nil {
		return
	}
	p.storedDocuments.Set(float64(n))
}

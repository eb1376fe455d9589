package metrics

import "time"

// ResultLabel enumerates parse result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// IndexOutcome enumerates what the indexer did with one note.
type IndexOutcome string

const (
	IndexIndexed   IndexOutcome = "indexed"
	IndexUnchanged IndexOutcome = "unchanged"
	IndexRemoved   IndexOutcome = "removed"
	IndexFailed    IndexOutcome = "failed"
)

// Recorder defines observability hooks for parsing and indexing. Implementations
// may forward to Prometheus; NoopRecorder is the default when metrics are off.
type Recorder interface {
	ObserveParseDuration(d time.Duration)
	IncParseResult(result ResultLabel)
	AddBlocks(kind string, n int)
	AddSpans(kind string, n int)
	ObserveBatch(size int, d time.Duration)
	IncIndexOutcome(outcome IndexOutcome)
	SetStoredDocuments(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveParseDuration(time.Duration) {}
func (NoopRecorder) IncParseResult(ResultLabel)         {}
func (NoopRecorder) AddBlocks(string, int)              {}
func (NoopRecorder) AddSpans(string, int)               {}
func (NoopRecorder) ObserveBatch(int, time.Duration)    {}
func (NoopRecorder) IncIndexOutcome(IndexOutcome)       {}
func (NoopRecorder) SetStoredDocuments(int)             {}

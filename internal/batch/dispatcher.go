package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
	"git.home.luguber.info/inful/subtext/internal/logfields"
	"git.home.luguber.info/inful/subtext/internal/metrics"
	"git.home.luguber.info/inful/subtext/internal/observability"
	"git.home.luguber.info/inful/subtext/internal/subtext"
)

// Dispatcher parses batches of notes over a bounded worker pool and returns
// results in input order.
type Dispatcher struct {
	concurrency int
	isolate     bool
	recorder    metrics.Recorder
	logger      *slog.Logger

	parse func(string) (subtext.Document, error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithConcurrency bounds the number of notes parsed at once. Values below 1
// mean one worker.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n < 1 {
			n = 1
		}
		d.concurrency = n
	}
}

// WithIsolation makes a failing note produce a Result with Error set instead
// of failing the whole batch. Parser panics are recovered the same way.
func WithIsolation(enabled bool) Option {
	return func(d *Dispatcher) { d.isolate = enabled }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a Dispatcher. The default pool size is GOMAXPROCS.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		concurrency: runtime.GOMAXPROCS(0),
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
		parse:       subtext.Parse,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type outcome struct {
	doc subtext.Document
	err error
}

// Dispatch parses notes and returns results in input order. Cancelling ctx
// abandons notes that have not started; the call then returns ctx.Err().
func (d *Dispatcher) Dispatch(ctx context.Context, notes []Note) ([]Result, error) {
	ctx = observability.WithBatchID(ctx, uuid.NewString())
	start := time.Now()
	d.logger.DebugContext(ctx, "Dispatching batch", logfields.Notes(len(notes)))

	outcomes := d.runOrdered(ctx, notes)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]Result, len(notes))
	for i, o := range outcomes {
		results[i] = Result{ID: notes[i].ID, ParsedContent: o.doc}
		if o.err == nil {
			continue
		}
		if !d.isolate {
			d.logger.ErrorContext(ctx, "Batch failed", logfields.Error(o.err))
			return nil, o.err
		}
		d.logger.WarnContext(observability.WithNoteID(ctx, string(notes[i].ID)), "Note failed to parse", logfields.Error(o.err))
		results[i].Error = o.err.Error()
	}

	elapsed := time.Since(start)
	d.recorder.ObserveBatch(len(notes), elapsed)
	d.logger.DebugContext(ctx, "Batch complete", logfields.Notes(len(notes)), logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return results, nil
}

// HandlePayload decodes a PARSE_NOTES payload, dispatches it and encodes the
// response array.
func (d *Dispatcher) HandlePayload(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := DecodeRequest(payload)
	if err != nil {
		return nil, err
	}
	results, err := d.Dispatch(ctx, req.Notes)
	if err != nil {
		return nil, err
	}
	return EncodeResults(results)
}

func (d *Dispatcher) runOrdered(ctx context.Context, notes []Note) []outcome {
	out := make([]outcome, len(notes))
	if len(notes) == 0 {
		return out
	}
	workers := min(d.concurrency, len(notes))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, n := range notes {
		select {
		case <-ctx.Done():
			wg.Wait()
			return out
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, content string) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = d.parseOne(content)
		}(i, n.Content)
	}
	wg.Wait()
	return out
}

func (d *Dispatcher) parseOne(content string) (o outcome) {
	if d.isolate {
		defer func() {
			if r := recover(); r != nil {
				o = outcome{err: errors.InternalError(fmt.Sprintf("parser panic: %v", r)).Build()}
				d.recorder.IncParseResult(metrics.ResultFailed)
			}
		}()
	}

	start := time.Now()
	doc, err := d.parse(content)
	d.recorder.ObserveParseDuration(time.Since(start))
	if err != nil {
		d.recorder.IncParseResult(metrics.ResultFailed)
		return outcome{err: err}
	}
	d.recorder.IncParseResult(metrics.ResultSuccess)
	d.record(doc)
	return outcome{doc: doc}
}

func (d *Dispatcher) record(doc subtext.Document) {
	blocks := make(map[string]int)
	spans := make(map[string]int)
	for _, b := range doc {
		blocks[b.Kind().String()]++
		for _, s := range subtext.Spans(b) {
			spans[s.Kind.String()]++
		}
	}
	for k, n := range blocks {
		d.recorder.AddBlocks(k, n)
	}
	for k, n := range spans {
		d.recorder.AddSpans(k, n)
	}
}

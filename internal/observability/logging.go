package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/subtext/internal/logfields"
)

// LogContext holds the request-scoped values added to every log record.
type LogContext struct {
	BatchID string
	NoteID  string
	Source  string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBatchID adds a batch ID to the context.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	lc := extractLogContext(ctx)
	lc.BatchID = batchID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithNoteID adds a note ID to the context.
func WithNoteID(ctx context.Context, noteID string) context.Context {
	lc := extractLogContext(ctx)
	lc.NoteID = noteID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithSource adds the note source being indexed to the context.
func WithSource(ctx context.Context, source string) context.Context {
	lc := extractLogContext(ctx)
	lc.Source = source
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	var attrs []slog.Attr
	if lc.BatchID != "" {
		attrs = append(attrs, logfields.BatchID(lc.BatchID))
	}
	if lc.NoteID != "" {
		attrs = append(attrs, logfields.NoteID(lc.NoteID))
	}
	if lc.Source != "" {
		attrs = append(attrs, logfields.Source(lc.Source))
	}
	return attrs
}

// ContextHandler adds the LogContext carried by a record's context to the
// record before passing it on.
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := getLogAttrs(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}

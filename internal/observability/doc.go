// Package observability carries request-scoped logging context (batch, note,
// source) through context.Context and adds it to slog records.
package observability

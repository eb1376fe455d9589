package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBatchID    = "batch_id"
	KeyNoteID     = "note_id"
	KeyNotes      = "notes"
	KeyBlocks     = "blocks"
	KeySpans      = "spans"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySource     = "source"
	KeyRevision   = "revision"
	KeySubject    = "subject"
	KeyAddr       = "addr"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BatchID(id string) slog.Attr     { return slog.String(KeyBatchID, id) }
func NoteID(id string) slog.Attr      { return slog.String(KeyNoteID, id) }
func Notes(n int) slog.Attr           { return slog.Int(KeyNotes, n) }
func Blocks(n int) slog.Attr          { return slog.Int(KeyBlocks, n) }
func Spans(n int) slog.Attr           { return slog.Int(KeySpans, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Revision(r string) slog.Attr     { return slog.String(KeyRevision, r) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

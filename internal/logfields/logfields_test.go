package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BatchID", KeyBatchID, "b1", BatchID("b1")},
		{"NoteID", KeyNoteID, "daily/today", NoteID("daily/today")},
		{"Path", KeyPath, "/tmp/x.subtext", Path("/tmp/x.subtext")},
		{"Source", KeySource, "git", Source("git")},
		{"Revision", KeyRevision, "HEAD", Revision("HEAD")},
		{"Subject", KeySubject, "subtext.parse", Subject("subtext.parse")},
		{"Addr", KeyAddr, ":9090", Addr(":9090")},
		{"Outcome", KeyOutcome, "indexed", Outcome("indexed")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric & float helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Notes(3); v.Key != KeyNotes || v.Value.Int64() != 3 {
		t.Fatalf("Notes mismatch: %v", v)
	}
	if v := Blocks(5); v.Key != KeyBlocks {
		t.Fatalf("Blocks key mismatch: %s", v.Key)
	}
	if v := Spans(7); v.Key != KeySpans {
		t.Fatalf("Spans key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS || v.Value.Float64() != 12.5 {
		t.Fatalf("DurationMS mismatch: %v", v)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError || attr.Value.String() != "" {
		t.Fatalf("unexpected nil error attr: %v", attr)
	}
	if attr = Error(errors.New("err-test")); attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

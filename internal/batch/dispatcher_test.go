package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
	"git.home.luguber.info/inful/subtext/internal/subtext"
)

func sampleNotes(n int) []Note {
	notes := make([]Note, n)
	for i := range notes {
		notes[i] = Note{
			ID:      json.RawMessage(fmt.Sprintf(`"note-%d"`, i)),
			Content: fmt.Sprintf("# Note %d\nSee [[Note %d]]", i, i+1),
		}
	}
	return notes
}

func TestParse(t *testing.T) {
	results, err := Parse([]Note{
		{ID: json.RawMessage(`1`), Content: "# Title"},
		{ID: json.RawMessage(`{"k":"v"}`), Content: ""},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, `1`, string(results[0].ID))
	assert.Equal(t, subtext.Document{subtext.Heading{
		LeadingWhitespace: " ",
		Text:              []subtext.Span{{Kind: subtext.SpanNormalText, Text: "Title"}},
	}}, results[0].ParsedContent)
	assert.Equal(t, subtext.Document{subtext.Empty{RawWhitespace: ""}}, results[1].ParsedContent)
}

func TestDispatcher_PreservesOrder(t *testing.T) {
	notes := sampleNotes(50)
	d := NewDispatcher(WithConcurrency(8))

	results, err := d.Dispatch(context.Background(), notes)
	require.NoError(t, err)

	sequential, err := Parse(notes)
	require.NoError(t, err)
	assert.Equal(t, sequential, results)
}

func TestDispatcher_Empty(t *testing.T) {
	results, err := NewDispatcher().Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDispatcher_FailFast(t *testing.T) {
	d := NewDispatcher(WithConcurrency(2))
	d.parse = func(s string) (subtext.Document, error) {
		if strings.Contains(s, "3") {
			return nil, errors.InternalError("boom").Build()
		}
		return subtext.Parse(s)
	}

	_, err := d.Dispatch(context.Background(), sampleNotes(5))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryInternal))
}

func TestDispatcher_Isolation(t *testing.T) {
	d := NewDispatcher(WithConcurrency(3), WithIsolation(true))
	d.parse = func(s string) (subtext.Document, error) {
		switch {
		case strings.HasPrefix(s, "# Note 1\n"):
			return nil, errors.InternalError("boom").Build()
		case strings.HasPrefix(s, "# Note 2\n"):
			panic("unexpected state")
		}
		return subtext.Parse(s)
	}

	results, err := d.Dispatch(context.Background(), sampleNotes(4))
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Empty(t, results[0].Error)
	assert.NotEmpty(t, results[0].ParsedContent)
	assert.Contains(t, results[1].Error, "boom")
	assert.Contains(t, results[2].Error, "parser panic")
	assert.Empty(t, results[3].Error)
	assert.Equal(t, `"note-2"`, string(results[2].ID))
}

func TestDispatcher_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDispatcher(WithConcurrency(1)).Dispatch(ctx, sampleNotes(10))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDispatcher_HandlePayload(t *testing.T) {
	d := NewDispatcher()
	out, err := d.HandlePayload(context.Background(), []byte(`{"action":"PARSE_NOTES","notes":[{"id":1,"content":"$color red fox"}]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"parsedContent":[{"type":"key-value-pair","data":{"key":"color","whitespace":" ","value":[{"type":"NORMAL_TEXT","text":"red fox"}]}}]}]`, string(out))

	_, err = d.HandlePayload(context.Background(), []byte(`{"action":"PARSE_NOTES","notes":"x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected an array of notes, received string instead.")
}

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/subtext/internal/subtext"
)

func TestToSubtext(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading levels", "# One\n\n### Three", "# One\n\n# Three"},
		{"paragraph soft breaks", "first line\nsecond *line*", "first line second line"},
		{"unordered list", "- a\n- b", "- a\n- b"},
		{"ordered list start", "3. c\n4. d", "3. c\n4. d"},
		{"nested list flattened", "- a\n  - b", "- a\n- b"},
		{"blockquote", "> quoted\n> text", "> quoted text"},
		{"fenced code", "```go\nx := 1\n```", "```go\nx := 1\n```"},
		{"fence inside code escaped", "````\n```\n````", "```\n\\```\n```"},
		{"indented code", "    a\n    b", "```\na\nb\n```"},
		{"thematic break dropped", "a\n\n---\n\nb", "a\n\nb"},
		{"absolute link", "see [site](https://example.com)", "see https://example.com"},
		{"relative link", "see [other](notes/other.md#top)", "see [[notes/other]]"},
		{"autolink", "<https://example.com>", "https://example.com"},
		{"code span", "run `go test`", "run `go test`"},
		{"html block text and links", "<div>\n<p>Hello <a href=\"other.md\">other</a> and <a href=\"https://x.io\">x</a></p>\n</div>", "Hello [[other]] and https://x.io"},
		{"html block lines", "<div>\none<br>two\n</div>", "one\ntwo"},
		{"script dropped", "a\n\n<script>\nvar x = 1;\n</script>\n\nb", "a\n\nb"},
		{"nfc", "Cafe\u0301", "Caf\u00e9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToSubtext([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToSubtext_ParsesAsSubtext(t *testing.T) {
	out, err := ToSubtext([]byte("# Title\n\nSee [x](x.md) and https://example.com\n\n1. one\n"))
	require.NoError(t, err)

	doc, err := subtext.Parse(out)
	require.NoError(t, err)
	require.Len(t, doc, 5)
	assert.Equal(t, subtext.KindHeading, doc[0].Kind())
	assert.Equal(t, subtext.KindEmpty, doc[1].Kind())
	assert.Equal(t, subtext.KindParagraph, doc[2].Kind())
	assert.Equal(t, subtext.KindOrderedListItem, doc[4].Kind())

	var kinds []subtext.SpanKind
	for _, l := range doc.Links() {
		kinds = append(kinds, l.Kind)
	}
	assert.Equal(t, []subtext.SpanKind{subtext.SpanWikilink, subtext.SpanHyperlink}, kinds)
}

func TestWikiTarget(t *testing.T) {
	assert.Equal(t, "a/b", WikiTarget("./a/b.md"))
	assert.Equal(t, "v1.2/readme", WikiTarget("v1.2/readme"))
	assert.Equal(t, "", WikiTarget("#anchor"))
}

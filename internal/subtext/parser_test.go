package subtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
)

func mustParse(t *testing.T, text string) Document {
	t.Helper()
	doc, err := Parse(text)
	require.NoError(t, err)
	return doc
}

func TestParse_Blocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Document
	}{
		{"empty input", "", Document{Empty{RawWhitespace: ""}}},
		{"whitespace only", " \t ", Document{Empty{RawWhitespace: " \t "}}},
		{"heading", "# Title", Document{Heading{LeadingWhitespace: " ", Text: []Span{normal("Title")}}}},
		{"bare heading sigil", "#", Document{Heading{LeadingWhitespace: "", Text: []Span{}}}},
		{"heading wins over list sigil", "#- x", Document{Heading{Text: []Span{normal("- x")}}}},
		{
			"key value",
			"$color red fox",
			Document{KeyValuePair{Key: "color", LeadingWhitespace: " ", Value: []Span{normal("red fox")}}},
		},
		{"key without value", "$key", Document{KeyValuePair{Key: "key", Value: []Span{}}}},
		{
			"unicode key",
			"$ключ-1_x значение",
			Document{KeyValuePair{Key: "ключ-1_x", LeadingWhitespace: " ", Value: []Span{normal("значение")}}},
		},
		{"dollar with space is a paragraph", "$ no", Document{Paragraph{Text: []Span{normal("$ no")}}}},
		{"key with punctuation is a paragraph", "$key!x", Document{Paragraph{Text: []Span{normal("$key!x")}}}},
		{
			"unordered list item",
			"- item",
			Document{UnorderedListItem{LeadingWhitespace: " ", Text: []Span{normal("item")}}},
		},
		{"dash without space", "-item", Document{Paragraph{Text: []Span{normal("-item")}}}},
		{"quote", "> quoted", Document{Quote{LeadingWhitespace: " ", Text: []Span{normal("quoted")}}}},
		{"bare quote", ">", Document{Quote{Text: []Span{}}}},
		{
			"ordered list item",
			"12. Buy milk",
			Document{OrderedListItem{Index: "12", LeadingWhitespace: " ", Text: []Span{normal("Buy milk")}}},
		},
		{"ordered without space", "1.x", Document{OrderedListItem{Index: "1", Text: []Span{normal("x")}}}},
		{"parenthesis is not ordered", "1) x", Document{Paragraph{Text: []Span{normal("1) x")}}}},
		{
			"paragraph with link",
			"Read [[Other]]",
			Document{Paragraph{Text: []Span{normal("Read "), wikilink("[[Other]]")}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, mustParse(t, tt.input))
		})
	}
}

func TestParse_CodeFence(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Document
	}{
		{
			"escaped fence inside code",
			[]string{"```js", "let x = 1;", "\\```", "```"},
			Document{Code{ContentType: "js", Code: "let x = 1;\n```"}},
		},
		{
			"content type with whitespace",
			[]string{"``` go  ", "x", "```"},
			Document{Code{ContentType: "go", LeadingWhitespace: " ", Code: "x"}},
		},
		{
			"closing fence with trailing spaces",
			[]string{"```", "x", "```   ", "after"},
			Document{Code{Code: "x"}, Paragraph{Text: []Span{normal("after")}}},
		},
		{"empty body", []string{"```", "```"}, Document{Code{}}},
		{"leading blank body line", []string{"```", "", "x", "```"}, Document{Code{Code: "\nx"}}},
		{
			"sigils are raw inside code",
			[]string{"```", "# not a heading", "- [[no]] https://x", "```"},
			Document{Code{Code: "# not a heading\n- [[no]] https://x"}},
		},
		{
			"escaped fence keeps trailing whitespace",
			[]string{"```", "\\```  ", "```"},
			Document{Code{Code: "```  "}},
		},
		{
			"unterminated fence",
			[]string{"```", "line1", "line2"},
			Document{Code{Code: "line1\nline2"}},
		},
		{
			"fence after text",
			[]string{"intro", "```sh", "ls", "```", ""},
			Document{Paragraph{Text: []Span{normal("intro")}}, Code{ContentType: "sh", Code: "ls"}, Empty{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, mustParse(t, strings.Join(tt.lines, "\n")))
		})
	}
}

func TestParse_LineEndings(t *testing.T) {
	doc := mustParse(t, "a\r\nb\rc\n")
	require.Equal(t, Document{
		Paragraph{Text: []Span{normal("a")}},
		Paragraph{Text: []Span{normal("b")}},
		Paragraph{Text: []Span{normal("c")}},
		Empty{},
	}, doc)
}

func TestParse_LineCoverage(t *testing.T) {
	lines := []string{"# h", "```", "a", "b", "```", "", "p"}
	doc := mustParse(t, strings.Join(lines, "\n"))

	absorbed := 0
	for _, b := range doc {
		if c, ok := b.(Code); ok {
			// body lines plus the closing fence
			absorbed += len(strings.Split(c.Code, "\n")) + 1
		}
	}
	require.Len(t, doc, 4)
	require.Equal(t, len(lines), len(doc)+absorbed)
}

func TestParse_PartitionLaw(t *testing.T) {
	input := strings.Join([]string{
		"# Heading with https://example.com",
		"$source   /notes/origin",
		"-   spaced [[Item]]",
		">\tquoted /path.",
		"007.  padded",
		"plain [[a [b]]] text",
	}, "\n")
	doc := mustParse(t, input)
	lines := SplitLines(input)
	require.Len(t, doc, len(lines))

	for i, b := range doc {
		var sigil, ws string
		switch v := b.(type) {
		case Heading:
			sigil, ws = "#", v.LeadingWhitespace
		case KeyValuePair:
			sigil, ws = "$"+v.Key, v.LeadingWhitespace
		case UnorderedListItem:
			sigil, ws = "-", v.LeadingWhitespace
		case Quote:
			sigil, ws = ">", v.LeadingWhitespace
		case OrderedListItem:
			sigil, ws = v.Index+".", v.LeadingWhitespace
		case Paragraph:
		default:
			t.Fatalf("unexpected block %T", b)
		}
		require.Equal(t, lines[i], sigil+ws+JoinSpans(Spans(b)))
	}
}

func TestParse_Deterministic(t *testing.T) {
	input := "# a\n$k v\n```\nx\n```\n- [[b]] /c http://d"
	require.Equal(t, mustParse(t, input), mustParse(t, input))
}

func TestParser_FenceWithoutCodeBlockFails(t *testing.T) {
	p := &parser{blocks: []Block{Paragraph{}}, insideCodeFence: true}

	err := p.fenceLine("x")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryInternal))

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	kind, _ := classified.Context().GetString("kind")
	require.Equal(t, "paragraph", kind)

	empty := &parser{insideCodeFence: true}
	require.Error(t, empty.fenceLine("x"))
}

func TestDocument_Links(t *testing.T) {
	doc := mustParse(t, "# [[One]]\n$ref https://x.y\nplain\n```\n[[not a link]]\n```\n- /two")
	require.Equal(t, []Span{wikilink("[[One]]"), hyperlink("https://x.y"), slashlink("/two")}, doc.Links())
}

package subtext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func normal(s string) Span    { return Span{Kind: SpanNormalText, Text: s} }
func hyperlink(s string) Span { return Span{Kind: SpanHyperlink, Text: s} }
func slashlink(s string) Span { return Span{Kind: SpanSlashlink, Text: s} }
func wikilink(s string) Span  { return Span{Kind: SpanWikilink, Text: s} }

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{"empty", "", []Span{}},
		{"plain text", "Title", []Span{normal("Title")}},
		{
			"hyperlink between words",
			"See https://example.com now",
			[]Span{normal("See "), hyperlink("https://example.com"), normal(" now")},
		},
		{"http hyperlink at start", "http://a.b", []Span{hyperlink("http://a.b")}},
		{
			"slashlink run only ends at U+0020",
			"/a.\u3000b",
			[]Span{slashlink("/a."), normal("\u3000b")},
		},
		{
			"invalid bytes kept verbatim",
			"a\xffb [[x\xfe]]",
			[]Span{normal("a\xffb "), wikilink("[[x\xfe]]")},
		},
		{"hyperlink needs boundary", "xhttp://a", []Span{normal("xhttp://a")}},
		{"hyperlink ends at tab", "http://a\tb", []Span{hyperlink("http://a"), normal("\tb")}},
		{
			"wikilink",
			"Go to [[My Note]] please",
			[]Span{normal("Go to "), wikilink("[[My Note]]"), normal(" please")},
		},
		{"nested brackets are not a wikilink", "[[a [b] c]]", []Span{normal("[[a [b] c]]")}},
		{"unclosed wikilink", "see [[unclosed", []Span{normal("see [[unclosed")}},
		{"empty wikilink", "[[]]", []Span{wikilink("[[]]")}},
		{"adjacent wikilinks", "[[a]][[b]]", []Span{wikilink("[[a]]"), wikilink("[[b]]")}},
		{"extra closing bracket", "[[a]]]", []Span{wikilink("[[a]]"), normal("]")}},
		{"slashlink ending in a letter", "see /notes/today", []Span{normal("see "), slashlink("/notes/today")}},
		{"slashlink ending in punctuation", "see /notes/today.", []Span{normal("see /notes/today.")}},
		{"slashlink run ending in punctuation before space", "see /notes/today. more", []Span{normal("see /notes/today. more")}},
		{
			"slashlink followed by text",
			"see /notes/today more",
			[]Span{normal("see "), slashlink("/notes/today"), normal(" more")},
		},
		{"slashlink at start", "/a", []Span{slashlink("/a")}},
		{"slashlink with underscore tail", "/a_", []Span{slashlink("/a_")}},
		{"slash inside a word", "a/b", []Span{normal("a/b")}},
		{"slash followed by space", "/ x", []Span{normal("/ x")}},
		{"slashlink inside wikilink", "[[ /x ]]", []Span{wikilink("[[ /x ]]")}},
		{
			"hyperlink start wins inside wikilink",
			"[[a http://b]]",
			[]Span{wikilink("[[a "), hyperlink("http://b]]")},
		},
		{
			"mixed",
			"Check [[Note]] and https://x.y/z and /slash",
			[]Span{
				normal("Check "), wikilink("[[Note]]"), normal(" and "),
				hyperlink("https://x.y/z"), normal(" and "), slashlink("/slash"),
			},
		},
		{"unicode slashlink", "über /café", []Span{normal("über "), slashlink("/café")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenize_PartitionsInput(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"   leading and trailing   ",
		"[[",
		"]]",
		"[[a]] [[b [c]] d]] http://x /y",
		"naïve /café_ü [[ü]] https://ü.example/ü",
		"h http https:/ https://",
		"/\t/a\t/b.\t[[\t]]",
		"a\xffb [[x\xfe]]",
		"/a\xc3 http://\xe2\x82 \xff",
		" /nbsp https://x　y",
	}
	for _, in := range inputs {
		spans := Tokenize(in)
		require.Equal(t, in, JoinSpans(spans), "input %q", in)
		for _, s := range spans {
			require.NotEmpty(t, s.Text, "input %q produced an empty span", in)
		}
	}
}

func TestSpanKind_TextRoundTrip(t *testing.T) {
	for kind, name := range spanKindNames {
		text, err := kind.MarshalText()
		require.NoError(t, err)
		require.Equal(t, name, string(text))

		var decoded SpanKind
		require.NoError(t, decoded.UnmarshalText(text))
		require.Equal(t, kind, decoded)
	}

	var k SpanKind
	require.Error(t, k.UnmarshalText([]byte("BOLD")))
}

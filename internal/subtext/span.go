package subtext

import (
	"fmt"
	"strings"
	"unicode"
)

// SpanKind classifies a run of inline text.
type SpanKind int

const (
	SpanNormalText SpanKind = iota
	SpanHyperlink
	SpanSlashlink
	SpanWikilink
)

var spanKindNames = map[SpanKind]string{
	SpanNormalText: "NORMAL_TEXT",
	SpanHyperlink:  "HYPERLINK",
	SpanSlashlink:  "SLASHLINK",
	SpanWikilink:   "WIKILINK",
}

func (k SpanKind) String() string {
	if name, ok := spanKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SpanKind(%d)", int(k))
}

// MarshalText encodes the kind with its wire name.
func (k SpanKind) MarshalText() ([]byte, error) {
	name, ok := spanKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown span kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a wire name into a kind.
func (k *SpanKind) UnmarshalText(text []byte) error {
	for kind, name := range spanKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown span type %q", text)
}

// Span is one run of inline text. Text is the exact substring the span covers,
// delimiters included.
type Span struct {
	Kind SpanKind `json:"type"`
	Text string   `json:"text"`
}

// IsLink reports whether the span is any of the link kinds.
func (s Span) IsLink() bool {
	return s.Kind != SpanNormalText
}

// JoinSpans concatenates the text of spans in order.
func JoinSpans(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// spanBuilder accumulates the span in progress and the spans already closed.
type spanBuilder struct {
	spans []Span
	open  bool
	kind  SpanKind
	text  strings.Builder
}

func (b *spanBuilder) flush() {
	if b.open && b.text.Len() > 0 {
		b.spans = append(b.spans, Span{Kind: b.kind, Text: b.text.String()})
	}
	b.open = false
	b.text.Reset()
}

func (b *spanBuilder) start(kind SpanKind) {
	b.flush()
	b.open = true
	b.kind = kind
}

func (b *spanBuilder) is(kind SpanKind) bool {
	return b.open && b.kind == kind
}

// Tokenize splits one line of text into spans. The concatenated span texts
// always equal the input.
func Tokenize(text string) []Span {
	c := NewCursor(text)
	b := &spanBuilder{}

	for r, ok := c.Advance(); ok; r, ok = c.Advance() {
		switch {
		case r == 'h' && atBoundary(c) && hyperlinkAhead(c):
			b.start(SpanHyperlink)
		case r == '/' && atBoundary(c) && !b.is(SpanWikilink) && slashlinkAhead(c):
			b.start(SpanSlashlink)
		case unicode.IsSpace(r) && !b.is(SpanNormalText) && !b.is(SpanWikilink):
			b.start(SpanNormalText)
		case r == '[' && wikilinkAhead(c):
			b.start(SpanWikilink)
		case r == ']' && b.is(SpanWikilink) && previousIs(c, ']'):
			b.text.WriteString(c.Raw())
			b.start(SpanNormalText)
			continue
		case !b.open:
			b.open = true
			b.kind = SpanNormalText
		}
		b.text.WriteString(c.Raw())
	}
	b.flush()

	if b.spans == nil {
		return []Span{}
	}
	return b.spans
}

// atBoundary reports whether the current code point starts the line or
// follows whitespace.
func atBoundary(c *Cursor) bool {
	prev, ok := c.PeekBehind(1)
	return !ok || unicode.IsSpace(prev)
}

func previousIs(c *Cursor, want rune) bool {
	prev, ok := c.PeekBehind(1)
	return ok && prev == want
}

func hyperlinkAhead(c *Cursor) bool {
	return string(c.PeekAhead(5)) == "ttp:/" || string(c.PeekAhead(6)) == "ttps:/"
}

// slashlinkAhead checks the code point after the slash and the last code point
// of the run up to the next space. Without a following space the whole rest of
// the line is the run. Only U+0020 ends the run, so "/a.\u3000b" still links
// "/a." because the run's last code point is 'b'.
func slashlinkAhead(c *Cursor) bool {
	next := c.PeekAhead(1)
	if len(next) == 0 || !isWordRune(next[0]) {
		return false
	}
	run, found := c.FindAhead(" ", 0)
	if !found {
		run = c.RestFromCurrent()
	}
	last := []rune(run)
	return len(last) > 0 && isWordRune(last[len(last)-1])
}

// wikilinkAhead requires a closing "]]" with no bracket between it and the
// opening "[[".
func wikilinkAhead(c *Cursor) bool {
	next := c.PeekAhead(1)
	if len(next) == 0 || next[0] != '[' {
		return false
	}
	if !strings.Contains(c.RestFromCurrent(), "]]") {
		return false
	}
	inner, found := c.FindAhead("]]", 2)
	return found && !strings.ContainsAny(inner, "[]")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func isKeyRune(r rune) bool {
	return r == '-' || isWordRune(r)
}

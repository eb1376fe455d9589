package subtext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
)

// Fence opens and closes a code block.
const Fence = "```"

// parser carries the block-level state for one document.
type parser struct {
	blocks []Block

	insideCodeFence bool
	justOpenedFence bool
}

// Parse turns a note body into its block sequence. Every input line yields
// one block, except that lines inside a code fence fold into a single Code
// block. Parse accepts any input; an error means the parser itself is broken.
func Parse(text string) (Document, error) {
	p := &parser{}
	for _, line := range SplitLines(text) {
		if p.insideCodeFence {
			if err := p.fenceLine(line); err != nil {
				return nil, err
			}
			continue
		}
		p.blocks = append(p.blocks, p.classify(line))
	}
	return Document(p.blocks), nil
}

// SplitLines normalizes line endings and splits text into lines. The result
// always holds at least one line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func (p *parser) classify(line string) Block {
	if rest, ok := strings.CutPrefix(line, "#"); ok {
		ws, content := splitLeadingSpace(rest)
		return Heading{LeadingWhitespace: ws, Text: Tokenize(content)}
	}
	if key, rest, ok := cutKey(line); ok {
		ws, content := splitLeadingSpace(rest)
		return KeyValuePair{Key: key, LeadingWhitespace: ws, Value: Tokenize(content)}
	}
	if strings.HasPrefix(line, "- ") {
		ws, content := splitLeadingSpace(line[1:])
		return UnorderedListItem{LeadingWhitespace: ws, Text: Tokenize(content)}
	}
	if rest, ok := strings.CutPrefix(line, ">"); ok {
		ws, content := splitLeadingSpace(rest)
		return Quote{LeadingWhitespace: ws, Text: Tokenize(content)}
	}
	if index, rest, ok := cutIndex(line); ok {
		ws, content := splitLeadingSpace(rest)
		return OrderedListItem{Index: index, LeadingWhitespace: ws, Text: Tokenize(content)}
	}
	if rest, ok := strings.CutPrefix(line, Fence); ok {
		ws, _ := splitLeadingSpace(rest)
		p.insideCodeFence = true
		p.justOpenedFence = true
		return Code{ContentType: strings.TrimSpace(rest), LeadingWhitespace: ws}
	}
	if strings.TrimSpace(line) == "" {
		return Empty{RawWhitespace: line}
	}
	return Paragraph{Text: Tokenize(line)}
}

// fenceLine handles a line while a code fence is open.
func (p *parser) fenceLine(line string) error {
	last := len(p.blocks) - 1
	var open Block
	if last >= 0 {
		open = p.blocks[last]
	}
	code, ok := open.(Code)
	if !ok {
		kind := "none"
		if open != nil {
			kind = open.Kind().String()
		}
		return errors.InternalError("open block inside code fence is not a code block").
			WithContext("kind", kind).
			Build()
	}

	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	switch trimmed {
	case Fence:
		p.insideCodeFence = false
		return nil
	case `\` + Fence:
		line = line[1:]
	}

	if p.justOpenedFence {
		p.justOpenedFence = false
	} else {
		code.Code += "\n"
	}
	code.Code += line
	p.blocks[last] = code
	return nil
}

// splitLeadingSpace separates the whitespace run at the start of s.
func splitLeadingSpace(s string) (ws, rest string) {
	i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// cutKey matches "$key" followed by end of line or whitespace. The key is a
// run of letters, marks, digits, '-' and '_'.
func cutKey(line string) (key, rest string, ok bool) {
	body, found := strings.CutPrefix(line, "$")
	if !found {
		return "", "", false
	}
	end := strings.IndexFunc(body, func(r rune) bool { return !isKeyRune(r) })
	switch {
	case end == 0:
		return "", "", false
	case end < 0:
		return body, "", true
	}
	if r, _ := utf8.DecodeRuneInString(body[end:]); !unicode.IsSpace(r) {
		return "", "", false
	}
	return body[:end], body[end:], true
}

// cutIndex matches a run of ASCII digits followed by '.'.
func cutIndex(line string) (index, rest string, ok bool) {
	end := strings.IndexFunc(line, func(r rune) bool { return r < '0' || r > '9' })
	if end <= 0 || line[end] != '.' {
		return "", "", false
	}
	return line[:end], line[end+1:], true
}

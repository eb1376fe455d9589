package subtext

import (
	"strings"
	"unicode"
)

// Format writes a document back to Subtext source.
//
// Documents without code blocks format to exactly the text they were parsed
// from, with line endings normalized to "\n". Code blocks always close with a
// bare fence, and an empty body is written without body lines.
func Format(doc Document) string {
	lines := make([]string, 0, len(doc))
	for _, b := range doc {
		lines = append(lines, formatBlock(b)...)
	}
	return strings.Join(lines, "\n")
}

func formatBlock(b Block) []string {
	switch v := b.(type) {
	case Paragraph:
		return []string{JoinSpans(v.Text)}
	case Heading:
		return []string{"#" + v.LeadingWhitespace + JoinSpans(v.Text)}
	case UnorderedListItem:
		return []string{"-" + v.LeadingWhitespace + JoinSpans(v.Text)}
	case OrderedListItem:
		return []string{v.Index + "." + v.LeadingWhitespace + JoinSpans(v.Text)}
	case Quote:
		return []string{">" + v.LeadingWhitespace + JoinSpans(v.Text)}
	case KeyValuePair:
		return []string{"$" + v.Key + v.LeadingWhitespace + JoinSpans(v.Value)}
	case Empty:
		return []string{v.RawWhitespace}
	case Code:
		return formatCode(v)
	default:
		return nil
	}
}

func formatCode(c Code) []string {
	lines := []string{Fence + c.LeadingWhitespace + c.ContentType}
	if c.Code != "" {
		for _, line := range strings.Split(c.Code, "\n") {
			if strings.TrimRightFunc(line, unicode.IsSpace) == Fence {
				line = `\` + line
			}
			lines = append(lines, line)
		}
	}
	return append(lines, Fence)
}

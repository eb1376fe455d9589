package markdown

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/subtext/internal/subtext"
)

// ToSubtext converts a Markdown body (frontmatter already removed) into
// Subtext source.
//
// Every heading level becomes "#". Nested lists are flattened. Emphasis
// markers are dropped. Links to absolute URLs become the bare URL and
// relative links become wikilinks to the target without its extension.
// HTML blocks are reduced to their text and links; thematic breaks and inline
// HTML tags are dropped. The result is NFC normalized.
func ToSubtext(body []byte) (string, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(body))
	c := &converter{src: body}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		before := len(c.lines)
		c.block(n, "")
		if len(c.lines) > before && n.NextSibling() != nil {
			c.lines = append(c.lines, "")
		}
	}
	if c.err != nil {
		return "", c.err
	}
	for len(c.lines) > 0 && c.lines[len(c.lines)-1] == "" {
		c.lines = c.lines[:len(c.lines)-1]
	}
	return norm.NFC.String(strings.Join(c.lines, "\n")), nil
}

type converter struct {
	src   []byte
	lines []string
	err   error
}

func (c *converter) emit(prefix, line string) {
	c.lines = append(c.lines, prefix+line)
}

func (c *converter) block(n gmast.Node, prefix string) {
	switch node := n.(type) {
	case *gmast.Heading:
		c.emit(prefix, "# "+c.inline(node))
	case *gmast.Paragraph, *gmast.TextBlock:
		if s := c.inline(node); s != "" {
			c.emit(prefix, s)
		}
	case *gmast.List:
		index := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "- "
			if node.IsOrdered() {
				marker = strconv.Itoa(index) + ". "
				index++
			}
			c.listItem(item, prefix, marker)
		}
	case *gmast.Blockquote:
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			c.block(child, prefix+"> ")
		}
	case *gmast.FencedCodeBlock:
		c.code(node, prefix, string(node.Language(c.src)))
	case *gmast.CodeBlock:
		c.code(node, prefix, "")
	case *gmast.HTMLBlock:
		c.htmlBlock(node, prefix)
	case *gmast.ThematicBreak:
	default:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			c.block(child, prefix)
		}
	}
}

func (c *converter) listItem(item gmast.Node, prefix, marker string) {
	first := true
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *gmast.Paragraph, *gmast.TextBlock:
			s := c.inline(child)
			if first {
				c.emit(prefix, marker+s)
				first = false
				continue
			}
			if s != "" {
				c.emit(prefix, s)
			}
		default:
			if first {
				c.emit(prefix, strings.TrimRight(marker, " "))
				first = false
			}
			c.block(child, prefix)
		}
	}
	if first {
		c.emit(prefix, strings.TrimRight(marker, " "))
	}
}

func (c *converter) code(n gmast.Node, prefix, lang string) {
	c.emit(prefix, subtext.Fence+lang)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(c.src)), "\r\n")
		if strings.TrimRightFunc(line, isSpace) == subtext.Fence {
			line = `\` + line
		}
		c.emit(prefix, line)
	}
	c.emit(prefix, subtext.Fence)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// inline flattens the inline children of n to one line.
func (c *converter) inline(n gmast.Node) string {
	var b strings.Builder
	c.writeInline(&b, n)
	return strings.TrimSpace(b.String())
}

func (c *converter) writeInline(b *strings.Builder, n gmast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(c.src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(node.Value)
		case *gmast.CodeSpan:
			b.WriteByte('`')
			c.writeInline(b, node)
			b.WriteByte('`')
		case *gmast.AutoLink:
			b.Write(node.URL(c.src))
		case *gmast.Link:
			b.WriteString(linkText(string(node.Destination), c.label(node)))
		case *gmast.Image:
			b.WriteString(linkText(string(node.Destination), c.label(node)))
		case *gmast.RawHTML:
		default:
			c.writeInline(b, node)
		}
	}
}

func (c *converter) label(n gmast.Node) string {
	var b strings.Builder
	c.writeInline(&b, n)
	return strings.TrimSpace(b.String())
}

// linkText renders a link: absolute destinations as the bare URL, relative
// ones as a wikilink. An empty target falls back to the label.
func linkText(dest, label string) string {
	if isAbsolute(dest) {
		return dest
	}
	target := WikiTarget(dest)
	if target == "" {
		target = label
	}
	if target == "" || strings.ContainsAny(target, "[]") {
		return target
	}
	return "[[" + target + "]]"
}

func isAbsolute(dest string) bool {
	scheme, _, ok := strings.Cut(dest, "://")
	if !ok || scheme == "" {
		return strings.HasPrefix(dest, "mailto:")
	}
	for _, r := range scheme {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}

// WikiTarget turns a relative Markdown link destination into a note name:
// fragment, query and extension are dropped, as are leading "./" segments.
func WikiTarget(dest string) string {
	dest, _, _ = strings.Cut(dest, "#")
	dest, _, _ = strings.Cut(dest, "?")
	dest = strings.TrimPrefix(dest, "./")
	if i := strings.LastIndex(dest, "."); i > strings.LastIndex(dest, "/") && i > 0 {
		dest = dest[:i]
	}
	return strings.TrimSuffix(dest, "/")
}

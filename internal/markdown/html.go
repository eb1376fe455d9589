package markdown

import (
	"bytes"
	"errors"
	"io"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"
)

// blockTags start a new line when reducing an HTML block to text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

func (c *converter) htmlBlock(n *gmast.HTMLBlock, prefix string) {
	var raw bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw.Write(seg.Value(c.src))
	}
	if n.HasClosure() {
		raw.Write(n.ClosureLine.Value(c.src))
	}

	out, err := htmlText(raw.Bytes())
	if err != nil {
		c.err = err
		return
	}
	for _, line := range out {
		c.emit(prefix, line)
	}
}

// htmlText reduces an HTML fragment to lines of text. Anchors become links
// the same way Markdown links do; comments, scripts and styles are dropped.
func htmlText(raw []byte) ([]string, error) {
	z := html.NewTokenizer(bytes.NewReader(raw))

	var (
		lines []string
		cur   strings.Builder
		label strings.Builder
		href  string
		inA   bool
		skip  int
	)
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			flush()
			return lines, nil
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if inA {
				label.Write(z.Text())
			} else {
				cur.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if tt == html.StartTagToken {
					skip++
				}
			case tag == "a" && tt == html.StartTagToken:
				inA, href = true, ""
				label.Reset()
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						href = string(val)
					}
				}
			case blockTags[tag]:
				flush()
			case tag == "td" || tag == "th":
				cur.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if skip > 0 {
					skip--
				}
			case tag == "a" && inA:
				inA = false
				text := strings.Join(strings.Fields(label.String()), " ")
				if href != "" {
					text = linkText(href, text)
				}
				cur.WriteString(" " + text + " ")
			case blockTags[tag]:
				flush()
			}
		}
	}
}

package subtext

import "fmt"

// BlockKind classifies a line-aligned unit of a document.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindUnorderedListItem
	KindOrderedListItem
	KindCode
	KindQuote
	KindKeyValuePair
	KindEmpty
)

var blockKindNames = map[BlockKind]string{
	KindParagraph:         "paragraph",
	KindHeading:           "heading",
	KindUnorderedListItem: "unordered-list-item",
	KindOrderedListItem:   "ordered-list-item",
	KindCode:              "code",
	KindQuote:             "quote",
	KindKeyValuePair:      "key-value-pair",
	KindEmpty:             "empty",
}

func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// MarshalText encodes the kind with its wire name.
func (k BlockKind) MarshalText() ([]byte, error) {
	name, ok := blockKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown block kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a wire name into a kind.
func (k *BlockKind) UnmarshalText(text []byte) error {
	for kind, name := range blockKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown block type %q", text)
}

// Block is one of the concrete block types below. The set is closed.
type Block interface {
	Kind() BlockKind
	isBlock()
}

// Paragraph is a line with no recognised sigil.
type Paragraph struct {
	Text []Span
}

// Heading is a line starting with "#".
type Heading struct {
	LeadingWhitespace string
	Text              []Span
}

// UnorderedListItem is a line starting with "- ".
type UnorderedListItem struct {
	LeadingWhitespace string
	Text              []Span
}

// OrderedListItem is a line starting with digits and a dot. Index holds the
// digits exactly as written.
type OrderedListItem struct {
	Index             string
	LeadingWhitespace string
	Text              []Span
}

// Quote is a line starting with ">".
type Quote struct {
	LeadingWhitespace string
	Text              []Span
}

// KeyValuePair is a line of the form "$key value".
type KeyValuePair struct {
	Key               string
	LeadingWhitespace string
	Value             []Span
}

// Code is a fenced block. Code holds the body lines joined by "\n" with
// escaped fences already unescaped.
type Code struct {
	ContentType       string
	LeadingWhitespace string
	Code              string
}

// Empty is a zero-length or whitespace-only line.
type Empty struct {
	RawWhitespace string
}

func (Paragraph) Kind() BlockKind         { return KindParagraph }
func (Heading) Kind() BlockKind           { return KindHeading }
func (UnorderedListItem) Kind() BlockKind { return KindUnorderedListItem }
func (OrderedListItem) Kind() BlockKind   { return KindOrderedListItem }
func (Quote) Kind() BlockKind             { return KindQuote }
func (KeyValuePair) Kind() BlockKind      { return KindKeyValuePair }
func (Code) Kind() BlockKind              { return KindCode }
func (Empty) Kind() BlockKind             { return KindEmpty }

func (Paragraph) isBlock()         {}
func (Heading) isBlock()           {}
func (UnorderedListItem) isBlock() {}
func (OrderedListItem) isBlock()   {}
func (Quote) isBlock()             {}
func (KeyValuePair) isBlock()      {}
func (Code) isBlock()              {}
func (Empty) isBlock()             {}

// Spans returns the tokenized text of a block: Text for most kinds, Value for
// key-value pairs, nil for code and empty blocks.
func Spans(b Block) []Span {
	switch v := b.(type) {
	case Paragraph:
		return v.Text
	case Heading:
		return v.Text
	case UnorderedListItem:
		return v.Text
	case OrderedListItem:
		return v.Text
	case Quote:
		return v.Text
	case KeyValuePair:
		return v.Value
	default:
		return nil
	}
}

// Document is the ordered block sequence of one parsed note body.
type Document []Block

// Links returns the hyperlink, slashlink and wikilink spans of the document
// in order of appearance.
func (d Document) Links() []Span {
	var links []Span
	for _, b := range d {
		for _, s := range Spans(b) {
			if s.IsLink() {
				links = append(links, s)
			}
		}
	}
	return links
}

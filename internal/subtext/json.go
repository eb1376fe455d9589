package subtext

import (
	"encoding/json"
	"fmt"
)

// wireBlock is the serialized envelope of a block: its type name and a
// kind-specific data object.
type wireBlock struct {
	Type BlockKind       `json:"type"`
	Data json.RawMessage `json:"data"`
}

type textData struct {
	Whitespace string `json:"whitespace"`
	Text       []Span `json:"text"`
}

type paragraphData struct {
	Text []Span `json:"text"`
}

type orderedData struct {
	Index      string `json:"index"`
	Whitespace string `json:"whitespace"`
	Text       []Span `json:"text"`
}

type keyValueData struct {
	Key        string `json:"key"`
	Whitespace string `json:"whitespace"`
	Value      []Span `json:"value"`
}

type codeData struct {
	ContentType string `json:"contentType"`
	Whitespace  string `json:"whitespace"`
	Code        string `json:"code"`
}

type emptyData struct {
	Whitespace string `json:"whitespace"`
}

// MarshalBlock encodes a single block in its wire form.
func MarshalBlock(b Block) ([]byte, error) {
	var data any
	switch v := b.(type) {
	case Paragraph:
		data = paragraphData{Text: nonNil(v.Text)}
	case Heading:
		data = textData{Whitespace: v.LeadingWhitespace, Text: nonNil(v.Text)}
	case UnorderedListItem:
		data = textData{Whitespace: v.LeadingWhitespace, Text: nonNil(v.Text)}
	case Quote:
		data = textData{Whitespace: v.LeadingWhitespace, Text: nonNil(v.Text)}
	case OrderedListItem:
		data = orderedData{Index: v.Index, Whitespace: v.LeadingWhitespace, Text: nonNil(v.Text)}
	case KeyValuePair:
		data = keyValueData{Key: v.Key, Whitespace: v.LeadingWhitespace, Value: nonNil(v.Value)}
	case Code:
		data = codeData{ContentType: v.ContentType, Whitespace: v.LeadingWhitespace, Code: v.Code}
	case Empty:
		data = emptyData{Whitespace: v.RawWhitespace}
	default:
		return nil, fmt.Errorf("unsupported block %T", b)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireBlock{Type: b.Kind(), Data: raw})
}

// UnmarshalBlock decodes a single block from its wire form.
func UnmarshalBlock(raw []byte) (Block, error) {
	var w wireBlock
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	if len(w.Data) == 0 {
		w.Data = json.RawMessage("{}")
	}

	decode := func(v any) error {
		if err := json.Unmarshal(w.Data, v); err != nil {
			return fmt.Errorf("decode %s data: %w", w.Type, err)
		}
		return nil
	}

	switch w.Type {
	case KindParagraph:
		var d paragraphData
		if err := decode(&d); err != nil {
			return nil, err
		}
		return Paragraph{Text: nonNil(d.Text)}, nil
	case KindHeading, KindUnorderedListItem, KindQuote:
		var d textData
		if err := decode(&d); err != nil {
			return nil, err
		}
		switch w.Type {
		case KindHeading:
			return Heading{LeadingWhitespace: d.Whitespace, Text: nonNil(d.Text)}, nil
		case KindUnorderedListItem:
			return UnorderedListItem{LeadingWhitespace: d.Whitespace, Text: nonNil(d.Text)}, nil
		default:
			return Quote{LeadingWhitespace: d.Whitespace, Text: nonNil(d.Text)}, nil
		}
	case KindOrderedListItem:
		var d orderedData
		if err := decode(&d); err != nil {
			return nil, err
		}
		return OrderedListItem{Index: d.Index, LeadingWhitespace: d.Whitespace, Text: nonNil(d.Text)}, nil
	case KindKeyValuePair:
		var d keyValueData
		if err := decode(&d); err != nil {
			return nil, err
		}
		return KeyValuePair{Key: d.Key, LeadingWhitespace: d.Whitespace, Value: nonNil(d.Value)}, nil
	case KindCode:
		var d codeData
		if err := decode(&d); err != nil {
			return nil, err
		}
		return Code{ContentType: d.ContentType, LeadingWhitespace: d.Whitespace, Code: d.Code}, nil
	case KindEmpty:
		var d emptyData
		if err := decode(&d); err != nil {
			return nil, err
		}
		return Empty{RawWhitespace: d.Whitespace}, nil
	default:
		return nil, fmt.Errorf("unsupported block type %s", w.Type)
	}
}

// MarshalJSON encodes the document as a JSON array of blocks.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(d))
	for i, b := range d {
		raw, err := MarshalBlock(b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a JSON array of blocks.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	doc := make(Document, 0, len(raws))
	for i, raw := range raws {
		b, err := UnmarshalBlock(raw)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		doc = append(doc, b)
	}
	*d = doc
	return nil
}

func nonNil(spans []Span) []Span {
	if spans == nil {
		return []Span{}
	}
	return spans
}

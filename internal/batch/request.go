package batch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
	"git.home.luguber.info/inful/subtext/internal/subtext"
)

// ActionParseNotes is the only action a batch request may carry.
const ActionParseNotes = "PARSE_NOTES"

// Note is one input document. ID is opaque and is passed through unchanged.
type Note struct {
	ID      json.RawMessage `json:"id"`
	Content string          `json:"content"`
}

// Request is the PARSE_NOTES message.
type Request struct {
	Action string `json:"action"`
	Notes  []Note `json:"notes"`
}

// Result is the parsed form of one Note. Error is only set when per-item
// isolation is enabled and the note could not be parsed.
type Result struct {
	ID            json.RawMessage  `json:"id"`
	ParsedContent subtext.Document `json:"parsedContent"`
	Error         string           `json:"error,omitempty"`
}

type rawRequest struct {
	Action string          `json:"action"`
	Notes  json.RawMessage `json:"notes"`
}

// DecodeRequest validates and decodes a PARSE_NOTES payload. A notes field
// that is not an array fails with a validation error naming the received
// type. An empty action is treated as PARSE_NOTES.
func DecodeRequest(payload []byte) (Request, error) {
	var raw rawRequest
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Request{}, errors.WrapError(err, errors.CategoryValidation, "invalid batch request").
			WithContext("received", jsonType(payload)).
			Build()
	}
	if raw.Action != "" && raw.Action != ActionParseNotes {
		return Request{}, errors.ValidationError(fmt.Sprintf("Unsupported action %q.", raw.Action)).
			WithContext("action", raw.Action).
			Build()
	}

	notes, err := DecodeNotes(raw.Notes)
	if err != nil {
		return Request{}, err
	}
	return Request{Action: ActionParseNotes, Notes: notes}, nil
}

// DecodeNotes decodes the notes array of a request.
func DecodeNotes(raw json.RawMessage) ([]Note, error) {
	if typ := jsonType(raw); typ != "array" {
		return nil, errors.ValidationError(fmt.Sprintf("Expected an array of notes, received %s instead.", typ)).
			WithContext("received", typ).
			Build()
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid notes array").Build()
	}
	notes := make([]Note, 0, len(items))
	for i, item := range items {
		if typ := jsonType(item); typ != "object" {
			return nil, errors.ValidationError(fmt.Sprintf("Expected a note object at index %d, received %s instead.", i, typ)).
				WithContext("index", i).
				Build()
		}
		var n Note
		if err := json.Unmarshal(item, &n); err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, fmt.Sprintf("invalid note at index %d", i)).
				WithContext("index", i).
				Build()
		}
		if n.ID == nil {
			n.ID = json.RawMessage("null")
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// EncodeResults renders results as the response array.
func EncodeResults(results []Result) ([]byte, error) {
	if results == nil {
		results = []Result{}
	}
	return json.Marshal(results)
}

// jsonType names the JSON type of a raw value the way a JavaScript caller
// would see it. A missing value is "undefined".
func jsonType(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "undefined"
	}
	switch raw[0] {
	case '[':
		return "array"
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

package batch

import (
	"git.home.luguber.info/inful/subtext/internal/subtext"
)

// Parse runs the block parser over every note in order and returns one
// Result per note. It stops at the first parser failure.
func Parse(notes []Note) ([]Result, error) {
	results := make([]Result, len(notes))
	for i, n := range notes {
		doc, err := subtext.Parse(n.Content)
		if err != nil {
			return nil, err
		}
		results[i] = Result{ID: n.ID, ParsedContent: doc}
	}
	return results, nil
}

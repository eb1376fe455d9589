package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
	"git.home.luguber.info/inful/subtext/internal/subtext"
)

// FormatCmd implements the 'format' command.
type FormatCmd struct {
	Input    string `arg:"" optional:"" default:"-" help:"Block JSON document; stdin when '-'"`
	FromText bool   `short:"t" help:"Read Subtext text instead of JSON and write it back in canonical form"`
}

func (f *FormatCmd) Run(g *Global, _ *CLI) error {
	content, err := readInput(g, f.Input)
	if err != nil {
		return err
	}

	var doc subtext.Document
	if f.FromText {
		doc, err = subtext.Parse(string(content))
		if err != nil {
			return err
		}
	} else if err := json.Unmarshal(content, &doc); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid block JSON document").Build()
	}

	text := subtext.Format(doc)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = fmt.Fprint(g.out(), text)
	return err
}

package commands

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"git.home.luguber.info/inful/subtext/internal/batch"
	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
	"git.home.luguber.info/inful/subtext/internal/subtext"
)

// ParseCmd implements the 'parse' command.
type ParseCmd struct {
	Files  []string `arg:"" optional:"" help:"Subtext files to parse; stdin when omitted or '-'"`
	Indent bool     `short:"i" help:"Indent the JSON output"`
}

func (p *ParseCmd) Run(g *Global, root *CLI) error {
	if len(p.Files) <= 1 {
		name := "-"
		if len(p.Files) == 1 {
			name = p.Files[0]
		}
		content, err := readInput(g, name)
		if err != nil {
			return err
		}
		doc, err := subtext.Parse(string(content))
		if err != nil {
			return err
		}
		return writeJSON(g.out(), doc, p.Indent)
	}

	notes := make([]batch.Note, 0, len(p.Files))
	for _, f := range p.Files {
		content, err := readInput(g, f)
		if err != nil {
			return err
		}
		id, _ := json.Marshal(f)
		notes = append(notes, batch.Note{ID: id, Content: string(content)})
	}
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	results, err := newDispatcher(cfg, nil).Dispatch(context.Background(), notes)
	if err != nil {
		return err
	}
	return writeJSON(g.out(), results, p.Indent)
}

func readInput(g *Global, name string) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if name == "-" || name == "" {
		b, err = io.ReadAll(g.in())
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read input").
			WithContext("path", name).
			Build()
	}
	return b, nil
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

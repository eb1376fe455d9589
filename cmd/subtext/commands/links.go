package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/subtext/internal/subtext"
	"git.home.luguber.info/inful/subtext/internal/util/sets"
)

// LinksCmd implements the 'links' command.
type LinksCmd struct {
	Files []string `arg:"" optional:"" help:"Subtext files; stdin when omitted"`
	Kind  []string `short:"k" help:"Only list these link kinds (HYPERLINK, SLASHLINK, WIKILINK)"`
}

func (l *LinksCmd) Run(g *Global, _ *CLI) error {
	files := l.Files
	if len(files) == 0 {
		files = []string{"-"}
	}
	want := sets.New(l.Kind...)

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	for _, f := range files {
		content, err := readInput(g, f)
		if err != nil {
			return err
		}
		doc, err := subtext.Parse(string(content))
		if err != nil {
			return err
		}
		for _, link := range doc.Links() {
			if len(want) > 0 && !want.Has(link.Kind.String()) {
				continue
			}
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", f, link.Kind, link.Text); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

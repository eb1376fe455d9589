package commands

import (
	"fmt"

	"git.home.luguber.info/inful/subtext/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite an existing configuration file"`
	Output string `short:"o" help:"Where to write the configuration (defaults to --config)"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := i.Output
	if path == "" {
		path = root.Config
	}
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	_, err := fmt.Fprintf(g.out(), "Wrote %s\n", path)
	return err
}

package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/subtext/internal/index"
)

// IndexCmd implements the 'index' command.
type IndexCmd struct {
	Dir string `help:"Override the notes directory from config"`
}

func (i *IndexCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if i.Dir != "" {
		cfg.Notes.Dir = i.Dir
		cfg.Notes.Git.Repo = ""
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src := index.SourceFromConfig(cfg.Notes)
	sum, err := rt.indexer.Run(ctx, src)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.out(), "%s: %d indexed, %d unchanged, %d removed, %d failed\n",
		src.Describe(), sum.Indexed, sum.Unchanged, sum.Removed, sum.Failed)
	return err
}

package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/subtext/internal/daemon"
	"git.home.luguber.info/inful/subtext/internal/index"
	"git.home.luguber.info/inful/subtext/internal/worker"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr    string `help:"Override the HTTP listen address"`
	NoWatch bool   `name:"no-watch" help:"Disable watching the notes directory"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Daemon.HTTPAddr = s.Addr
	}
	if s.NoWatch {
		cfg.Daemon.Watch = false
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	deps := daemon.Deps{
		Store:      rt.store,
		Dispatcher: rt.dispatcher,
		Indexer:    rt.indexer,
		Source:     index.SourceFromConfig(cfg.Notes),
		Registry:   rt.registry,
		Logger:     slog.Default(),
	}
	if rt.conn != nil {
		deps.Worker = worker.New(rt.conn, rt.dispatcher, cfg.NATS.Subject, cfg.NATS.Queue, cfg.NATS.Timeout, slog.Default())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return daemon.New(cfg, deps).Run(ctx)
}

package commands

import (
	"context"
	"encoding/json"

	"git.home.luguber.info/inful/subtext/internal/retry"
	"git.home.luguber.info/inful/subtext/internal/worker"
)

// BatchCmd implements the 'batch' command.
type BatchCmd struct {
	Input  string `arg:"" optional:"" default:"-" help:"PARSE_NOTES request file; stdin when '-'"`
	Remote bool   `help:"Send the request to a NATS worker instead of parsing locally"`
	Indent bool   `short:"i" help:"Indent the JSON output"`
}

func (b *BatchCmd) Run(g *Global, root *CLI) error {
	payload, err := readInput(g, b.Input)
	if err != nil {
		return err
	}
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if b.Remote {
		conn, err := worker.Connect(cfg.NATS)
		if err != nil {
			return err
		}
		defer conn.Close()
		client := worker.NewClient(conn, cfg.NATS.Subject, cfg.NATS.Timeout).
			WithRetry(retry.NewPolicy(retry.BackoffExponential, cfg.NATS.RetryBackoff, cfg.NATS.Timeout, cfg.NATS.Retries))
		results, err := client.Request(ctx, payload)
		if err != nil {
			return err
		}
		return writeJSON(g.out(), results, b.Indent)
	}

	out, err := newDispatcher(cfg, nil).HandlePayload(ctx, payload)
	if err != nil {
		return err
	}
	return writeJSON(g.out(), json.RawMessage(out), b.Indent)
}

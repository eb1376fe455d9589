package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/subtext/internal/config"
	"git.home.luguber.info/inful/subtext/internal/observability"
)

// Global carries process-wide state into every command.
type Global struct {
	Out io.Writer
	In  io.Reader
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) in() io.Reader {
	if g == nil || g.In == nil {
		return os.Stdin
	}
	return g.In
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"subtext.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Parse  ParseCmd  `cmd:"" help:"Parse Subtext files (or stdin) and print the block JSON"`
	Batch  BatchCmd  `cmd:"" help:"Run a PARSE_NOTES request from a file or stdin"`
	Format FormatCmd `cmd:"" help:"Write a block JSON document (or Subtext text) back as Subtext"`
	Links  LinksCmd  `cmd:"" help:"List hyperlinks, slashlinks and wikilinks in Subtext files"`
	Import ImportCmd `cmd:"" help:"Convert Markdown files into Subtext"`
	Index  IndexCmd  `cmd:"" help:"Parse the configured notes into the document store"`
	Serve  ServeCmd  `cmd:"" help:"Run the daemon: HTTP API, NATS worker, watcher and scheduled reindex"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once. The configured
// logging section applies when the config file loads; -v always wins.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	format := config.LogFormatText
	if cfg, err := c.peekConfig(); err == nil {
		level = cfg.Logging.Level.SlogLevel()
		format = cfg.Logging.Format
	}
	if c.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(observability.NewContextHandler(handler)))
	return nil
}

// peekConfig reads only the logging section without side effects.
func (c *CLI) peekConfig() (*config.Config, error) {
	data, err := os.ReadFile(c.Config)
	if err != nil {
		return nil, err
	}
	cfg := &config.Config{}
	if err := config.Parse(data, cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	config.ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfig loads and validates the configuration named by --config.
func (c *CLI) LoadConfig() (*config.Config, error) {
	return config.Load(c.Config)
}

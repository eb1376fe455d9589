package config

import "time"

// Defaults returns a configuration with every field at its default.
func Defaults() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}

	if cfg.Notes.Dir == "" {
		cfg.Notes.Dir = "./notes"
	}
	if len(cfg.Notes.Extensions) == 0 {
		cfg.Notes.Extensions = []string{".subtext", ".txt"}
	}
	if cfg.Notes.Git.Repo != "" && cfg.Notes.Git.Revision == "" {
		cfg.Notes.Git.Revision = "HEAD"
	}

	if cfg.Parser.Concurrency == 0 {
		cfg.Parser.Concurrency = 4
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = "./subtext.db"
	}

	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://127.0.0.1:4222"
	}
	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = "subtext.parse"
	}
	if cfg.NATS.Queue == "" {
		cfg.NATS.Queue = "subtext-workers"
	}
	if cfg.NATS.EventsSubject == "" {
		cfg.NATS.EventsSubject = "subtext.note.parsed"
	}
	if cfg.NATS.Timeout == 0 {
		cfg.NATS.Timeout = 5 * time.Second
	}
	if cfg.NATS.RetryBackoff == 0 {
		cfg.NATS.RetryBackoff = 100 * time.Millisecond
	}

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9464"
	}

	if cfg.Daemon.HTTPAddr == "" {
		cfg.Daemon.HTTPAddr = ":8080"
	}
	if cfg.Daemon.Debounce == 0 {
		cfg.Daemon.Debounce = 500 * time.Millisecond
	}
	if cfg.Daemon.ReindexInterval == 0 {
		cfg.Daemon.ReindexInterval = 15 * time.Minute
	}
}

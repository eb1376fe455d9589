package config

import (
	"fmt"
	"net/url"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
)

// Validate checks bounds and required fields after defaults are applied.
func Validate(cfg *Config) error {
	if cfg.Parser.Concurrency < 1 {
		return invalid("parser.concurrency", fmt.Sprintf("must be at least 1, got %d", cfg.Parser.Concurrency))
	}
	if cfg.Store.Path == "" {
		return invalid("store.path", "must not be empty")
	}
	if cfg.NATS.Enabled {
		u, err := url.Parse(cfg.NATS.URL)
		if err != nil || u.Host == "" {
			return invalid("nats.url", fmt.Sprintf("invalid url %q", cfg.NATS.URL))
		}
		if cfg.NATS.Subject == "" {
			return invalid("nats.subject", "must not be empty")
		}
		if cfg.NATS.Timeout < 0 {
			return invalid("nats.timeout", "must not be negative")
		}
		if cfg.NATS.Retries < 0 {
			return invalid("nats.retries", "must not be negative")
		}
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return invalid("metrics.addr", "must not be empty")
	}
	if cfg.Daemon.Debounce < 0 {
		return invalid("daemon.debounce", "must not be negative")
	}
	if cfg.Daemon.ReindexInterval < 0 {
		return invalid("daemon.reindex_interval", "must not be negative")
	}
	return nil
}

func invalid(field, reason string) error {
	return errors.ConfigError(fmt.Sprintf("invalid %s: %s", field, reason)).
		WithContext("field", field).
		Build()
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
)

// DefaultPath is where the CLI looks for a configuration file.
const DefaultPath = "subtext.yaml"

// Config is the complete subtext service configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Notes   NotesConfig   `yaml:"notes"`
	Parser  ParserConfig  `yaml:"parser"`
	Store   StoreConfig   `yaml:"store"`
	NATS    NATSConfig    `yaml:"nats"`
	Metrics MetricsConfig `yaml:"metrics"`
	Daemon  DaemonConfig  `yaml:"daemon"`
}

// LoggingConfig controls the slog handler installed by the CLI.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// NotesConfig says where notes are read from. When Git.Repo is set, notes are
// read from that repository's revision instead of Dir.
type NotesConfig struct {
	Dir        string    `yaml:"dir"`
	Extensions []string  `yaml:"extensions"`
	Git        GitSource `yaml:"git"`
}

// GitSource selects a revision of a local git repository.
type GitSource struct {
	Repo     string `yaml:"repo,omitempty"`
	Revision string `yaml:"revision,omitempty"`
}

// ParserConfig tunes the batch dispatcher.
type ParserConfig struct {
	Concurrency     int  `yaml:"concurrency"`
	IsolateFailures bool `yaml:"isolate_failures"`
}

// StoreConfig locates the SQLite document store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// NATSConfig configures the PARSE_NOTES worker and event publishing.
type NATSConfig struct {
	Enabled       bool          `yaml:"enabled"`
	URL           string        `yaml:"url"`
	Subject       string        `yaml:"subject"`
	Queue         string        `yaml:"queue"`
	EventsSubject string        `yaml:"events_subject"`
	Timeout       time.Duration `yaml:"timeout"`

	// Retries is how often a client request is repeated after a transient
	// failure such as no responders or a timeout.
	Retries      int           `yaml:"retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// DaemonConfig configures serve mode.
type DaemonConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	Watch           bool          `yaml:"watch"`
	Debounce        time.Duration `yaml:"debounce"`
	ReindexInterval time.Duration `yaml:"reindex_interval"`
}

// UsesGit reports whether notes come from a git revision.
func (n NotesConfig) UsesGit() bool {
	return n.Git.Repo != ""
}

// Load reads, normalizes, defaults and validates a configuration file.
// A missing file at DefaultPath is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && path == DefaultPath:
		slog.Debug("No configuration file, using defaults", "path", path)
	case err != nil:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration file").
			WithContext("path", path).
			Build()
	default:
		if err := Parse(data, cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration file").
				WithContext("path", path).
				Build()
		}
	}

	for _, w := range Normalize(cfg) {
		slog.Warn("Config normalization", "warning", w)
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse expands ${VAR} references and decodes YAML into cfg.
func Parse(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("path", path).
			Build()
	}

	example := Defaults()
	example.NATS.URL = "${NATS_URL}"
	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file").
			WithContext("path", path).
			Build()
	}
	return nil
}

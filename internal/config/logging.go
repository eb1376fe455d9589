package config

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/subtext/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// SlogLevel maps the level onto slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// Normalize canonicalizes enumerated fields in place and returns a warning
// for every value it had to change.
func Normalize(cfg *Config) []string {
	var warnings []string
	if raw := string(cfg.Logging.Level); raw != "" {
		lvl, ok := logLevelNormalizer.Lookup(raw)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown logging.level '%s', defaulting to %s", raw, LogLevelInfo))
			lvl = LogLevelInfo
		} else if lvl != cfg.Logging.Level {
			warnings = append(warnings, fmt.Sprintf("normalized logging.level from '%s' to '%s'", raw, lvl))
		}
		cfg.Logging.Level = lvl
	}
	if raw := string(cfg.Logging.Format); raw != "" {
		f, ok := logFormatNormalizer.Lookup(raw)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown logging.format '%s', defaulting to %s", raw, LogFormatText))
			f = LogFormatText
		} else if f != cfg.Logging.Format {
			warnings = append(warnings, fmt.Sprintf("normalized logging.format from '%s' to '%s'", raw, f))
		}
		cfg.Logging.Format = f
	}
	for i, ext := range cfg.Notes.Extensions {
		if ext != "" && ext[0] != '.' {
			cfg.Notes.Extensions[i] = "." + ext
		}
	}
	return warnings
}

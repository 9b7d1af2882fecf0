// Package log builds the slog loggers used by FirstEngine hosts and replays
// log records sent by wasm guests.
package log

import (
	"fmt"
	"io"
	"log/slog"

	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
)

// HandlerOption configures the logger built by New.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Level
	addSource bool
	json      bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithJSON switches from logfmt-style text output to JSON lines.
func WithJSON(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.json = enabled
	}
}

// New creates a logger writing to w.
func New(w io.Writer, opts ...HandlerOption) *slog.Logger {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ho := &slog.HandlerOptions{Level: cfg.level, AddSource: cfg.addSource}
	if cfg.json {
		return slog.New(slog.NewJSONHandler(w, ho))
	}
	return slog.New(slog.NewTextHandler(w, ho))
}

// Configure creates a logger from the level and format strings of a
// configuration file. Format is "text" or "json"; empty means text.
func Configure(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	switch format {
	case "", "text":
		return New(w, WithLevel(lvl)), nil
	case "json":
		return New(w, WithLevel(lvl), WithJSON(true)), nil
	default:
		return nil, &bterrors.ConfigError{Field: "log.format", Err: fmt.Errorf("unknown format %q", format)}
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" (any case, with an
// optional "+N"/"-N" offset as printed by slog) to a level. Empty is info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, &bterrors.ConfigError{Field: "log.level", Err: err}
	}
	return l, nil
}

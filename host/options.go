package host

import (
	"log/slog"

	"github.com/liangz0707/FirstEngine/hostfuncs"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithRegistry sets the module exported to guests. Defaults to the stock
// firstengine module with panic recovery.
func WithRegistry(registry *hostfuncs.Registry) Option {
	return func(e *Executor) {
		e.registry = registry
	}
}

// WithLogger sets the logger receiving executor diagnostics and guest
// log_message records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithWASI enables or disables the wasi_snapshot_preview1 host module.
// Enabled by default.
func WithWASI(enabled bool) Option {
	return func(e *Executor) {
		e.wasi = enabled
	}
}

// WithOutputLimit bounds the stdout and stderr kept per guest. Defaults to
// DefaultMaxOutputSize.
func WithOutputLimit(limit int) Option {
	return func(e *Executor) {
		if limit > 0 {
			e.output = limit
		}
	}
}

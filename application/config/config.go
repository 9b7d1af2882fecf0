// Package config provides the configuration of a FirstEngine boundary: which
// module to load, which operations to export, size limits and logging.
package config

import (
	"github.com/liangz0707/FirstEngine/application/validation"
	"github.com/liangz0707/FirstEngine/domain/entities"
	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/hostfuncs"
	"gopkg.in/yaml.v3"
)

// Config represents boundary configuration settings.
type Config struct {
	// Module is the name of the native module to load.
	Module string `json:"module" yaml:"module" validate:"required"`

	// Doc overrides the module docstring.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Version is the expected module version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Exports are doublestar patterns selecting the exported operations.
	Exports []string `json:"exports" yaml:"exports" validate:"min=1,dive,required,glob"`

	Limits LimitsConfig `json:"limits" yaml:"limits"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// LimitsConfig bounds the values crossing the boundary. Zero selects the
// default limit.
type LimitsConfig struct {
	MaxSequenceLength int    `json:"max_sequence_length" yaml:"max_sequence_length" validate:"gte=0"`
	MaxRequestSize    uint32 `json:"max_request_size" yaml:"max_request_size"`
}

// LogConfig selects the logger built by the log package.
type LogConfig struct {
	// Level is the logging verbosity level (e.g., "debug", "info", "warn", "error").
	Level string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`

	// Format is "text" or "json".
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration of the stock firstengine module with
// every operation exported.
func Default() Config {
	limits := hostfuncs.DefaultLimits()
	return Config{
		Module:  hostfuncs.ModuleName,
		Exports: []string{"**"},
		Limits: LimitsConfig{
			MaxSequenceLength: limits.MaxSequenceLength,
			MaxRequestSize:    limits.MaxRequestSize,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Option is a functional option for configuring boundary settings.
type Option func(*Config)

// WithModule selects the module to load.
func WithModule(name string) Option {
	return func(c *Config) {
		c.Module = name
	}
}

// WithExports replaces the export patterns.
func WithExports(patterns ...string) Option {
	return func(c *Config) {
		c.Exports = patterns
	}
}

// WithMaxSequenceLength sets the longest sequence or mapping accepted.
func WithMaxSequenceLength(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.Limits.MaxSequenceLength = n
		}
	}
}

// WithLogLevel sets the logging verbosity level.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.Log.Level = level
	}
}

// New creates a new Config with the given options.
func New(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Load parses YAML over the defaults and validates the result. Keys absent
// from data keep their default values.
func Load(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &bterrors.ConfigError{Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field and returns the first failure as a
// *errors.ConfigError.
func (c Config) Validate() error {
	return validation.Struct(c)
}

// Manifest returns the module manifest described by c.
func (c Config) Manifest() *entities.ModuleManifest {
	return &entities.ModuleManifest{
		Module:  c.Module,
		Version: c.Version,
		Doc:     c.Doc,
		Exports: append([]string(nil), c.Exports...),
		Limits: entities.ManifestLimits{
			MaxSequenceLength: c.Limits.MaxSequenceLength,
			MaxRequestSize:    c.Limits.MaxRequestSize,
		},
	}
}

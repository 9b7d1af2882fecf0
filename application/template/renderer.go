// Package template renders module manifests with text/template before they
// are parsed.
package template

import (
	"bytes"
	"fmt"
	"text/template"

	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/ports"
)

// templateConfig holds configuration for the GoTemplateEngine.
type templateConfig struct {
	strict bool // Fail on missing keys
}

func defaultTemplateConfig() templateConfig {
	return templateConfig{
		strict: true,
	}
}

// TemplateOption configures a GoTemplateEngine.
type TemplateOption func(*templateConfig)

// WithStrict enables/disables strict mode for missing keys.
// When enabled (default), template rendering fails if a referenced key is missing.
func WithStrict(enabled bool) TemplateOption {
	return func(c *templateConfig) {
		c.strict = enabled
	}
}

// GoTemplateEngine implements TemplateEngine using standard text/template.
type GoTemplateEngine struct {
	config templateConfig
}

// NewGoTemplateEngine creates a new GoTemplateEngine.
func NewGoTemplateEngine(opts ...TemplateOption) ports.TemplateEngine {
	cfg := defaultTemplateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoTemplateEngine{config: cfg}
}

var funcs = template.FuncMap{
	// default returns fallback when v is missing or the empty string.
	"default": func(fallback, v any) any {
		if v == nil || v == "" {
			return fallback
		}
		return v
	},
}

// Render processes the raw manifest bytes. Variables are reachable as
// {{ .vars.key }}. Manifests without template actions are returned as is.
func (e *GoTemplateEngine) Render(raw []byte, vars map[string]any) ([]byte, error) {
	if !bytes.Contains(raw, []byte("{{")) {
		return raw, nil
	}

	tmpl := template.New("manifest").Funcs(funcs)
	if e.config.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err := tmpl.Parse(string(raw))
	if err != nil {
		return nil, &bterrors.ConfigError{Err: fmt.Errorf("failed to parse manifest template: %w", err)}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{"vars": vars}); err != nil {
		return nil, &bterrors.ConfigError{Err: fmt.Errorf("failed to execute manifest template: %w", err)}
	}

	return buf.Bytes(), nil
}

package host

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/liangz0707/FirstEngine/application/config"
	apptemplate "github.com/liangz0707/FirstEngine/application/template"
	"github.com/liangz0707/FirstEngine/application/validation"
	"github.com/liangz0707/FirstEngine/domain/entities"
	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/ports"
	"github.com/liangz0707/FirstEngine/host/registry"
	"github.com/liangz0707/FirstEngine/hostfuncs"
	"github.com/liangz0707/FirstEngine/infrastructure/parser"
)

// ErrNoExports is wrapped by the ModuleUnavailableError returned when no
// operation of a module matches the export patterns of a manifest.
var ErrNoExports = errors.New("no operations match the export patterns")

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	catalog         *registry.Registry
	templateEngine  ports.TemplateEngine
	parser          ports.ManifestParser
	validator       ports.ManifestValidator
	logger          *slog.Logger
	middleware      []hostfuncs.Middleware
	strictTemplates bool // Fail on missing template keys
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		parser:          parser.NewYamlManifestParser(),
		validator:       validation.NewManifestValidator(),
		strictTemplates: true,
	}
}

// Loader turns manifests into registries of the modules they name.
type Loader struct {
	config loaderConfig
}

// LoaderOption configures the Loader.
type LoaderOption func(*loaderConfig)

// WithCatalog sets the modules the loader can load. Defaults to
// registry.Builtin().
func WithCatalog(r *registry.Registry) LoaderOption {
	return func(c *loaderConfig) {
		c.catalog = r
	}
}

// WithParser sets a custom manifest parser.
func WithParser(p ports.ManifestParser) LoaderOption {
	return func(c *loaderConfig) {
		c.parser = p
	}
}

// WithTemplateEngine sets a template engine.
func WithTemplateEngine(t ports.TemplateEngine) LoaderOption {
	return func(c *loaderConfig) {
		c.templateEngine = t
	}
}

// WithStrictTemplates enables/disables strict template mode.
// When enabled (default), template rendering fails if a referenced key is missing.
func WithStrictTemplates(enabled bool) LoaderOption {
	return func(c *loaderConfig) {
		c.strictTemplates = enabled
	}
}

// WithLoaderMiddleware adds middleware to every registry the loader builds.
func WithLoaderMiddleware(mw ...hostfuncs.Middleware) LoaderOption {
	return func(c *loaderConfig) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithLoaderLogger sets the logger reporting loaded modules.
func WithLoaderLogger(l *slog.Logger) LoaderOption {
	return func(c *loaderConfig) {
		c.logger = l
	}
}

// NewLoader creates a new Loader with defaults.
func NewLoader(opts ...LoaderOption) *Loader {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.templateEngine == nil {
		cfg.templateEngine = apptemplate.NewGoTemplateEngine(
			apptemplate.WithStrict(cfg.strictTemplates),
		)
	}
	if cfg.catalog == nil {
		cfg.catalog = registry.Builtin()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Loader{config: cfg}
}

// LoadManifest renders, parses, and validates a module manifest.
func (l *Loader) LoadManifest(raw []byte, vars map[string]any) (*entities.ModuleManifest, error) {
	data, err := l.config.templateEngine.Render(raw, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest: %w", err)
	}

	manifest, err := l.config.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if err := l.validate(manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (l *Loader) validate(manifest *entities.ModuleManifest) error {
	res, err := l.config.validator.Validate(manifest)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !res.Valid {
		return &bterrors.ConfigError{
			Field: res.Errors[0].Field,
			Err:   fmt.Errorf("manifest validation failed:\n%s", res),
		}
	}
	return nil
}

// Load builds the registry a manifest describes. A module missing from the
// catalog, a version mismatch, or an export set matching nothing yields a
// *errors.ModuleUnavailableError.
func (l *Loader) Load(manifest *entities.ModuleManifest) (*hostfuncs.Registry, error) {
	if err := l.validate(manifest); err != nil {
		return nil, err
	}

	mod, err := l.config.catalog.Lookup(manifest.Module)
	if err != nil {
		return nil, err
	}

	have := mod.Descriptor.Version
	if manifest.Version != "" && manifest.Version != have {
		return nil, &bterrors.ModuleUnavailableError{
			Module: manifest.Module,
			Err:    fmt.Errorf("version %s requested, %s available", manifest.Version, have),
		}
	}

	keep := exportFilter(manifest.Exports)
	exported := 0
	for _, op := range mod.Descriptor.Operations {
		if keep(op.Name) {
			exported++
		}
	}
	if exported == 0 {
		return nil, &bterrors.ModuleUnavailableError{Module: manifest.Module, Err: ErrNoExports}
	}

	doc := manifest.Doc
	if doc == "" {
		doc = mod.Descriptor.Doc
	}

	reg, err := hostfuncs.NewRegistry(
		hostfuncs.WithModule(manifest.Module, doc),
		hostfuncs.WithVersion(have),
		hostfuncs.WithBundle(mod.Bundle),
		hostfuncs.WithLimits(limits(manifest.Limits)),
		hostfuncs.WithExportFilter(keep),
		hostfuncs.WithMiddleware(l.config.middleware...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build module %q: %w", manifest.Module, err)
	}

	l.config.logger.Debug("module loaded", "module", manifest.Module, "version", have, "operations", exported)
	return reg, nil
}

// LoadConfig builds the registry described by a boundary configuration.
func (l *Loader) LoadConfig(cfg config.Config) (*hostfuncs.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return l.Load(cfg.Manifest())
}

// exportFilter matches operation names against doublestar patterns. No
// patterns exports everything.
func exportFilter(patterns []string) func(string) bool {
	if len(patterns) == 0 {
		return func(string) bool { return true }
	}
	return func(name string) bool {
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, name); ok {
				return true
			}
		}
		return false
	}
}

// limits maps manifest limits onto registry limits. Zero fields take the
// defaults.
func limits(m entities.ManifestLimits) hostfuncs.Limits {
	l := hostfuncs.DefaultLimits()
	if m.MaxSequenceLength > 0 {
		l.MaxSequenceLength = m.MaxSequenceLength
	}
	if m.MaxRequestSize > 0 {
		l.MaxRequestSize = m.MaxRequestSize
	}
	return l
}

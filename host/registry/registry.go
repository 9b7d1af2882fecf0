// Package registry catalogs the native modules a host can load by name.
// Loading a name that is not in the catalog is the source of
// ModuleUnavailable errors.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/liangz0707/FirstEngine/application/schema"
	"github.com/liangz0707/FirstEngine/domain/entities"
	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/ports"
	"github.com/liangz0707/FirstEngine/hostfuncs"
)

// ErrNotRegistered is wrapped by the ModuleUnavailableError returned for an
// unknown module name.
var ErrNotRegistered = errors.New("not registered")

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	strictMode bool // Fail on duplicate registrations
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		strictMode: true,
	}
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithStrictMode enables/disables strict mode for duplicate registrations.
// Default is true (fail on duplicates). Disable only for testing or hot-reloading.
func WithStrictMode(enabled bool) RegistryOption {
	return func(c *registryConfig) {
		c.strictMode = enabled
	}
}

// Module is a catalog entry.
type Module struct {
	Bundle     hostfuncs.Bundle
	Descriptor entities.ModuleDescriptor
	schemas    map[string]string
}

// Registry implements ports.ModuleCatalog. It is safe for concurrent use.
type Registry struct {
	config  registryConfig
	modules sync.Map // map[string]*Module
}

var _ ports.ModuleCatalog = (*Registry)(nil)

// NewRegistry creates a new Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg}
}

// Builtin returns a registry holding the stock firstengine module.
func Builtin() *Registry {
	r := NewRegistry()
	err := r.Register(hostfuncs.ModuleName, hostfuncs.ModuleDoc, hostfuncs.FirstEngineBundle(),
		hostfuncs.WithVersion(hostfuncs.ModuleVersion))
	if err != nil {
		panic(fmt.Sprintf("registry: builtin module: %v", err))
	}
	return r
}

// Register adds a module. The bundle is checked by building a registry from
// it, so malformed signatures and duplicate operation names fail here rather
// than at load time. opts are applied to that registry, e.g.
// hostfuncs.WithVersion.
func (r *Registry) Register(name, doc string, bundle hostfuncs.Bundle, opts ...hostfuncs.RegistryOption) error {
	if name == "" {
		return errors.New("module name cannot be empty")
	}

	opts = append([]hostfuncs.RegistryOption{hostfuncs.WithModule(name, doc), hostfuncs.WithBundle(bundle)}, opts...)
	probe, err := hostfuncs.NewRegistry(opts...)
	if err != nil {
		return fmt.Errorf("module %q: %w", name, err)
	}

	m := &Module{
		Bundle:     bundle,
		Descriptor: probe.Describe(),
		schemas:    make(map[string]string),
	}
	for _, op := range m.Descriptor.Operations {
		data, err := schema.OperationSchema(op)
		if err != nil {
			return fmt.Errorf("failed to generate schema for %s.%s: %w", name, op.Name, err)
		}
		m.schemas[op.Name] = string(data)
	}

	if r.config.strictMode {
		if _, loaded := r.modules.LoadOrStore(name, m); loaded {
			return fmt.Errorf("module %q already registered", name)
		}
		return nil
	}
	r.modules.Store(name, m)
	return nil
}

// Lookup returns the catalog entry for name.
func (r *Registry) Lookup(name string) (*Module, error) {
	v, ok := r.modules.Load(name)
	if !ok {
		return nil, &bterrors.ModuleUnavailableError{Module: name, Err: ErrNotRegistered}
	}
	return v.(*Module), nil
}

// Describe returns the descriptor of a module.
func (r *Registry) Describe(name string) (*entities.ModuleDescriptor, error) {
	m, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	d := m.Descriptor
	d.Operations = append([]entities.OperationDescriptor(nil), d.Operations...)
	return &d, nil
}

// Schema returns the JSON Schema of the argument list of one operation.
func (r *Registry) Schema(module, operation string) (string, bool) {
	m, err := r.Lookup(module)
	if err != nil {
		return "", false
	}
	s, ok := m.schemas[operation]
	return s, ok
}

// Names returns all registered module names in sorted order.
func (r *Registry) Names() []string {
	var keys []string
	r.modules.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

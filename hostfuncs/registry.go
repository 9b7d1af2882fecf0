package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/liangz0707/FirstEngine/domain/entities"
	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
	"github.com/liangz0707/FirstEngine/internal/wasmcontext"
	"github.com/liangz0707/FirstEngine/wireformat"
)

// Registry is an immutable collection of named operations forming one native
// module. Once created via NewRegistry, operations cannot be added or removed,
// so lookups are lock-free and a callback may re-enter the registry while an
// outer call is still running.
type Registry struct {
	ops     map[string]operation
	module  string
	doc     string
	version string
	names   []string // sorted for consistent iteration
	limits  Limits
}

type operation struct {
	handler Handler
	sig     Signature
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	ops        map[string]operation
	filter     func(name string) bool
	module     string
	doc        string
	version    string
	middleware []Middleware
	errors     []error
	limits     Limits
}

// NewRegistry creates an immutable Registry with the given options.
// Returns an error if any operation name is registered twice or a signature
// is malformed.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithModule("firstengine", "FirstEngine bindings"),
//	    WithMiddleware(PanicRecoveryMiddleware()),
//	    WithBundle(FirstEngineBundle()),
//	)
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{
		ops:    make(map[string]operation),
		limits: DefaultLimits(),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	names := make([]string, 0, len(b.ops))
	wrapped := make(map[string]operation, len(b.ops))
	for name, op := range b.ops {
		if b.filter != nil && !b.filter(name) {
			continue
		}
		h := op.handler
		// Apply middleware in reverse order so first middleware wraps outermost
		for i := len(b.middleware) - 1; i >= 0; i-- {
			h = b.middleware[i](h)
		}
		wrapped[name] = operation{sig: op.sig, handler: h}
		names = append(names, name)
	}
	sort.Strings(names)

	return &Registry{
		ops:     wrapped,
		names:   names,
		module:  b.module,
		doc:     b.doc,
		version: b.version,
		limits:  b.limits,
	}, nil
}

// Call invokes an operation with host values. Omitted trailing arguments take
// their declared defaults. Every argument is checked before the handler runs.
func (r *Registry) Call(ctx context.Context, name string, args ...values.Value) (values.Value, error) {
	op, ok := r.ops[name]
	if !ok {
		return values.Value{}, &errors.NotFoundError{Operation: name}
	}

	resolved, err := op.sig.resolve(args)
	if err != nil {
		return values.Value{}, err
	}
	if err := r.limits.check(name, op.sig.Params, resolved); err != nil {
		return values.Value{}, err
	}

	hctx := NewHostContext(ctx, name)
	return op.handler(hctx, Args{op: name, params: op.sig.Params, vals: resolved})
}

// CallAny is Call for plain Go host literals, converted with values.From.
func (r *Registry) CallAny(ctx context.Context, name string, args ...any) (values.Value, error) {
	vals := make([]values.Value, len(args))
	for i, a := range args {
		v, err := values.From(a)
		if err != nil {
			if argErr, ok := err.(*errors.ArgumentError); ok {
				argErr.Operation, argErr.Index = name, i
			}
			return values.Value{}, err
		}
		vals[i] = v
	}
	return r.Call(ctx, name, vals...)
}

// Invoke dispatches a call on the JSON byte surface. The payload is a
// wireformat.CallRequestWire; the response is a wireformat.CallResponseWire.
// Operation failures are reported inside the response, never as a Go error.
func (r *Registry) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	if limit := r.limits.MaxRequestSize; limit > 0 && len(payload) > int(limit) {
		return ErrorResponse(NewRequestTooLargeError(uint32(len(payload)), limit)), nil //nolint:gosec // G115: bounded by the check
	}

	var req wireformat.CallRequestWire
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return ErrorResponse(&errors.WireFormatError{Operation: "unmarshal", Type: "CallRequestWire", Err: err}), nil
		}
	}

	ctx, cancel := wasmcontext.WireToContext(ctx, req.Context)
	defer cancel()

	args, err := wireformat.DecodeArgs(req)
	if err != nil {
		if argErr, ok := err.(*errors.ArgumentError); ok {
			argErr.Operation = name
		}
		return ErrorResponse(err), nil
	}

	result, err := r.Call(ctx, name, args...)
	if err != nil {
		return ErrorResponse(err), nil
	}

	w, err := wireformat.Encode(result)
	if err != nil {
		return ErrorResponse(err), nil
	}
	resp, err := json.Marshal(wireformat.CallResponseWire{Result: &w})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return resp, nil
}

// Has returns true if an operation with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.ops[name]
	return ok
}

// Names returns a sorted list of all registered operation names.
func (r *Registry) Names() []string {
	result := make([]string, len(r.names))
	copy(result, r.names)
	return result
}

// Signature returns the declared signature of name.
func (r *Registry) Signature(name string) (Signature, bool) {
	op, ok := r.ops[name]
	return op.sig, ok
}

// Module returns the module name, empty if unset.
func (r *Registry) Module() string {
	return r.module
}

// Limits returns the argument limits enforced by the registry.
func (r *Registry) Limits() Limits {
	return r.limits
}

// Describe returns the descriptor of the module and every exported operation.
func (r *Registry) Describe() entities.ModuleDescriptor {
	d := entities.ModuleDescriptor{
		Name:       r.module,
		Doc:        r.doc,
		Version:    r.version,
		Operations: make([]entities.OperationDescriptor, 0, len(r.names)),
	}
	for _, name := range r.names {
		d.Operations = append(d.Operations, r.ops[name].sig.Describe())
	}
	return d
}

// addOperation registers an operation under its signature name.
// Returns an error if the name is already registered.
func (b *registryBuilder) addOperation(sig Signature, handler Handler) error {
	if err := sig.validate(); err != nil {
		return err
	}
	if handler == nil {
		return fmt.Errorf("operation %q has no handler", sig.Name)
	}
	if _, exists := b.ops[sig.Name]; exists {
		return fmt.Errorf("duplicate operation name: %q", sig.Name)
	}
	b.ops[sig.Name] = operation{sig: sig, handler: handler}
	return nil
}

// WithOperation registers a single operation.
func WithOperation(sig Signature, handler Handler) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addOperation(sig, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}

// WithModule sets the module name and docstring reported by Describe.
func WithModule(name, doc string) RegistryOption {
	return func(b *registryBuilder) {
		b.module = name
		b.doc = doc
	}
}

// WithVersion sets the module version reported by Describe.
func WithVersion(version string) RegistryOption {
	return func(b *registryBuilder) {
		b.version = version
	}
}

// WithLimits replaces the default argument limits.
func WithLimits(l Limits) RegistryOption {
	return func(b *registryBuilder) {
		b.limits = l
	}
}

// WithExportFilter keeps only the operations for which keep returns true.
// The filter is applied after all operations are registered.
func WithExportFilter(keep func(name string) bool) RegistryOption {
	return func(b *registryBuilder) {
		b.filter = keep
	}
}

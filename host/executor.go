package host

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/hostfuncs"
	fewazero "github.com/liangz0707/FirstEngine/infrastructure/wazero"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Executor owns a wazero runtime exporting one FirstEngine module to the wasm
// guests it loads.
type Executor struct {
	runtime  wazero.Runtime
	registry *hostfuncs.Registry
	logger   *slog.Logger
	output   int
	wasi     bool
}

// DefaultRegistry returns the stock firstengine module with panic recovery.
func DefaultRegistry() (*hostfuncs.Registry, error) {
	return hostfuncs.NewRegistry(
		hostfuncs.WithModule(hostfuncs.ModuleName, hostfuncs.ModuleDoc),
		hostfuncs.WithVersion(hostfuncs.ModuleVersion),
		hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware()),
		hostfuncs.WithBundle(hostfuncs.FirstEngineBundle()),
	)
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{wasi: true, output: DefaultMaxOutputSize}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.registry == nil {
		reg, err := DefaultRegistry()
		if err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
		e.registry = reg
	}

	rt := wazero.NewRuntime(ctx)
	if e.wasi {
		wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	}
	e.runtime = rt

	if err := e.registerHostFunctions(ctx); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return e, nil
}

// Registry returns the module exported to guests.
func (e *Executor) Registry() *hostfuncs.Registry {
	return e.registry
}

// Close releases resources held by the executor and every guest it loaded.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Guest is an instantiated wasm module.
type Guest struct {
	module api.Module
	stdout *OutputBuffer
	stderr *OutputBuffer
}

// Name returns the guest module name.
func (g *Guest) Name() string {
	return g.module.Name()
}

// Stdout returns what the guest wrote to WASI stdout.
func (g *Guest) Stdout() *OutputBuffer {
	return g.stdout
}

// Stderr returns what the guest wrote to WASI stderr.
func (g *Guest) Stderr() *OutputBuffer {
	return g.stderr
}

// Close releases the guest.
func (g *Guest) Close(ctx context.Context) error {
	return g.module.Close(ctx)
}

// LoadGuest compiles and instantiates a wasm module under name. Every
// function the guest imports must already be exported by a host module of
// the runtime; otherwise a *errors.ModuleUnavailableError is returned and the
// guest is not instantiated.
func (e *Executor) LoadGuest(ctx context.Context, name string, wasmBytes []byte) (*Guest, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}

	if err := e.checkImports(compiled); err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	guest := &Guest{stdout: NewOutputBuffer(e.output), stderr: NewOutputBuffer(e.output)}
	cfg := wazero.NewModuleConfig().
		WithName(name).
		WithStdout(guest.stdout).
		WithStderr(guest.stderr)

	mod, err := e.runtime.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	// Reactor modules export _initialize instead of _start.
	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = mod.Close(ctx)
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	e.logger.DebugContext(ctx, "guest loaded", "guest", name)
	guest.module = mod
	return guest, nil
}

func (e *Executor) checkImports(compiled wazero.CompiledModule) error {
	for _, def := range compiled.ImportedFunctions() {
		moduleName, fnName, _ := def.Import()
		host := e.runtime.Module(moduleName)
		if host == nil {
			return &bterrors.ModuleUnavailableError{
				Module: moduleName,
				Err:    fmt.Errorf("imported by %q but not loaded", fnName),
			}
		}
		if host.ExportedFunction(fnName) == nil {
			return &bterrors.ModuleUnavailableError{
				Module: moduleName,
				Err:    fmt.Errorf("function %q is not exported", fnName),
			}
		}
	}
	return nil
}

// registerHostFunctions exports the registry plus log_message.
func (e *Executor) registerHostFunctions(ctx context.Context) error {
	opts := []fewazero.AdapterOption{
		fewazero.WithLogger(e.logger),
		fewazero.WithCustomHandler(fewazero.CustomHandler{
			Name:       "log_message",
			Handler:    e.logMessage,
			ParamTypes: []api.ValueType{api.ValueTypeI64},
		}),
	}
	if limit := e.registry.Limits().MaxRequestSize; limit > 0 {
		opts = append(opts, fewazero.WithMaxRequestSize(limit))
	} else {
		opts = append(opts, fewazero.WithMaxRequestSize(math.MaxUint32))
	}
	return fewazero.RegisterWithRuntime(ctx, e.runtime, e.registry, opts...)
}

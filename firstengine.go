// Package firstengine is the entry point of the FirstEngine binding boundary.
//
// Open returns the stock module as an immutable hostfuncs.Registry; every
// FirstEngine operation is then reachable through Registry.Call (host values),
// Registry.CallAny (plain Go literals) or Registry.Invoke (JSON bytes).
//
//	reg, err := firstengine.Open()
//	if err != nil { ... }
//	v, err := reg.CallAny(ctx, "sum_with_default", 5)
//	// v is the Int 35
package firstengine

import (
	"io"

	"github.com/liangz0707/FirstEngine/application/config"
	"github.com/liangz0707/FirstEngine/host"
	"github.com/liangz0707/FirstEngine/hostfuncs"
	"github.com/liangz0707/FirstEngine/log"
)

// Version is the version of the FirstEngine operation set.
const Version = hostfuncs.ModuleVersion

// Open returns the stock firstengine module with panic recovery. opts are
// applied after the defaults, e.g. to add middleware or restrict exports.
func Open(opts ...hostfuncs.RegistryOption) (*hostfuncs.Registry, error) {
	base := []hostfuncs.RegistryOption{
		hostfuncs.WithModule(hostfuncs.ModuleName, hostfuncs.ModuleDoc),
		hostfuncs.WithVersion(Version),
		hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware()),
		hostfuncs.WithBundle(hostfuncs.FirstEngineBundle()),
	}
	return hostfuncs.NewRegistry(append(base, opts...)...)
}

// OpenConfig loads the module a configuration describes. Calls are logged to
// w at the configured level and format.
func OpenConfig(cfg config.Config, w io.Writer) (*hostfuncs.Registry, error) {
	logger, err := log.Configure(w, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	loader := host.NewLoader(
		host.WithLoaderLogger(logger),
		host.WithLoaderMiddleware(
			hostfuncs.PanicRecoveryMiddleware(),
			hostfuncs.LoggingMiddleware(logger),
		),
	)
	return loader.LoadConfig(cfg)
}

// OpenYAML is OpenConfig for a YAML configuration document.
func OpenYAML(data []byte, w io.Writer) (*hostfuncs.Registry, error) {
	cfg, err := config.Load(data)
	if err != nil {
		return nil, err
	}
	return OpenConfig(cfg, w)
}

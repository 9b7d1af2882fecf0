// Package wazero exports a FirstEngine registry to wasm guests as a wazero
// host module.
//
// Every operation becomes one import of type (i64) -> i64. The argument is
// the packed pointer and length (pointer in the upper 32 bits) of a JSON
// wireformat.CallRequestWire in guest memory; the result points at a
// wireformat.CallResponseWire the adapter wrote into memory obtained from the
// guest's "allocate" export. Failures are reported in the response, never as
// traps. A zero result means the response could not be written.
//
//	reg, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithModule(hostfuncs.ModuleName, hostfuncs.ModuleDoc),
//	    hostfuncs.WithBundle(hostfuncs.FirstEngineBundle()),
//	)
//	if err != nil {
//	    return err
//	}
//	err = wazero.RegisterWithRuntime(ctx, runtime, reg, wazero.WithMaxRequestSize(64<<10))
//
// Imports with another shape, such as the executor's log_message, are added
// with WithCustomHandler.
package wazero

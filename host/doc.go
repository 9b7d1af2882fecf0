// Package host runs wasm guests against a FirstEngine module.
//
// A Loader turns a manifest into a hostfuncs.Registry: it renders and parses
// the manifest, looks the module up in a registry.Registry catalog and keeps
// the operations selected by the export patterns. An Executor exports that
// registry from a wazero runtime, refuses guests whose imports it cannot
// satisfy, and calls guest exports with the same packed JSON ABI the host
// functions use. Guest WASI output is kept in size-capped buffers.
package host

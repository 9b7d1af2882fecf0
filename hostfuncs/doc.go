// Package hostfuncs implements the binding boundary of the FirstEngine module.
//
// A Registry holds the exported operations. Each call is checked against the
// operation's Signature (arity, declared kinds, trailing defaults) before its
// Handler runs, and the handler converts each argument independently through
// Args. Results are returned as values.Value. The same registry serves a JSON
// byte surface (Invoke) for wasm guests and tooling.
//
// Host callables passed to an operation are invoked synchronously on the
// calling goroutine and may re-enter the registry. Failures inside them are
// reported as *errors.HostCallbackError.
//
// This package has NO WASM runtime dependencies; see infrastructure/wazero for
// the wazero adapter.
package hostfuncs

package hostfuncs

import (
	"context"

	"github.com/liangz0707/FirstEngine/domain/values"
)

// Handler implements one operation. It receives arguments that already match
// the declared signature, defaults included.
type Handler func(ctx context.Context, args Args) (values.Value, error)

// ByteHandler is a function that accepts raw bytes (JSON) and returns raw bytes (JSON).
// This is the common interface that WASM runtimes can easily use.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// NewJSONHandler binds one operation of a registry to the JSON byte surface.
// The payload is a wireformat.CallRequestWire and the response a
// wireformat.CallResponseWire.
//
// Usage:
//
//	addHandler := hostfuncs.NewJSONHandler(registry, "add")
//
//	// In WASM runtime handler:
//	reqBytes := readMemory(ptr, len)
//	respBytes, err := addHandler(ctx, reqBytes)
//	writeMemory(respBytes)
func NewJSONHandler(r *Registry, name string) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		return r.Invoke(ctx, name, payload)
	}
}

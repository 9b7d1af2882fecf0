// Package wireformat defines the JSON wire format used when operations are
// invoked through the byte surface of the boundary (wasm guests, tooling).
// These types must remain stable and backward compatible as they define the
// ABI contract.
package wireformat

import (
	"time"

	"github.com/liangz0707/FirstEngine/domain/entities"
)

// ContextWireFormat is the JSON wire format for context.Context propagation.
type ContextWireFormat struct {
	Deadline  *time.Time `json:"deadline,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
	TimeoutMs int64      `json:"timeout_ms,omitempty"`
	Canceled  bool       `json:"canceled,omitempty"`
}

// Vector3Wire is the JSON wire format of a Vector3.
type Vector3Wire struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ValueWire is the JSON wire format of a boundary value. Kind selects which
// payload field is set. Scalars use pointers so zero values survive encoding.
type ValueWire struct {
	Entries map[string]ValueWire `json:"entries,omitempty"`
	Int     *int64               `json:"int,omitempty"`
	Float   *float64             `json:"float,omitempty"`
	Text    *string              `json:"text,omitempty"`
	Bool    *bool                `json:"bool,omitempty"`
	Vector  *Vector3Wire         `json:"vector,omitempty"`
	Kind    string               `json:"kind"`
	Items   []ValueWire          `json:"items,omitempty"`
}

// CallRequestWire is the JSON wire format of an operation call.
type CallRequestWire struct {
	Context ContextWireFormat `json:"context"`
	Args    []ValueWire       `json:"args"`
}

// CallResponseWire is the JSON wire format of an operation result. Exactly one
// of Result and Error is set.
type CallResponseWire struct {
	Result *ValueWire   `json:"result,omitempty"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail provides structured error information, consistent across the
// byte surface and the typed API.
type ErrorDetail = entities.ErrorDetail

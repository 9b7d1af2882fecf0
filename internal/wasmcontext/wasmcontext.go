// Package wasmcontext converts between Go contexts and the context wire format
// carried by byte-surface call requests.
package wasmcontext

import (
	stdcontext "context"
	"time"

	"github.com/liangz0707/FirstEngine/wireformat"
)

// contextKey is a type alias for context value keys to avoid collisions.
type contextKey string

// RequestIDKey is the context key for request ID.
const RequestIDKey contextKey = "request_id"

// ContextToWire converts a stdcontext.Context to ContextWireFormat for
// sending alongside a call request.
//
// It extracts:
// - Deadline (timeout)
// - Cancellation status
// - Request ID (key: RequestIDKey)
func ContextToWire(ctx stdcontext.Context) wireformat.ContextWireFormat {
	wire := wireformat.ContextWireFormat{}

	if deadline, ok := ctx.Deadline(); ok {
		wire.Deadline = &deadline
		if timeout := time.Until(deadline); timeout > 0 {
			wire.TimeoutMs = timeout.Milliseconds()
		}
	}

	select {
	case <-ctx.Done():
		wire.Canceled = true
	default:
	}

	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		wire.RequestID = id
	}

	return wire
}

// WireToContext derives a context from parent carrying the deadline, request
// ID and cancellation recorded in wire.
//
// If parent is nil, context.Background() is used.
// Returns the new context and its CancelFunc.
func WireToContext(parent stdcontext.Context, wire wireformat.ContextWireFormat) (stdcontext.Context, stdcontext.CancelFunc) {
	if parent == nil {
		parent = stdcontext.Background()
	}

	var (
		ctx    stdcontext.Context
		cancel stdcontext.CancelFunc
	)
	switch {
	case wire.Deadline != nil:
		ctx, cancel = stdcontext.WithDeadline(parent, *wire.Deadline)
	case wire.TimeoutMs > 0:
		ctx, cancel = stdcontext.WithTimeout(parent, time.Duration(wire.TimeoutMs)*time.Millisecond)
	default:
		ctx, cancel = stdcontext.WithCancel(parent)
	}

	if wire.RequestID != "" {
		ctx = stdcontext.WithValue(ctx, RequestIDKey, wire.RequestID)
	}

	if wire.Canceled {
		cancel()
	}

	return ctx, cancel
}

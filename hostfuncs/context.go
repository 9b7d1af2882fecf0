package hostfuncs

import (
	"context"
)

// HostContext wraps a standard context.Context with operation-specific helpers.
// It provides access to the invoked operation name and allows middleware to store
// request-scoped values without polluting the standard context.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the operation being invoked.
	FunctionName() string

	// SetValue stores a request-scoped value. Unlike context.WithValue,
	// this mutates the existing HostContext.
	SetValue(key, value any)

	// GetValue retrieves a request-scoped value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

// hostContext is the concrete implementation of HostContext.
type hostContext struct {
	context.Context
	values   map[any]any
	funcName string
}

// NewHostContext creates a new HostContext wrapping the given context.
// A call made from inside a callback gets its own HostContext wrapping the
// outer one, so the outer call's name and values are left untouched.
func NewHostContext(ctx context.Context, funcName string) HostContext {
	return &hostContext{
		Context:  ctx,
		funcName: funcName,
		values:   make(map[any]any),
	}
}

// FunctionName returns the name of the operation being invoked.
func (c *hostContext) FunctionName() string {
	return c.funcName
}

// SetValue stores a request-scoped value.
func (c *hostContext) SetValue(key, value any) {
	c.values[key] = value
}

// GetValue retrieves a request-scoped value.
func (c *hostContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// FunctionNameFrom returns the operation name carried by ctx, or "unknown".
func FunctionNameFrom(ctx context.Context) string {
	if hc, ok := ctx.(HostContext); ok {
		return hc.FunctionName()
	}
	return "unknown"
}

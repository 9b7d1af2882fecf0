package hostfuncs

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
)

// Middleware is a function that wraps a Handler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
//
// Example usage:
//
//	tracing := func(next Handler) Handler {
//	    return func(ctx context.Context, args Args) (values.Value, error) {
//	        span := start(FunctionNameFrom(ctx))
//	        defer span.End()
//	        return next(ctx, args)
//	    }
//	}
type Middleware func(next Handler) Handler

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*registryBuilder)

// PanicRecoveryMiddleware returns a middleware that converts a panic inside an
// operation into an *errors.PanicError instead of crashing the host.
func PanicRecoveryMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, args Args) (result values.Value, err error) {
			defer func() {
				if r := recover(); r != nil {
					result = values.Value{}
					err = &errors.PanicError{Value: r, Operation: FunctionNameFrom(ctx), Stack: debug.Stack()}
				}
			}()
			return next(ctx, args)
		}
	}
}

// LoggingMiddleware returns a middleware that logs operation invocations.
// Entry and success are logged at debug level, failures at error level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, args Args) (values.Value, error) {
			name := FunctionNameFrom(ctx)
			logger.DebugContext(ctx, "invoking operation", "operation", name, "args", args.Len())
			start := time.Now()
			if hc, ok := ctx.(HostContext); ok {
				hc.SetValue(startedKey{}, start)
			}
			result, err := next(ctx, args)
			if err != nil {
				logger.ErrorContext(ctx, "operation failed", "operation", name, "error", err, "duration", time.Since(start))
			} else {
				logger.DebugContext(ctx, "operation completed", "operation", name, "result", result.Kind().String(), "duration", time.Since(start))
			}
			return result, err
		}
	}
}

type startedKey struct{}

// StartedAt returns when LoggingMiddleware began timing the current call.
// ok is false outside a registry call or without LoggingMiddleware.
func StartedAt(ctx context.Context) (t time.Time, ok bool) {
	hc, isHost := ctx.(HostContext)
	if !isHost {
		return time.Time{}, false
	}
	v, found := hc.GetValue(startedKey{})
	if !found {
		return time.Time{}, false
	}
	t, ok = v.(time.Time)
	return t, ok
}

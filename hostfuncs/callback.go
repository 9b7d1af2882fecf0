package hostfuncs

import (
	"context"
	"runtime/debug"

	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
)

// intCallback adapts a host callable to the int -> int callback the native
// layer expects. The callable runs synchronously on the calling goroutine with
// the caller's context, so it may call back into the registry. A failure,
// panic or non-int result of the callable is reported as a
// *errors.HostCallbackError.
//
// The returned function must not outlive the call that created it.
func intCallback(ctx context.Context, op string, fn values.CallableRef) func(int64) (int64, error) {
	if fn == nil {
		return nil
	}
	return func(x int64) (out int64, err error) {
		defer func() {
			if r := recover(); r != nil {
				out = 0
				err = &errors.HostCallbackError{
					Operation: op,
					Err:       &errors.PanicError{Value: r, Stack: debug.Stack()},
				}
			}
		}()

		res, err := fn.Call(ctx, values.Int(x))
		if err != nil {
			return 0, &errors.HostCallbackError{Operation: op, Err: err}
		}
		out, err = res.AsInt()
		if err != nil {
			return 0, &errors.HostCallbackError{Operation: op, Err: err}
		}
		return out, nil
	}
}

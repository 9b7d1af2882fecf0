// Package errors provides the error taxonomy of the binding boundary.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
	"strconv"

	"github.com/liangz0707/FirstEngine/domain/entities"
)

// Error types reported in ErrorDetail.Type.
const (
	TypeInvalidArgument   = "invalid_argument"
	TypeTypeMismatch      = "type_mismatch"
	TypeHostCallback      = "host_callback"
	TypeModuleUnavailable = "module_unavailable"
	TypeNotFound          = "not_found"
	TypeConfig            = "config"
	TypePanic             = "panic"
	TypeInternal          = "internal"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrInvalidArgument   = stdErrors.New("invalid argument")
	ErrTypeMismatch      = stdErrors.New("type mismatch")
	ErrHostCallback      = stdErrors.New("host callback failed")
	ErrModuleUnavailable = stdErrors.New("module unavailable")
	ErrNotFound          = stdErrors.New("not found")
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	// The outermost classification wins: a HostCallbackError wrapping an
	// ErrorDetail stays a host_callback error.
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		switch e := e.(type) {
		case *entities.ErrorDetail:
			return e
		case DetailedError:
			return e.ToErrorDetail()
		}
	}

	// errors.Join and other multi-error trees.
	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}
	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    TypeInternal,
	}
}

// ArgumentError reports an argument whose runtime value cannot be converted to
// the type the operation declares. Index is -1 for errors about the argument
// list as a whole (arity).
type ArgumentError struct {
	Operation string
	Param     string
	Expected  string
	Actual    string
	Reason    string
	Index     int
}

func (e *ArgumentError) Error() string {
	msg := "invalid argument"
	if e.Operation != "" {
		msg = e.Operation + ": " + msg
	}
	if e.Index >= 0 {
		msg += " " + strconv.Itoa(e.Index)
		if e.Param != "" {
			msg += " (" + e.Param + ")"
		}
	}
	if e.Expected != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// ToErrorDetail implements DetailedError.
func (e *ArgumentError) ToErrorDetail() *entities.ErrorDetail {
	details := map[string]any{"index": e.Index}
	if e.Operation != "" {
		details["operation"] = e.Operation
	}
	if e.Param != "" {
		details["param"] = e.Param
	}
	if e.Expected != "" {
		details["expected"] = e.Expected
		details["actual"] = e.Actual
	}
	return &entities.ErrorDetail{Message: e.Error(), Type: TypeInvalidArgument, Code: e.Operation, Details: details}
}

// TypeMismatchError reports an accessor used against a value of another kind.
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: value is %s, not %s", e.Actual, e.Expected)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ToErrorDetail implements DetailedError.
func (e *TypeMismatchError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    TypeTypeMismatch,
		Details: map[string]any{"expected": e.Expected, "actual": e.Actual},
	}
}

// HostCallbackError wraps a failure raised inside a host supplied callable, or a
// callable result that cannot be converted back to the declared type.
type HostCallbackError struct {
	Err       error
	Operation string
}

func (e *HostCallbackError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s: host callback failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("host callback failed: %v", e.Err)
}

func (e *HostCallbackError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrHostCallback.
func (e *HostCallbackError) Is(target error) bool {
	return target == ErrHostCallback
}

// ToErrorDetail implements DetailedError.
func (e *HostCallbackError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    TypeHostCallback,
		Code:    e.Operation,
		Wrapped: ToErrorDetail(e.Err),
	}
}

// ModuleUnavailableError reports that a native module cannot be located or loaded.
// It is a startup condition, never returned from an operation call.
type ModuleUnavailableError struct {
	Err    error
	Module string
}

func (e *ModuleUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("module %q unavailable: %v", e.Module, e.Err)
	}
	return fmt.Sprintf("module %q unavailable", e.Module)
}

func (e *ModuleUnavailableError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrModuleUnavailable.
func (e *ModuleUnavailableError) Is(target error) bool {
	return target == ErrModuleUnavailable
}

// ToErrorDetail implements DetailedError.
func (e *ModuleUnavailableError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: TypeModuleUnavailable, Code: e.Module, IsNotFound: true}
}

// NotFoundError reports a call to an operation the module does not export.
type NotFoundError struct {
	Operation string
}

func (e *NotFoundError) Error() string {
	return "unknown operation: " + e.Operation
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ToErrorDetail implements DetailedError.
func (e *NotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: TypeNotFound, Code: e.Operation, IsNotFound: true}
}

// PanicError is a panic recovered while running an operation.
type PanicError struct {
	Value     any
	Operation string
	Stack     []byte
}

func (e *PanicError) Error() string {
	var msg string
	switch v := e.Value.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprintf("%v", v)
	}
	if e.Operation != "" {
		return fmt.Sprintf("%s: panic: %s", e.Operation, msg)
	}
	return "panic: " + msg
}

// ToErrorDetail implements DetailedError.
func (e *PanicError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: TypePanic, Code: e.Operation, Stack: e.Stack}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: TypeConfig, Code: e.Field}
}

// WireFormatError represents a wire format encoding/decoding error.
type WireFormatError struct {
	Err       error
	Operation string
	Type      string
}

func (e *WireFormatError) Error() string {
	return fmt.Sprintf("wire format %s failed for %s: %v", e.Operation, e.Type, e.Err)
}

func (e *WireFormatError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *WireFormatError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: TypeInternal, Code: "wire_format"}
}

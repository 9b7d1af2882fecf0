package entities

import "fmt"

// ErrorDetail is the structured form of a boundary error and the error half
// of a call response on the wire. Type is one of invalid_argument,
// type_mismatch, host_callback, module_unavailable, not_found, config, panic
// or internal.
type ErrorDetail struct {
	// Wrapped is the cause, e.g. the error a host callable returned.
	Wrapped *ErrorDetail `json:"wrapped,omitempty"`

	// Details carries operation, argument index and name, expected and
	// actual kinds.
	Details map[string]any `json:"details,omitempty"`

	Message string `json:"message"`
	Type    string `json:"type"`

	// Code names the failing operation or module.
	Code string `json:"code"`

	// Stack is set for recovered panics.
	Stack []byte `json:"stack,omitempty"`

	// IsNotFound is set when the operation or module does not exist.
	IsNotFound bool `json:"is_not_found,omitempty"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped.Error())
	}
	return msg
}

// NewErrorDetail creates a new ErrorDetail with the given type and message.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{
		Type:    errorType,
		Message: message,
	}
}

// WithDetails returns a copy of e with details attached.
func (e *ErrorDetail) WithDetails(details map[string]any) *ErrorDetail {
	c := *e
	c.Details = details
	return &c
}

// WithCode returns a copy of e with code attached.
func (e *ErrorDetail) WithCode(code string) *ErrorDetail {
	c := *e
	c.Code = code
	return &c
}

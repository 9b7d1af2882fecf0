package entities

import "strings"

// ValidationResult represents the outcome of a manifest validation.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a specific validation error.
type ValidationError struct {
	Field   string
	Message string
}

// String renders the failures one per line.
func (r *ValidationResult) String() string {
	var b strings.Builder
	for i, e := range r.Errors {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- " + e.Field + ": " + e.Message)
	}
	return b.String()
}

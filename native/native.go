// Package native holds the statically typed FirstEngine library that the binding
// boundary exposes. Nothing here knows about dynamic values; conversion is the
// caller's job (see package hostfuncs).
package native

import (
	"strconv"
	"strings"
)

// Add returns a + b using two's complement wrap-around.
func Add(a, b int64) int64 {
	return a + b
}

// Multiply returns a * b.
func Multiply(a, b float64) float64 {
	return a * b
}

// Concatenate returns a followed by b.
func Concatenate(a, b string) string {
	return a + b
}

// ProcessIntVector doubles every element, preserving length and order.
func ProcessIntVector(xs []int64) []int64 {
	out := make([]int64, len(xs))
	for i, x := range xs {
		out[i] = x * 2
	}
	return out
}

// ProcessFloatVector squares every element, preserving length and order.
func ProcessFloatVector(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * x
	}
	return out
}

// ProcessMap multiplies every value by 10. The key set is preserved.
func ProcessMap(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v * 10
	}
	return out
}

// AddVectors returns a + b.
func AddVectors(a, b Vector3) Vector3 {
	return a.Add(b)
}

// CalculateDistance returns the Euclidean distance between a and b.
func CalculateDistance(a, b Vector3) float64 {
	return a.Sub(b).Length()
}

// ProcessData renders a summary of heterogeneous inputs.
func ProcessData(id int64, value float64, name string, numbers []int64, position Vector3) string {
	var b strings.Builder
	b.WriteString("ID: ")
	b.WriteString(strconv.FormatInt(id, 10))
	b.WriteString(", Value: ")
	b.WriteString(FormatFloat(value))
	b.WriteString(", Name: ")
	b.WriteString(name)
	b.WriteString(", Numbers: [")
	for i, n := range numbers {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatInt(n, 10))
	}
	b.WriteString("], Position: ")
	b.WriteString(position.String())
	return b.String()
}

// GetMultipleValues returns a fixed (int, float, text) triple.
func GetMultipleValues() (int64, float64, string) {
	return 42, 3.14, "Hello from C++"
}

// SumOptions carries the optional operands of SumWithDefault.
type SumOptions struct {
	B int64 `json:"b" default:"10"`
	C int64 `json:"c" default:"20"`
}

// DefaultSumOptions returns the documented defaults: B=10, C=20.
func DefaultSumOptions() SumOptions {
	return SumOptions{B: 10, C: 20}
}

// SumWithDefault returns a + opts.B + opts.C.
func SumWithDefault(a int64, opts SumOptions) int64 {
	return a + opts.B + opts.C
}

// CallFunction invokes fn with value and returns its result.
// A nil fn returns value unchanged. Errors from fn are returned as-is.
func CallFunction(value int64, fn func(int64) (int64, error)) (int64, error) {
	if fn == nil {
		return value, nil
	}
	return fn(value)
}

package hostfuncs

import (
	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
	"github.com/liangz0707/FirstEngine/native"
)

// Args holds the resolved arguments of one call. Each accessor converts a
// single argument independently and reports failures as an
// *errors.ArgumentError naming the operation, position and parameter.
type Args struct {
	op     string
	params []Param
	vals   []values.Value
}

// NewArgs builds Args for direct handler invocation, mostly in tests.
func NewArgs(sig Signature, vals ...values.Value) Args {
	return Args{op: sig.Name, params: sig.Params, vals: vals}
}

// Len returns the number of arguments.
func (a Args) Len() int { return len(a.vals) }

// Value returns argument i unconverted.
func (a Args) Value(i int) values.Value {
	if i < 0 || i >= len(a.vals) {
		return values.Value{}
	}
	return a.vals[i]
}

func (a Args) fail(i int, expected string) error {
	e := &errors.ArgumentError{Operation: a.op, Index: i, Expected: expected, Actual: actualName(a.Value(i))}
	if i < len(a.params) {
		e.Param = a.params[i].Name
	}
	if i < 0 || i >= len(a.vals) {
		e.Actual = "nothing"
	}
	return e
}

// Int converts argument i to an integer.
func (a Args) Int(i int) (int64, error) {
	x, err := a.Value(i).AsInt()
	if err != nil {
		return 0, a.fail(i, "int")
	}
	return x, nil
}

// Float converts argument i to a float, widening an integer.
func (a Args) Float(i int) (float64, error) {
	x, err := a.Value(i).AsFloat()
	if err != nil {
		return 0, a.fail(i, "float")
	}
	return x, nil
}

// Text converts argument i to a string.
func (a Args) Text(i int) (string, error) {
	x, err := a.Value(i).AsText()
	if err != nil {
		return "", a.fail(i, "text")
	}
	return x, nil
}

// Bool converts argument i to a boolean.
func (a Args) Bool(i int) (bool, error) {
	x, err := a.Value(i).AsBool()
	if err != nil {
		return false, a.fail(i, "bool")
	}
	return x, nil
}

// Vector3 converts argument i to a Vector3.
func (a Args) Vector3(i int) (native.Vector3, error) {
	x, err := a.Value(i).AsVector3()
	if err != nil {
		return native.Vector3{}, a.fail(i, "vector3")
	}
	return x, nil
}

// Callable returns the host callable passed as argument i.
func (a Args) Callable(i int) (values.CallableRef, error) {
	x, err := a.Value(i).AsCallable()
	if err != nil {
		return nil, a.fail(i, "callable")
	}
	return x, nil
}

// IntSequence converts argument i to a slice of integers.
func (a Args) IntSequence(i int) ([]int64, error) {
	items, err := a.Value(i).Items()
	if err != nil || a.Value(i).Kind() != values.KindSequence {
		return nil, a.fail(i, "sequence[int]")
	}
	out := make([]int64, len(items))
	for j, it := range items {
		if out[j], err = it.AsInt(); err != nil {
			return nil, a.fail(i, "sequence[int]")
		}
	}
	return out, nil
}

// FloatSequence converts argument i to a slice of floats, widening integers.
func (a Args) FloatSequence(i int) ([]float64, error) {
	items, err := a.Value(i).Items()
	if err != nil || a.Value(i).Kind() != values.KindSequence {
		return nil, a.fail(i, "sequence[float]")
	}
	out := make([]float64, len(items))
	for j, it := range items {
		if out[j], err = it.AsFloat(); err != nil {
			return nil, a.fail(i, "sequence[float]")
		}
	}
	return out, nil
}

// IntMapping converts argument i to a map of integers.
func (a Args) IntMapping(i int) (map[string]int64, error) {
	entries, err := a.Value(i).Entries()
	if err != nil {
		return nil, a.fail(i, "mapping[int]")
	}
	out := make(map[string]int64, len(entries))
	for k, e := range entries {
		if out[k], err = e.AsInt(); err != nil {
			return nil, a.fail(i, "mapping[int]")
		}
	}
	return out, nil
}

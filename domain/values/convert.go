package values

import (
	"context"
	"fmt"
	"math"

	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/native"
)

// From converts a Go host literal into a Value.
//
// Supported: all integer widths, float32/64, string, bool, native.Vector3,
// CallableRef and plain callback funcs, slices of those scalars and []any, and
// maps with string keys. A slice mixing ints and floats is widened to floats.
func From(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint:
		return fromUint(uint64(x))
	case uint64:
		return fromUint(x)
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return Text(x), nil
	case bool:
		return Bool(x), nil
	case native.Vector3:
		return Vector(x), nil
	case *native.Vector3:
		if x == nil {
			return Value{}, unsupported(v)
		}
		return Vector(*x), nil
	case CallableRef:
		return Callable(x), nil
	case func(context.Context, ...Value) (Value, error):
		return Callable(CallableFunc(x)), nil
	case func(int64) (int64, error):
		return Callable(intFunc(x)), nil
	case func(int64) int64:
		return Callable(intFunc(func(i int64) (int64, error) { return x(i), nil })), nil
	case []int64:
		return Ints(x), nil
	case []int:
		xs := make([]int64, len(x))
		for i, n := range x {
			xs[i] = int64(n)
		}
		return Ints(xs), nil
	case []float64:
		return Floats(x), nil
	case []string:
		items := make([]Value, len(x))
		for i, s := range x {
			items[i] = Text(s)
		}
		return Sequence(items...)
	case []bool:
		items := make([]Value, len(x))
		for i, b := range x {
			items[i] = Bool(b)
		}
		return Sequence(items...)
	case []Value:
		return Sequence(widen(x)...)
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			item, err := From(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Sequence(widen(items)...)
	case map[string]Value:
		return Mapping(x)
	case map[string]int64:
		return IntMapping(x), nil
	case map[string]int:
		m := make(map[string]int64, len(x))
		for k, n := range x {
			m[k] = int64(n)
		}
		return IntMapping(m), nil
	case map[string]any:
		entries := make(map[string]Value, len(x))
		for k, e := range x {
			item, err := From(e)
			if err != nil {
				return Value{}, err
			}
			entries[k] = item
		}
		return Mapping(entries)
	default:
		return Value{}, unsupported(v)
	}
}

// MustFrom is like From but panics on error. Intended for literals in tests and
// examples.
func MustFrom(v any) Value {
	out, err := From(v)
	if err != nil {
		panic(err)
	}
	return out
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, &errors.ArgumentError{
			Index: -1, Expected: "int", Actual: "uint64",
			Reason: fmt.Sprintf("%d overflows int64", u),
		}
	}
	return Int(int64(u)), nil
}

func unsupported(v any) error {
	return &errors.ArgumentError{Index: -1, Reason: fmt.Sprintf("unsupported host type %T", v)}
}

// widen converts ints to floats when items mix the two numeric kinds.
func widen(items []Value) []Value {
	var ints, floats bool
	for _, it := range items {
		switch it.kind {
		case KindInt:
			ints = true
		case KindFloat:
			floats = true
		default:
			return items
		}
	}
	if !ints || !floats {
		return items
	}
	out := make([]Value, len(items))
	for i, it := range items {
		if it.kind == KindInt {
			it = Float(float64(it.i))
		}
		out[i] = it
	}
	return out
}

// intFunc adapts an int -> int host function to CallableRef.
type intFunc func(int64) (int64, error)

func (f intFunc) Call(_ context.Context, args ...Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, &errors.ArgumentError{Index: -1, Reason: fmt.Sprintf("expected 1 argument, got %d", len(args))}
	}
	x, err := args[0].AsInt()
	if err != nil {
		return Value{}, err
	}
	out, err := f(x)
	if err != nil {
		return Value{}, err
	}
	return Int(out), nil
}

// At returns slot i of a tuple or sequence.
func (v Value) At(i int) (Value, error) {
	if v.kind != KindTuple && v.kind != KindSequence {
		return Value{}, v.mismatch(KindTuple)
	}
	if i < 0 || i >= len(v.items) {
		return Value{}, &errors.ArgumentError{
			Index: i, Reason: fmt.Sprintf("index out of range for %s of length %d", v.kind, len(v.items)),
		}
	}
	return v.items[i], nil
}

// Unpack assigns the slots of a MultiResult tuple to dst, which must hold one
// pointer per slot: *int64, *float64, *string, *bool, *native.Vector3 or *Value.
// An arity mismatch is an InvalidArgument; a slot of the wrong kind is a
// TypeMismatch.
func Unpack(v Value, dst ...any) error {
	if v.kind != KindTuple {
		return v.mismatch(KindTuple)
	}
	if len(dst) != len(v.items) {
		return &errors.ArgumentError{
			Index:  -1,
			Reason: fmt.Sprintf("cannot unpack %d values into %d targets", len(v.items), len(dst)),
		}
	}
	for i, d := range dst {
		if err := assign(v.items[i], d); err != nil {
			return fmt.Errorf("unpack slot %d: %w", i, err)
		}
	}
	return nil
}

func assign(v Value, dst any) error {
	var err error
	switch p := dst.(type) {
	case *int64:
		*p, err = v.AsInt()
	case *float64:
		*p, err = v.AsFloat()
	case *string:
		*p, err = v.AsText()
	case *bool:
		*p, err = v.AsBool()
	case *native.Vector3:
		*p, err = v.AsVector3()
	case *Value:
		*p = v
	default:
		err = &errors.ArgumentError{Index: -1, Reason: fmt.Sprintf("unsupported unpack target %T", dst)}
	}
	return err
}

// Package values models every value that crosses the binding boundary as a
// tagged variant. Accessors are total: using one against the wrong tag returns a
// TypeMismatchError instead of coercing. The only implicit conversion is the
// widening of an int to a float.
package values

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/native"
)

// CallableRef is a non-owning reference to a host supplied function. The
// boundary holds it only for the duration of the call it was passed to.
type CallableRef interface {
	Call(ctx context.Context, args ...Value) (Value, error)
}

// CallableFunc adapts an ordinary function to CallableRef.
type CallableFunc func(ctx context.Context, args ...Value) (Value, error)

// Call implements CallableRef.
func (f CallableFunc) Call(ctx context.Context, args ...Value) (Value, error) {
	return f(ctx, args...)
}

// Value is an immutable tagged variant. The zero Value has KindInvalid.
type Value struct {
	fn      CallableRef
	entries map[string]Value
	s       string
	items   []Value
	vec     native.Vector3
	f       float64
	i       int64
	kind    Kind
	elem    Kind
	b       bool
}

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Vector returns a Vector3 value.
func Vector(v native.Vector3) Value { return Value{kind: KindVector3, vec: v} }

// Callable wraps a host function reference.
func Callable(fn CallableRef) Value { return Value{kind: KindCallable, fn: fn} }

// Tuple returns a fixed-arity heterogeneous value (a MultiResult).
func Tuple(items ...Value) Value {
	return Value{kind: KindTuple, items: append([]Value(nil), items...)}
}

// Sequence returns an ordered list of scalars sharing one kind.
func Sequence(items ...Value) (Value, error) {
	elem := KindInvalid
	for i, it := range items {
		if !it.kind.IsScalar() {
			return Value{}, &errors.ArgumentError{
				Index: i, Expected: "scalar", Actual: it.kind.String(),
				Reason: "sequence elements must be scalars",
			}
		}
		if elem == KindInvalid {
			elem = it.kind
			continue
		}
		if it.kind != elem {
			return Value{}, &errors.ArgumentError{
				Index: i, Expected: elem.String(), Actual: it.kind.String(),
				Reason: "sequence elements must share one kind",
			}
		}
	}
	return Value{kind: KindSequence, elem: elem, items: append([]Value(nil), items...)}, nil
}

// Ints returns a sequence of integers.
func Ints(xs []int64) Value {
	items := make([]Value, len(xs))
	for i, x := range xs {
		items[i] = Int(x)
	}
	return Value{kind: KindSequence, elem: elemKind(len(xs), KindInt), items: items}
}

// Floats returns a sequence of floats.
func Floats(xs []float64) Value {
	items := make([]Value, len(xs))
	for i, x := range xs {
		items[i] = Float(x)
	}
	return Value{kind: KindSequence, elem: elemKind(len(xs), KindFloat), items: items}
}

func elemKind(n int, k Kind) Kind {
	if n == 0 {
		return KindInvalid
	}
	return k
}

// Mapping returns an association of unique text keys to scalars.
func Mapping(entries map[string]Value) (Value, error) {
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		if !v.kind.IsScalar() {
			return Value{}, &errors.ArgumentError{
				Index: -1, Expected: "scalar", Actual: v.kind.String(),
				Reason: "mapping entry " + strconv.Quote(k),
			}
		}
		m[k] = v
	}
	return Value{kind: KindMapping, entries: m}, nil
}

// IntMapping returns a mapping of text keys to integers.
func IntMapping(m map[string]int64) Value {
	entries := make(map[string]Value, len(m))
	for k, v := range m {
		entries[k] = Int(v)
	}
	return Value{kind: KindMapping, entries: entries}
}

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// ElemKind returns the element kind of a sequence, KindInvalid when empty or
// when v is not a sequence.
func (v Value) ElemKind() Kind { return v.elem }

// IsValid reports whether v carries a tag.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Len returns the number of elements of a sequence, mapping or tuple.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence, KindTuple:
		return len(v.items)
	case KindMapping:
		return len(v.entries)
	default:
		return 0
	}
}

func (v Value) mismatch(expected Kind) error {
	return &errors.TypeMismatchError{Expected: expected.String(), Actual: v.kind.String()}
}

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInt {
		return 0, v.mismatch(KindInt)
	}
	return v.i, nil
}

// AsFloat returns the float held by v, widening an integer.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	default:
		return 0, v.mismatch(KindFloat)
	}
}

// AsText returns the text held by v.
func (v Value) AsText() (string, error) {
	if v.kind != KindText {
		return "", v.mismatch(KindText)
	}
	return v.s, nil
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.b, nil
}

// AsVector3 returns the Vector3 held by v.
func (v Value) AsVector3() (native.Vector3, error) {
	if v.kind != KindVector3 {
		return native.Vector3{}, v.mismatch(KindVector3)
	}
	return v.vec, nil
}

// AsCallable returns the callable reference held by v.
func (v Value) AsCallable() (CallableRef, error) {
	if v.kind != KindCallable {
		return nil, v.mismatch(KindCallable)
	}
	return v.fn, nil
}

// Items returns a copy of the elements of a sequence or tuple.
func (v Value) Items() ([]Value, error) {
	if v.kind != KindSequence && v.kind != KindTuple {
		return nil, v.mismatch(KindSequence)
	}
	return append([]Value(nil), v.items...), nil
}

// Entries returns a copy of the entries of a mapping.
func (v Value) Entries() (map[string]Value, error) {
	if v.kind != KindMapping {
		return nil, v.mismatch(KindMapping)
	}
	m := make(map[string]Value, len(v.entries))
	for k, e := range v.entries {
		m[k] = e
	}
	return m, nil
}

// Keys returns the sorted keys of a mapping; nil for other kinds.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, len(v.entries))
	for k := range v.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts v to plain Go values for the host.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBool:
		return v.b
	case KindVector3:
		return v.vec
	case KindCallable:
		return v.fn
	case KindSequence, KindTuple:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.entries))
		for k, e := range v.entries {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders v the way a dynamic host would print it.
// Text at the top level is returned unquoted.
func (v Value) String() string {
	if v.kind == KindText {
		return v.s
	}
	var b strings.Builder
	v.repr(&b)
	return b.String()
}

func (v Value) repr(b *strings.Builder) {
	switch v.kind {
	case KindInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		s := native.FormatFloat(v.f)
		b.WriteString(s)
		if !strings.ContainsAny(s, ".eEIN") {
			b.WriteString(".0")
		}
	case KindText:
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(v.s, "'", `\'`))
		b.WriteByte('\'')
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindVector3:
		b.WriteString(v.vec.String())
	case KindCallable:
		b.WriteString("<callable>")
	case KindSequence, KindTuple:
		open, closing := "[", "]"
		if v.kind == KindTuple {
			open, closing = "(", ")"
		}
		b.WriteString(open)
		for i, it := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			it.repr(b)
		}
		b.WriteString(closing)
	case KindMapping:
		b.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			Text(k).repr(b)
			b.WriteString(": ")
			v.entries[k].repr(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("<invalid>")
	}
}

// Equal reports whether a and b hold the same tag and contents.
// Callables are never equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindInvalid:
		return true
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindText:
		return a.s == b.s
	case KindBool:
		return a.b == b.b
	case KindVector3:
		return a.vec == b.vec
	case KindSequence, KindTuple:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(a.entries) != len(b.entries) {
			return false
		}
		for k, av := range a.entries {
			bv, ok := b.entries[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

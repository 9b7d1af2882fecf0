package wireformat

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"math"

	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
	"github.com/liangz0707/FirstEngine/native"
)

var (
	errCallable  = stdErrors.New("callables cannot cross the wire")
	errNonFinite = stdErrors.New("non-finite floats are not representable in JSON")
)

// Encode converts a value to its wire form.
func Encode(v values.Value) (ValueWire, error) {
	kind := v.Kind()
	w := ValueWire{Kind: kind.String()}
	switch kind {
	case values.KindInt:
		i, _ := v.AsInt()
		w.Int = &i
	case values.KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ValueWire{}, encodeErr(kind, errNonFinite)
		}
		w.Float = &f
	case values.KindText:
		s, _ := v.AsText()
		w.Text = &s
	case values.KindBool:
		b, _ := v.AsBool()
		w.Bool = &b
	case values.KindVector3:
		vec, _ := v.AsVector3()
		if !vec.IsFinite() {
			return ValueWire{}, encodeErr(kind, errNonFinite)
		}
		w.Vector = &Vector3Wire{X: vec.X, Y: vec.Y, Z: vec.Z}
	case values.KindSequence, values.KindTuple:
		items, _ := v.Items()
		w.Items = make([]ValueWire, len(items))
		for i, it := range items {
			iw, err := Encode(it)
			if err != nil {
				return ValueWire{}, err
			}
			w.Items[i] = iw
		}
	case values.KindMapping:
		entries, _ := v.Entries()
		w.Entries = make(map[string]ValueWire, len(entries))
		for k, e := range entries {
			ew, err := Encode(e)
			if err != nil {
				return ValueWire{}, err
			}
			w.Entries[k] = ew
		}
	case values.KindCallable:
		return ValueWire{}, encodeErr(kind, errCallable)
	default:
		return ValueWire{}, encodeErr(kind, fmt.Errorf("cannot encode %s value", kind))
	}
	return w, nil
}

func encodeErr(kind values.Kind, err error) error {
	return &errors.WireFormatError{Operation: "encode", Type: kind.String(), Err: err}
}

// Decode converts a wire value back into a Value. A callable kind is rejected
// as an invalid argument; any other malformed payload is a WireFormatError.
func Decode(w ValueWire) (values.Value, error) {
	kind, ok := values.ParseKind(w.Kind)
	if !ok || kind == values.KindInvalid {
		return values.Value{}, decodeErr(w.Kind, fmt.Errorf("unknown kind %q", w.Kind))
	}
	switch kind {
	case values.KindInt:
		if w.Int == nil {
			return values.Value{}, missing(w.Kind)
		}
		return values.Int(*w.Int), nil
	case values.KindFloat:
		if w.Float == nil {
			return values.Value{}, missing(w.Kind)
		}
		return values.Float(*w.Float), nil
	case values.KindText:
		if w.Text == nil {
			return values.Value{}, missing(w.Kind)
		}
		return values.Text(*w.Text), nil
	case values.KindBool:
		if w.Bool == nil {
			return values.Value{}, missing(w.Kind)
		}
		return values.Bool(*w.Bool), nil
	case values.KindVector3:
		if w.Vector == nil {
			return values.Value{}, missing(w.Kind)
		}
		return values.Vector(native.NewVector3(w.Vector.X, w.Vector.Y, w.Vector.Z)), nil
	case values.KindSequence, values.KindTuple:
		items := make([]values.Value, len(w.Items))
		for i, iw := range w.Items {
			it, err := Decode(iw)
			if err != nil {
				return values.Value{}, err
			}
			items[i] = it
		}
		if kind == values.KindTuple {
			return values.Tuple(items...), nil
		}
		return values.Sequence(items...)
	case values.KindMapping:
		entries := make(map[string]values.Value, len(w.Entries))
		for k, ew := range w.Entries {
			e, err := Decode(ew)
			if err != nil {
				return values.Value{}, err
			}
			entries[k] = e
		}
		return values.Mapping(entries)
	default:
		return values.Value{}, &errors.ArgumentError{
			Index: -1, Actual: kind.String(), Expected: "wire value", Reason: errCallable.Error(),
		}
	}
}

func missing(kind string) error {
	return decodeErr(kind, fmt.Errorf("missing %s payload", kind))
}

func decodeErr(kind string, err error) error {
	return &errors.WireFormatError{Operation: "decode", Type: kind, Err: err}
}

// EncodeArgs builds a call request from positional arguments.
func EncodeArgs(args ...values.Value) (CallRequestWire, error) {
	req := CallRequestWire{Args: make([]ValueWire, len(args))}
	for i, a := range args {
		w, err := Encode(a)
		if err != nil {
			return CallRequestWire{}, fmt.Errorf("argument %d: %w", i, err)
		}
		req.Args[i] = w
	}
	return req, nil
}

// DecodeArgs converts the arguments of a call request. Argument errors carry
// the position of the offending argument.
func DecodeArgs(req CallRequestWire) ([]values.Value, error) {
	args := make([]values.Value, len(req.Args))
	for i, w := range req.Args {
		v, err := Decode(w)
		if err != nil {
			var argErr *errors.ArgumentError
			if stdErrors.As(err, &argErr) && argErr.Index < 0 {
				argErr.Index = i
			}
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// MarshalRequest encodes positional arguments as a JSON call request.
func MarshalRequest(args ...values.Value) ([]byte, error) {
	req, err := EncodeArgs(args...)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, &errors.WireFormatError{Operation: "marshal", Type: "CallRequestWire", Err: err}
	}
	return data, nil
}

// UnmarshalResponse decodes a JSON call response. A response carrying an
// error is returned as that *ErrorDetail.
func UnmarshalResponse(data []byte) (values.Value, error) {
	var resp CallResponseWire
	if err := json.Unmarshal(data, &resp); err != nil {
		return values.Value{}, &errors.WireFormatError{Operation: "unmarshal", Type: "CallResponseWire", Err: err}
	}
	if resp.Error != nil {
		return values.Value{}, resp.Error
	}
	if resp.Result == nil {
		return values.Value{}, decodeErr("", stdErrors.New("response has neither result nor error"))
	}
	return Decode(*resp.Result)
}

package hostfuncs

import (
	"fmt"

	"github.com/liangz0707/FirstEngine/domain/entities"
	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
)

// Param declares one positional parameter of an operation.
type Param struct {
	// Default is used when the caller omits the argument. Only trailing
	// parameters may have a default.
	Default *values.Value

	Name string

	// Kind is the declared kind. A float parameter also accepts an int.
	Kind values.Kind

	// Elem is the element kind of a sequence or mapping parameter.
	Elem values.Kind
}

// Signature declares the name, parameters and result kind of an operation.
type Signature struct {
	Name   string
	Doc    string
	Params []Param
	Result values.Kind
}

// Arg is shorthand for a required parameter.
func Arg(name string, kind values.Kind) Param {
	return Param{Name: name, Kind: kind}
}

// SeqArg is shorthand for a required sequence or mapping parameter.
func SeqArg(name string, kind, elem values.Kind) Param {
	return Param{Name: name, Kind: kind, Elem: elem}
}

// OptArg is shorthand for a parameter with a default.
func OptArg(name string, kind values.Kind, def values.Value) Param {
	return Param{Name: name, Kind: kind, Default: &def}
}

func (p Param) kindName() string {
	if p.Elem == values.KindInvalid {
		return p.Kind.String()
	}
	return fmt.Sprintf("%s[%s]", p.Kind, p.Elem)
}

// accepts reports whether v can be passed for p without coercion other than
// int to float widening.
func (p Param) accepts(v values.Value) bool {
	k := v.Kind()
	if p.Kind == values.KindFloat {
		return k == values.KindFloat || k == values.KindInt
	}
	if k != p.Kind {
		return false
	}
	switch k {
	case values.KindSequence:
		return p.Elem == values.KindInvalid || elemAccepted(p.Elem, v.ElemKind())
	case values.KindMapping:
		if p.Elem == values.KindInvalid {
			return true
		}
		entries, _ := v.Entries()
		for _, e := range entries {
			if !elemAccepted(p.Elem, e.Kind()) {
				return false
			}
		}
	}
	return true
}

func elemAccepted(want, got values.Kind) bool {
	if got == values.KindInvalid || got == want {
		return true
	}
	return want == values.KindFloat && got == values.KindInt
}

func actualName(v values.Value) string {
	switch v.Kind() {
	case values.KindSequence:
		if v.ElemKind() != values.KindInvalid {
			return fmt.Sprintf("sequence[%s]", v.ElemKind())
		}
	case values.KindMapping:
		entries, _ := v.Entries()
		for _, k := range v.Keys() {
			if e := entries[k]; e.Kind() != values.KindInt {
				return fmt.Sprintf("mapping[%s]", e.Kind())
			}
		}
		if len(entries) > 0 {
			return "mapping[int]"
		}
	}
	return v.Kind().String()
}

func (s Signature) validate() error {
	if s.Name == "" {
		return fmt.Errorf("operation name cannot be empty")
	}
	seenDefault := false
	for i, p := range s.Params {
		if p.Name == "" {
			return fmt.Errorf("operation %q: parameter %d has no name", s.Name, i)
		}
		if p.Default == nil {
			if seenDefault {
				return fmt.Errorf("operation %q: required parameter %q follows a parameter with a default", s.Name, p.Name)
			}
			continue
		}
		seenDefault = true
		if !p.accepts(*p.Default) {
			return fmt.Errorf("operation %q: default for %q is %s, not %s", s.Name, p.Name, p.Default.Kind(), p.kindName())
		}
	}
	return nil
}

// resolve fills omitted trailing arguments from their defaults and checks
// every argument against its declared kind. No argument is converted unless
// all of them are acceptable.
func (s Signature) resolve(args []values.Value) ([]values.Value, error) {
	if len(args) > len(s.Params) {
		return nil, &errors.ArgumentError{
			Operation: s.Name, Index: -1,
			Reason: fmt.Sprintf("takes %d arguments but %d were given", len(s.Params), len(args)),
		}
	}
	out := make([]values.Value, len(s.Params))
	copy(out, args)
	for i := len(args); i < len(s.Params); i++ {
		p := s.Params[i]
		if p.Default == nil {
			return nil, &errors.ArgumentError{
				Operation: s.Name, Index: i, Param: p.Name, Reason: "missing required argument",
			}
		}
		out[i] = *p.Default
	}
	for i, v := range out {
		p := s.Params[i]
		if !p.accepts(v) {
			return nil, &errors.ArgumentError{
				Operation: s.Name, Index: i, Param: p.Name,
				Expected: p.kindName(), Actual: actualName(v),
			}
		}
	}
	return out, nil
}

// Describe renders the signature as a descriptor.
func (s Signature) Describe() entities.OperationDescriptor {
	d := entities.OperationDescriptor{Name: s.Name, Doc: s.Doc, Result: s.Result.String()}
	for _, p := range s.Params {
		pd := entities.ParamDescriptor{Name: p.Name, Kind: p.kindName()}
		if p.Default != nil {
			pd.Default = p.Default.String()
		}
		d.Params = append(d.Params, pd)
	}
	return d
}

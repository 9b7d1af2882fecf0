package hostfuncs

import (
	"context"
	"math"

	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
	"github.com/liangz0707/FirstEngine/native"
)

// ModuleName is the name hosts import the FirstEngine module under.
const ModuleName = "firstengine"

// ModuleDoc is the module docstring.
const ModuleDoc = "FirstEngine bindings - native functions and classes exposed to the host"

// ModuleVersion is the version of the FirstEngine operation set.
const ModuleVersion = "0.1.0"

// Operation pairs a signature with its handler.
type Operation struct {
	Handler   Handler
	Signature Signature
}

// Bundle is a pre-configured set of related operations.
// Bundles allow registering multiple operations at once.
type Bundle interface {
	// Operations returns the operations of the bundle.
	Operations() []Operation
}

// staticBundle implements Bundle with a fixed set of operations.
type staticBundle struct {
	ops []Operation
}

func (b *staticBundle) Operations() []Operation {
	return b.ops
}

// NewBundle groups operations into a bundle.
func NewBundle(ops ...Operation) Bundle {
	return &staticBundle{ops: ops}
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []Bundle
}

func (b *compositeBundle) Operations() []Operation {
	var result []Operation
	for _, bundle := range b.bundles {
		result = append(result, bundle.Operations()...)
	}
	return result
}

// WithBundle registers all operations from a bundle.
func WithBundle(bundle Bundle) RegistryOption {
	return func(b *registryBuilder) {
		for _, op := range bundle.Operations() {
			if err := b.addOperation(op.Signature, op.Handler); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}

// FirstEngineBundle returns every FirstEngine operation: the free functions
// and the Vector3 class surface.
func FirstEngineBundle() Bundle {
	return &compositeBundle{bundles: []Bundle{CoreBundle(), Vector3Bundle()}}
}

// CoreBundle returns the free functions of the FirstEngine module:
// add, multiply, concatenate, process_int_vector, process_float_vector,
// process_map, add_vectors, calculate_distance, process_data,
// get_multiple_values, sum_with_default, call_python_function.
func CoreBundle() Bundle {
	defaults := native.DefaultSumOptions()
	return NewBundle(
		Operation{
			Signature: Signature{
				Name: "add", Doc: "Add two integers", Result: values.KindInt,
				Params: []Param{Arg("a", values.KindInt), Arg("b", values.KindInt)},
			},
			Handler: func(_ context.Context, args Args) (values.Value, error) {
				a, err := args.Int(0)
				if err != nil {
					return values.Value{}, err
				}
				b, err := args.Int(1)
				if err != nil {
					return values.Value{}, err
				}
				return values.Int(native.Add(a, b)), nil
			},
		},
		Operation{
			Signature: Signature{
				Name: "multiply", Doc: "Multiply two floats", Result: values.KindFloat,
				Params: []Param{Arg("a", values.KindFloat), Arg("b", values.KindFloat)},
			},
			Handler: func(_ context.Context, args Args) (values.Value, error) {
				a, err := args.Float(0)
				if err != nil {
					return values.Value{}, err
				}
				b, err := args.Float(1)
				if err != nil {
					return values.Value{}, err
				}
				return values.Float(native.Multiply(a, b)), nil
			},
		},
		Operation{
			Signature: Signature{
				Name: "concatenate", Doc: "Concatenate two strings", Result: values.KindText,
				Params: []Param{Arg("a", values.KindText), Arg("b", values.KindText)},
			},
			Handler: func(_ context.Context, args Args) (values.Value, error) {
				a, err := args.Text(0)
				if err != nil {
					return values.Value{}, err
				}
				b, err := args.Text(1)
				if err != nil {
					return values.Value{}, err
				}
				return values.Text(native.Concatenate(a, b)), nil
			},
		},
		Operation{
			Signature: Signature{
				Name: "process_int_vector", Doc: "Process a vector of integers (multiply each by 2)", Result: values.KindSequence,
				Params: []Param{SeqArg("input", values.KindSequence, values.KindInt)},
			},
			Handler: func(_ context.Context, args Args) (values.Value, error) {
				xs, err := args.IntSequence(0)
				if err != nil {
					return values.Value{}, err
				}
				return values.Ints(native.ProcessIntVector(xs)), nil
			},
		},
		Operation{
			Signature: Signature{
				Name: "process_float_vector", Doc: "Process a vector of floats (square each)", Result: values.KindSequence,
				Params: []Param{SeqArg("input", values.KindSequence, values.KindFloat)},
			},
			Handler: func(_ context.Context, args Args) (values.Value, error) {
				xs, err := args.FloatSequence(0)
				if err != nil {
					return values.Value{}, err
				}
				return values.Floats(native.ProcessFloatVector(xs)), nil
			},
		},
		Operation{
			Signature: Signature{
				Name: "process_map", Doc: "Process a map (multiply values by 10)", Result: values.KindMapping,
				Params: []Param{SeqArg("input", values.KindMapping, values.KindInt)},
			},
			Handler: func(_ context.Context, args Args) (values.Value, error) {
				m, err := args.IntMapping(0)
				if err != nil {
					return values.Value{}, err
				}
				return values.IntMapping(native.ProcessMap(m)), nil
			},
		},
		Operation{
			Signature: Signature{
				Name: "add_vectors", Doc: "Add two Vector3", Result: values.KindVector3,
				Params: []Param{Arg("a", values.KindVector3), Arg("b", values.KindVector3)},
			},
			Handler: vectorPair(func(a, b native.Vector3) values.Value {
				return values.Vector(native.AddVectors(a, b))
			}),
		},
		Operation{
			Signature: Signature{
				Name: "calculate_distance", Doc: "Calculate distance between two Vector3", Result: values.KindFloat,
				Params: []Param{Arg("a", values.KindVector3), Arg("b", values.KindVector3)},
			},
			Handler: vectorPair(func(a, b native.Vector3) values.Value {
				return values.Float(native.CalculateDistance(a, b))
			}),
		},
		Operation{
			Signature: Signature{
				Name: "process_data", Doc: "Process mixed data types", Result: values.KindText,
				Params: []Param{
					Arg("id", values.KindInt),
					Arg("value", values.KindFloat),
					Arg("name", values.KindText),
					SeqArg("numbers", values.KindSequence, values.KindInt),
					Arg("position", values.KindVector3),
				},
			},
			Handler: processData,
		},
		Operation{
			Signature: Signature{
				Name: "get_multiple_values", Doc: "Return multiple values as a tuple", Result: values.KindTuple,
			},
			Handler: func(context.Context, Args) (values.Value, error) {
				i, f, s := native.GetMultipleValues()
				return values.Tuple(values.Int(i), values.Float(f), values.Text(s)), nil
			},
		},
		Operation{
			Signature: Signature{
				Name: "sum_with_default", Doc: "Sum with default values", Result: values.KindInt,
				Params: []Param{
					Arg("a", values.KindInt),
					OptArg("b", values.KindInt, values.Int(defaults.B)),
					OptArg("c", values.KindInt, values.Int(defaults.C)),
				},
			},
			Handler: func(_ context.Context, args Args) (values.Value, error) {
				a, err := args.Int(0)
				if err != nil {
					return values.Value{}, err
				}
				var opts native.SumOptions
				if opts.B, err = args.Int(1); err != nil {
					return values.Value{}, err
				}
				if opts.C, err = args.Int(2); err != nil {
					return values.Value{}, err
				}
				return values.Int(native.SumWithDefault(a, opts)), nil
			},
		},
		Operation{
			Signature: Signature{
				Name: "call_python_function", Doc: "Call a host function from native code", Result: values.KindInt,
				Params: []Param{Arg("value", values.KindInt), Arg("callback", values.KindCallable)},
			},
			Handler: func(ctx context.Context, args Args) (values.Value, error) {
				x, err := args.Int(0)
				if err != nil {
					return values.Value{}, err
				}
				fn, err := args.Callable(1)
				if err != nil {
					return values.Value{}, err
				}
				out, err := native.CallFunction(x, intCallback(ctx, FunctionNameFrom(ctx), fn))
				if err != nil {
					return values.Value{}, err
				}
				return values.Int(out), nil
			},
		},
	)
}

func processData(_ context.Context, args Args) (values.Value, error) {
	id, err := args.Int(0)
	if err != nil {
		return values.Value{}, err
	}
	value, err := args.Float(1)
	if err != nil {
		return values.Value{}, err
	}
	name, err := args.Text(2)
	if err != nil {
		return values.Value{}, err
	}
	numbers, err := args.IntSequence(3)
	if err != nil {
		return values.Value{}, err
	}
	position, err := args.Vector3(4)
	if err != nil {
		return values.Value{}, err
	}
	return values.Text(native.ProcessData(id, value, name, numbers, position)), nil
}

func vectorPair(fn func(a, b native.Vector3) values.Value) Handler {
	return func(_ context.Context, args Args) (values.Value, error) {
		a, err := args.Vector3(0)
		if err != nil {
			return values.Value{}, err
		}
		b, err := args.Vector3(1)
		if err != nil {
			return values.Value{}, err
		}
		return fn(a, b), nil
	}
}

func vectorUnary(fn func(v native.Vector3) values.Value) Handler {
	return func(_ context.Context, args Args) (values.Value, error) {
		v, err := args.Vector3(0)
		if err != nil {
			return values.Value{}, err
		}
		return fn(v), nil
	}
}

func vectorSetter(fn func(v native.Vector3, c float64) native.Vector3) Handler {
	return func(_ context.Context, args Args) (values.Value, error) {
		v, err := args.Vector3(0)
		if err != nil {
			return values.Value{}, err
		}
		c, err := args.Float(1)
		if err != nil {
			return values.Value{}, err
		}
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return values.Value{}, nonFinite(args, 1)
		}
		return values.Vector(fn(v, c)), nil
	}
}

func nonFinite(args Args, i int) error {
	return &errors.ArgumentError{
		Operation: args.op, Index: i, Param: args.params[i].Name,
		Reason: "vector components must be finite",
	}
}

// Vector3Bundle returns the Vector3 class surface. Methods take the receiver
// as their first argument named self; setters return a modified copy.
func Vector3Bundle() Bundle {
	self := Arg("self", values.KindVector3)
	other := Arg("other", values.KindVector3)
	zero := values.Float(0)

	getter := func(name, doc string, get func(native.Vector3) float64) Operation {
		return Operation{
			Signature: Signature{Name: "Vector3." + name, Doc: doc, Result: values.KindFloat, Params: []Param{self}},
			Handler:   vectorUnary(func(v native.Vector3) values.Value { return values.Float(get(v)) }),
		}
	}
	setter := func(name, param, doc string, set func(native.Vector3, float64) native.Vector3) Operation {
		return Operation{
			Signature: Signature{
				Name: "Vector3." + name, Doc: doc, Result: values.KindVector3,
				Params: []Param{self, Arg(param, values.KindFloat)},
			},
			Handler: vectorSetter(set),
		}
	}

	return NewBundle(
		Operation{
			Signature: Signature{
				Name: "Vector3", Doc: "Construct a Vector3", Result: values.KindVector3,
				Params: []Param{
					OptArg("x", values.KindFloat, zero),
					OptArg("y", values.KindFloat, zero),
					OptArg("z", values.KindFloat, zero),
				},
			},
			Handler: func(_ context.Context, args Args) (values.Value, error) {
				var c [3]float64
				for i := range c {
					f, err := args.Float(i)
					if err != nil {
						return values.Value{}, err
					}
					if math.IsNaN(f) || math.IsInf(f, 0) {
						return values.Value{}, nonFinite(args, i)
					}
					c[i] = f
				}
				return values.Vector(native.NewVector3(c[0], c[1], c[2])), nil
			},
		},
		getter("get_x", "Get X component", native.Vector3.GetX),
		getter("get_y", "Get Y component", native.Vector3.GetY),
		getter("get_z", "Get Z component", native.Vector3.GetZ),
		setter("set_x", "x", "Set X component", native.Vector3.WithX),
		setter("set_y", "y", "Set Y component", native.Vector3.WithY),
		setter("set_z", "z", "Set Z component", native.Vector3.WithZ),
		Operation{
			Signature: Signature{Name: "Vector3.dot", Doc: "Dot product", Result: values.KindFloat, Params: []Param{self, other}},
			Handler:   vectorPair(func(a, b native.Vector3) values.Value { return values.Float(a.Dot(b)) }),
		},
		Operation{
			Signature: Signature{Name: "Vector3.length", Doc: "Calculate length", Result: values.KindFloat, Params: []Param{self}},
			Handler:   vectorUnary(func(v native.Vector3) values.Value { return values.Float(v.Length()) }),
		},
		Operation{
			Signature: Signature{Name: "Vector3.normalize", Doc: "Normalize vector", Result: values.KindVector3, Params: []Param{self}},
			Handler:   vectorUnary(func(v native.Vector3) values.Value { return values.Vector(v.Normalize()) }),
		},
		Operation{
			Signature: Signature{Name: "Vector3.__add__", Doc: "Component-wise sum", Result: values.KindVector3, Params: []Param{self, other}},
			Handler:   vectorPair(func(a, b native.Vector3) values.Value { return values.Vector(a.Add(b)) }),
		},
		Operation{
			Signature: Signature{Name: "Vector3.__sub__", Doc: "Component-wise difference", Result: values.KindVector3, Params: []Param{self, other}},
			Handler:   vectorPair(func(a, b native.Vector3) values.Value { return values.Vector(a.Sub(b)) }),
		},
		Operation{
			Signature: Signature{Name: "Vector3.__str__", Doc: "Render as Vector3(x, y, z)", Result: values.KindText, Params: []Param{self}},
			Handler:   vectorUnary(func(v native.Vector3) values.Value { return values.Text(v.String()) }),
		},
	)
}

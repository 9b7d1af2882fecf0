package hostfuncs

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/liangz0707/FirstEngine/domain/entities"
	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
	"github.com/liangz0707/FirstEngine/internal/testutil"
	"github.com/liangz0707/FirstEngine/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFirstEngine(t *testing.T, opts ...RegistryOption) *Registry {
	t.Helper()
	opts = append([]RegistryOption{WithModule(ModuleName, ModuleDoc), WithBundle(FirstEngineBundle())}, opts...)
	reg, err := NewRegistry(opts...)
	require.NoError(t, err)
	return reg
}

func vec(x, y, z float64) values.Value {
	return values.Vector(native.NewVector3(x, y, z))
}

func TestFirstEngineBundle_Names(t *testing.T) {
	reg := newFirstEngine(t)
	for _, name := range []string{
		"add", "multiply", "concatenate",
		"process_int_vector", "process_float_vector", "process_map",
		"add_vectors", "calculate_distance", "process_data",
		"get_multiple_values", "sum_with_default", "call_python_function",
		"Vector3", "Vector3.get_x", "Vector3.set_z", "Vector3.dot", "Vector3.length",
		"Vector3.normalize", "Vector3.__add__", "Vector3.__sub__", "Vector3.__str__",
	} {
		assert.True(t, reg.Has(name), name)
	}
}

func TestScalarOperations(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()

	tests := []struct {
		want values.Value
		name string
		op   string
		args []values.Value
	}{
		{name: "add", op: "add", args: []values.Value{values.Int(2), values.Int(3)}, want: values.Int(5)},
		{name: "add negative", op: "add", args: []values.Value{values.Int(-7), values.Int(7)}, want: values.Int(0)},
		{name: "add wraps", op: "add", args: []values.Value{values.Int(math.MaxInt64), values.Int(1)}, want: values.Int(math.MinInt64)},
		{name: "multiply", op: "multiply", args: []values.Value{values.Float(1.5), values.Float(4)}, want: values.Float(6)},
		{name: "multiply widens ints", op: "multiply", args: []values.Value{values.Int(3), values.Float(0.5)}, want: values.Float(1.5)},
		{name: "concatenate", op: "concatenate", args: []values.Value{values.Text("Hello, "), values.Text("World")}, want: values.Text("Hello, World")},
		{name: "concatenate empty", op: "concatenate", args: []values.Value{values.Text("abc"), values.Text("")}, want: values.Text("abc")},
		{name: "concatenate unicode", op: "concatenate", args: []values.Value{values.Text("引擎"), values.Text("✓")}, want: values.Text("引擎✓")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Call(ctx, tt.op, tt.args...)
			require.NoError(t, err)
			testutil.AssertValue(t, tt.want, got)
		})
	}
}

func TestCollectionOperations(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()

	got, err := reg.Call(ctx, "process_int_vector", values.Ints([]int64{1, 2, 3}))
	require.NoError(t, err)
	testutil.AssertValue(t, values.Ints([]int64{2, 4, 6}), got)

	got, err = reg.Call(ctx, "process_int_vector", values.Ints(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())

	got, err = reg.Call(ctx, "process_float_vector", values.Floats([]float64{1.5, 2}))
	require.NoError(t, err)
	testutil.AssertValue(t, values.Floats([]float64{2.25, 4}), got)

	got, err = reg.Call(ctx, "process_float_vector", values.Ints([]int64{3}))
	require.NoError(t, err)
	testutil.AssertValue(t, values.Floats([]float64{9}), got)

	in := values.IntMapping(map[string]int64{"a": 1, "b": 2, "c": -3})
	got, err = reg.Call(ctx, "process_map", in)
	require.NoError(t, err)
	testutil.AssertValue(t, values.IntMapping(map[string]int64{"a": 10, "b": 20, "c": -30}), got)
	assert.Equal(t, in.Keys(), got.Keys())
}

func TestCollectionOperations_PreserveLength(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()

	for _, n := range []int{0, 1, 7, 100} {
		xs := make([]int64, n)
		fs := make([]float64, n)
		for i := range xs {
			xs[i] = int64(i - n/2)
			fs[i] = float64(i) / 3
		}

		got, err := reg.Call(ctx, "process_int_vector", values.Ints(xs))
		require.NoError(t, err)
		assert.Equal(t, n, got.Len())

		got, err = reg.Call(ctx, "process_float_vector", values.Floats(fs))
		require.NoError(t, err)
		assert.Equal(t, n, got.Len())
	}
}

func TestCollectionOperations_RejectWrongElements(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()

	_, err := reg.Call(ctx, "process_int_vector", values.Floats([]float64{1.5}))
	argErr := testutil.RequireArgumentError(t, err, 0)
	assert.Equal(t, "sequence[int]", argErr.Expected)
	assert.Equal(t, "sequence[float]", argErr.Actual)

	texts, err := values.Sequence(values.Text("a"))
	require.NoError(t, err)
	_, err = reg.Call(ctx, "process_float_vector", texts)
	testutil.RequireArgumentError(t, err, 0)

	floats, err := values.Mapping(map[string]values.Value{"a": values.Float(1)})
	require.NoError(t, err)
	_, err = reg.Call(ctx, "process_map", floats)
	argErr = testutil.RequireArgumentError(t, err, 0)
	assert.Equal(t, "mapping[float]", argErr.Actual)

	_, err = reg.Call(ctx, "process_map", values.Ints([]int64{1}))
	testutil.RequireArgumentError(t, err, 0)
}

func TestNonNumericForInteger(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()

	for _, bad := range []values.Value{values.Text("x"), values.Bool(true), values.Float(1.5), vec(0, 0, 0)} {
		t.Run(bad.Kind().String(), func(t *testing.T) {
			_, err := reg.Call(ctx, "add", bad, values.Int(1))
			assert.True(t, errors.Is(err, bterrors.ErrInvalidArgument))
			testutil.RequireArgumentError(t, err, 0)

			_, err = reg.Call(ctx, "sum_with_default", values.Int(1), bad)
			testutil.RequireArgumentError(t, err, 1)

			_, err = reg.Call(ctx, "call_python_function", bad, values.Callable(nil))
			testutil.RequireArgumentError(t, err, 0)
		})
	}
}

func TestScalarParametersRejectOtherKinds(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()
	identity := values.Callable(values.CallableFunc(func(_ context.Context, args ...values.Value) (values.Value, error) {
		return args[0], nil
	}))
	candidates := []values.Value{values.Int(1), values.Float(1.5), values.Text("x"), values.Bool(true), vec(0, 0, 0)}

	tests := []struct {
		op   string
		good []values.Value
	}{
		{"add", []values.Value{values.Int(1), values.Int(2)}},
		{"multiply", []values.Value{values.Float(1), values.Float(2)}},
		{"concatenate", []values.Value{values.Text("a"), values.Text("b")}},
		{"sum_with_default", []values.Value{values.Int(1), values.Int(2), values.Int(3)}},
		{"call_python_function", []values.Value{values.Int(1), identity}},
		{"process_data", []values.Value{values.Int(1), values.Float(2), values.Text("n"), values.Ints([]int64{1}), vec(1, 2, 3)}},
		{"Vector3", []values.Value{values.Float(1), values.Float(2), values.Float(3)}},
		{"Vector3.set_x", []values.Value{vec(1, 2, 3), values.Float(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			_, err := reg.Call(ctx, tt.op, tt.good...)
			require.NoError(t, err)

			for i, good := range tt.good {
				want := good.Kind()
				if !want.IsScalar() {
					continue
				}
				for _, bad := range candidates {
					if bad.Kind() == want || (want == values.KindFloat && bad.Kind() == values.KindInt) {
						continue
					}
					args := append([]values.Value(nil), tt.good...)
					args[i] = bad
					_, err := reg.Call(ctx, tt.op, args...)
					require.ErrorIs(t, err, bterrors.ErrInvalidArgument, "%s arg %d = %s", tt.op, i, bad.Kind())
					argErr := testutil.RequireArgumentError(t, err, i)
					assert.Equal(t, want.String(), argErr.Expected)
				}
			}
		})
	}
}

func TestVectorOperations(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()
	a, b := vec(1, 2, 3), vec(4, 5, 6)

	call := func(op string, args ...values.Value) values.Value {
		t.Helper()
		v, err := reg.Call(ctx, op, args...)
		require.NoError(t, err)
		return v
	}

	testutil.AssertValue(t, vec(5, 7, 9), call("Vector3.__add__", a, b))
	testutil.AssertValue(t, vec(-3, -3, -3), call("Vector3.__sub__", a, b))
	testutil.AssertValue(t, values.Float(32), call("Vector3.dot", a, b))
	testutil.AssertValue(t, vec(5, 7, 9), call("add_vectors", a, b))
	testutil.AssertValue(t, call("add_vectors", a, b), call("add_vectors", b, a))

	d1, _ := call("calculate_distance", a, b).AsFloat()
	d2, _ := call("calculate_distance", b, a).AsFloat()
	testutil.AssertFloatNear(t, math.Sqrt(27), d1)
	assert.Equal(t, d1, d2)

	l, _ := call("Vector3.length", vec(3, 4, 0)).AsFloat()
	testutil.AssertFloatNear(t, 5, l)

	n, _ := call("Vector3.normalize", vec(3, 4, 12)).AsVector3()
	testutil.AssertFloatNear(t, 1, n.Length())
	testutil.AssertValue(t, vec(0, 0, 0), call("Vector3.normalize", vec(0, 0, 0)))
	for _, small := range []values.Value{vec(1e-5, 0, 0), vec(5e-5, 5e-5, 0), vec(1e200, 1e200, 1e200)} {
		n, _ := call("Vector3.normalize", small).AsVector3()
		testutil.AssertFloatNear(t, 1, n.Length(), "normalize(%s)", small)
	}

	testutil.AssertValue(t, values.Text("Vector3(1, 2, 3)"), call("Vector3.__str__", a))
}

func TestVector3Class(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()

	v, err := reg.Call(ctx, "Vector3")
	require.NoError(t, err)
	testutil.AssertValue(t, vec(0, 0, 0), v)

	v, err = reg.Call(ctx, "Vector3", values.Int(1), values.Float(2.5))
	require.NoError(t, err)
	testutil.AssertValue(t, vec(1, 2.5, 0), v)

	x, err := reg.Call(ctx, "Vector3.get_y", v)
	require.NoError(t, err)
	testutil.AssertValue(t, values.Float(2.5), x)

	moved, err := reg.Call(ctx, "Vector3.set_z", v, values.Float(9))
	require.NoError(t, err)
	testutil.AssertValue(t, vec(1, 2.5, 9), moved)
	testutil.AssertValue(t, vec(1, 2.5, 0), v)

	_, err = reg.Call(ctx, "Vector3", values.Float(1), values.Float(math.NaN()))
	argErr := testutil.RequireArgumentError(t, err, 1)
	assert.Equal(t, "y", argErr.Param)

	_, err = reg.Call(ctx, "Vector3.set_x", v, values.Float(math.Inf(1)))
	testutil.RequireArgumentError(t, err, 1)

	_, err = reg.Call(ctx, "Vector3.dot", v, values.Int(1))
	argErr = testutil.RequireArgumentError(t, err, 1)
	assert.Equal(t, "other", argErr.Param)
}

func TestProcessData(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()

	got, err := reg.Call(ctx, "process_data",
		values.Int(42), values.Float(3.14), values.Text("Test"),
		values.Ints([]int64{10, 20, 30}), vec(1.5, 2.5, 3.5))
	require.NoError(t, err)
	testutil.AssertValue(t,
		values.Text("ID: 42, Value: 3.14, Name: Test, Numbers: [10, 20, 30], Position: Vector3(1.5, 2.5, 3.5)"),
		got)

	_, err = reg.Call(ctx, "process_data",
		values.Int(42), values.Float(3.14), values.Text("Test"),
		values.Ints([]int64{10}), values.Text("not a vector"))
	argErr := testutil.RequireArgumentError(t, err, 4)
	assert.Equal(t, "position", argErr.Param)
	assert.Equal(t, "vector3", argErr.Expected)
}

func TestGetMultipleValues(t *testing.T) {
	reg := newFirstEngine(t)

	got, err := reg.Call(context.Background(), "get_multiple_values")
	require.NoError(t, err)
	assert.Equal(t, values.KindTuple, got.Kind())

	var (
		i int64
		f float64
		s string
	)
	require.NoError(t, values.Unpack(got, &i, &f, &s))
	assert.Equal(t, int64(42), i)
	testutil.AssertFloatNear(t, 3.14, f)
	assert.Equal(t, "Hello from C++", s)
}

func TestSumWithDefault(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()

	tests := []struct {
		args []values.Value
		want int64
	}{
		{args: []values.Value{values.Int(5)}, want: 35},
		{args: []values.Value{values.Int(5), values.Int(15)}, want: 40},
		{args: []values.Value{values.Int(5), values.Int(15), values.Int(25)}, want: 45},
	}
	for _, tt := range tests {
		got, err := reg.Call(ctx, "sum_with_default", tt.args...)
		require.NoError(t, err)
		testutil.AssertValue(t, values.Int(tt.want), got)
	}

	_, err := reg.Call(ctx, "sum_with_default")
	testutil.RequireArgumentError(t, err, 0)
}

func TestCallPythonFunction(t *testing.T) {
	reg := newFirstEngine(t)
	ctx := context.Background()

	square := values.MustFrom(func(x int64) int64 { return x * x })

	t.Run("round trip", func(t *testing.T) {
		got, err := reg.Call(ctx, "call_python_function", values.Int(5), square)
		require.NoError(t, err)
		testutil.AssertValue(t, values.Int(25), got)
	})

	t.Run("empty callable returns the value", func(t *testing.T) {
		got, err := reg.Call(ctx, "call_python_function", values.Int(7), values.Callable(nil))
		require.NoError(t, err)
		testutil.AssertValue(t, values.Int(7), got)
	})

	t.Run("callable error", func(t *testing.T) {
		boom := errors.New("boom")
		failing := values.MustFrom(func(int64) (int64, error) { return 0, boom })
		_, err := reg.Call(ctx, "call_python_function", values.Int(5), failing)
		assert.True(t, errors.Is(err, bterrors.ErrHostCallback))
		assert.ErrorIs(t, err, boom)
		detail := testutil.RequireErrorType(t, err, bterrors.TypeHostCallback)
		assert.Equal(t, "call_python_function", detail.Code)
	})

	t.Run("callable forwards a structured error", func(t *testing.T) {
		guestErr := &entities.ErrorDetail{Type: bterrors.TypeInvalidArgument, Message: "guest rejected", Code: "add"}
		forwarding := values.Callable(values.CallableFunc(func(context.Context, ...values.Value) (values.Value, error) {
			return values.Value{}, guestErr
		}))
		_, err := reg.Call(ctx, "call_python_function", values.Int(5), forwarding)
		assert.ErrorIs(t, err, bterrors.ErrHostCallback)
		detail := testutil.RequireErrorType(t, err, bterrors.TypeHostCallback)
		require.NotNil(t, detail.Wrapped)
		assert.Equal(t, bterrors.TypeInvalidArgument, detail.Wrapped.Type)
	})

	t.Run("callable panic", func(t *testing.T) {
		panicking := values.MustFrom(func(int64) int64 { panic("host exploded") })
		_, err := reg.Call(ctx, "call_python_function", values.Int(5), panicking)
		assert.True(t, errors.Is(err, bterrors.ErrHostCallback))
		assert.Contains(t, err.Error(), "host exploded")
	})

	t.Run("non-int result", func(t *testing.T) {
		texty := values.Callable(values.CallableFunc(func(context.Context, ...values.Value) (values.Value, error) {
			return values.Text("25"), nil
		}))
		_, err := reg.Call(ctx, "call_python_function", values.Int(5), texty)
		assert.True(t, errors.Is(err, bterrors.ErrHostCallback))
		assert.True(t, errors.Is(err, bterrors.ErrTypeMismatch))
	})

	t.Run("callable re-enters the registry", func(t *testing.T) {
		var depth int
		var reenter values.CallableFunc
		reenter = func(ctx context.Context, args ...values.Value) (values.Value, error) {
			depth++
			x, err := args[0].AsInt()
			if err != nil {
				return values.Value{}, err
			}
			if x >= 3 {
				return values.Int(x), nil
			}
			next, err := reg.Call(ctx, "add", values.Int(x), values.Int(1))
			if err != nil {
				return values.Value{}, err
			}
			return reg.Call(ctx, "call_python_function", next, values.Callable(reenter))
		}

		got, err := reg.Call(ctx, "call_python_function", values.Int(0), values.Callable(reenter))
		require.NoError(t, err)
		testutil.AssertValue(t, values.Int(3), got)
		assert.Equal(t, 4, depth)
	})

	t.Run("callable sees the caller context", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "marker")
		var seen any
		probe := values.Callable(values.CallableFunc(func(ctx context.Context, args ...values.Value) (values.Value, error) {
			seen = ctx.Value(key{})
			return args[0], nil
		}))
		_, err := reg.Call(ctx, "call_python_function", values.Int(1), probe)
		require.NoError(t, err)
		assert.Equal(t, "marker", seen)
	})
}

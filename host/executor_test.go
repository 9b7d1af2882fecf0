package host

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/liangz0707/FirstEngine/domain/entities"
	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
	"github.com/liangz0707/FirstEngine/hostfuncs"
	"github.com/liangz0707/FirstEngine/internal/testutil"
	"github.com/liangz0707/FirstEngine/log"
	"github.com/liangz0707/FirstEngine/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutor(t *testing.T, opts ...Option) *Executor {
	t.Helper()
	ctx := context.Background()
	e, err := NewExecutor(ctx, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close(ctx) })
	return e
}

func TestNewExecutor(t *testing.T) {
	e := newExecutor(t)
	require.NotNil(t, e.Registry())
	assert.Equal(t, hostfuncs.ModuleName, e.Registry().Module())
	assert.True(t, e.Registry().Has("add"))
	assert.True(t, e.Registry().Has("Vector3.normalize"))
	assert.NotNil(t, e.runtime.Module(hostfuncs.ModuleName))
	assert.NotNil(t, e.runtime.Module("wasi_snapshot_preview1"))
}

func TestNewExecutor_WithoutWASI(t *testing.T) {
	e := newExecutor(t, WithWASI(false))
	assert.Nil(t, e.runtime.Module("wasi_snapshot_preview1"))
}

func TestExecutor_GuestCall(t *testing.T) {
	ctx := context.Background()
	e := newExecutor(t)

	g, err := e.LoadGuest(ctx, "adder", testutil.GuestModule(hostfuncs.ModuleName, "add", true))
	require.NoError(t, err)
	assert.Equal(t, "adder", g.Name())

	v, err := g.Call(ctx, "call_add", values.Int(2), values.Int(3))
	require.NoError(t, err)
	testutil.AssertValue(t, values.Int(5), v)

	_, err = g.Call(ctx, "call_add", values.Text("two"), values.Int(3))
	detail := testutil.RequireErrorType(t, err, bterrors.TypeInvalidArgument)
	assert.Equal(t, "add", detail.Code)

	_, err = g.Call(ctx, "missing_export")
	assert.Error(t, err)

	require.NoError(t, g.Close(ctx))
}

func TestExecutor_VectorGuest(t *testing.T) {
	ctx := context.Background()
	e := newExecutor(t)

	g, err := e.LoadGuest(ctx, "vectors", testutil.GuestModule(hostfuncs.ModuleName, "Vector3.normalize", true))
	require.NoError(t, err)

	v, err := g.Call(ctx, "call_Vector3.normalize", values.Vector(native.NewVector3(3, 0, 4)))
	require.NoError(t, err)
	got, err := v.AsVector3()
	require.NoError(t, err)
	testutil.AssertVectorNear(t, native.NewVector3(0.6, 0, 0.8), got)
}

func TestExecutor_LoadGuest_Unavailable(t *testing.T) {
	ctx := context.Background()

	loader := NewLoader()
	vectorsOnly, err := loader.Load(&entities.ModuleManifest{
		Module:  hostfuncs.ModuleName,
		Exports: []string{"Vector3*"},
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		opts   []Option
		guest  []byte
		module string
	}{
		{
			name:   "unknown module",
			guest:  testutil.GuestModule("physics", "step", true),
			module: "physics",
		},
		{
			name:   "unknown function",
			guest:  testutil.GuestModule(hostfuncs.ModuleName, "teleport", true),
			module: hostfuncs.ModuleName,
		},
		{
			name:   "function not exported",
			opts:   []Option{WithRegistry(vectorsOnly)},
			guest:  testutil.GuestModule(hostfuncs.ModuleName, "add", true),
			module: hostfuncs.ModuleName,
		},
		{
			name:   "wasi disabled",
			opts:   []Option{WithWASI(false)},
			guest:  testutil.GuestModule("wasi_snapshot_preview1", "fd_write", true),
			module: "wasi_snapshot_preview1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newExecutor(t, tt.opts...)
			_, err := e.LoadGuest(ctx, "guest", tt.guest)
			require.ErrorIs(t, err, bterrors.ErrModuleUnavailable)

			var unavailable *bterrors.ModuleUnavailableError
			require.ErrorAs(t, err, &unavailable)
			assert.Equal(t, tt.module, unavailable.Module)
			assert.Nil(t, e.runtime.Module("guest"), "guest must not be instantiated")
		})
	}
}

func TestExecutor_LoadGuest_InvalidBinary(t *testing.T) {
	e := newExecutor(t)
	_, err := e.LoadGuest(context.Background(), "junk", []byte("not wasm"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile module")
}

func TestExecutor_LogMessage(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	e := newExecutor(t, WithLogger(log.New(&buf, log.WithJSON(true))))

	g, err := e.LoadGuest(ctx, "logger", testutil.GuestModule(hostfuncs.ModuleName, "log_message", false))
	require.NoError(t, err)

	payload := []byte(`{"level":"WARN","message":"from guest","attrs":[{"key":"n","type":"int64","value":"7"}]}`)
	_, err = g.callRaw(ctx, "call_log_message", payload)
	require.ErrorIs(t, err, ErrNullResponse)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "from guest", line["msg"])
	assert.Equal(t, "logger", line["guest"])
	assert.Equal(t, float64(7), line["n"])
}

func TestExecutor_GuestOutput(t *testing.T) {
	ctx := context.Background()
	e := newExecutor(t, WithOutputLimit(16))
	assert.Equal(t, 16, e.output)

	g, err := e.LoadGuest(ctx, "quiet", testutil.GuestModule(hostfuncs.ModuleName, "add", true))
	require.NoError(t, err)
	require.NotNil(t, g.Stdout())
	require.NotNil(t, g.Stderr())
	assert.Empty(t, g.Stdout().String())
	assert.False(t, g.Stderr().Truncated())

	assert.Equal(t, DefaultMaxOutputSize, newExecutor(t, WithOutputLimit(0)).output)
}

func TestExecutor_LoadGuest_DuplicateName(t *testing.T) {
	ctx := context.Background()
	e := newExecutor(t)
	wasm := testutil.GuestModule(hostfuncs.ModuleName, "add", true)

	_, err := e.LoadGuest(ctx, "twice", wasm)
	require.NoError(t, err)

	_, err = e.LoadGuest(ctx, "twice", wasm)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to instantiate module")

	g, err := e.LoadGuest(ctx, "again", wasm)
	require.NoError(t, err, "a failed instantiation leaves the runtime usable")
	assert.Equal(t, "again", g.Name())
}

package registry_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
	"github.com/liangz0707/FirstEngine/host/registry"
	"github.com/liangz0707/FirstEngine/hostfuncs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoBundle() hostfuncs.Bundle {
	return hostfuncs.NewBundle(hostfuncs.Operation{
		Signature: hostfuncs.Signature{
			Name:   "echo",
			Doc:    "Return the argument",
			Params: []hostfuncs.Param{hostfuncs.Arg("x", values.KindInt)},
			Result: values.KindInt,
		},
		Handler: func(_ context.Context, args hostfuncs.Args) (values.Value, error) {
			return args.Value(0), nil
		},
	})
}

func TestBuiltin(t *testing.T) {
	reg := registry.Builtin()
	assert.Equal(t, []string{hostfuncs.ModuleName}, reg.Names())

	d, err := reg.Describe(hostfuncs.ModuleName)
	require.NoError(t, err)
	assert.Equal(t, hostfuncs.ModuleDoc, d.Doc)
	assert.Equal(t, hostfuncs.ModuleVersion, d.Version)

	for _, name := range []string{"add", "sum_with_default", "call_python_function", "Vector3", "Vector3.normalize"} {
		_, ok := d.Operation(name)
		assert.True(t, ok, name)
	}

	s, ok := reg.Schema(hostfuncs.ModuleName, "sum_with_default")
	require.True(t, ok)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, float64(1), decoded["minItems"])
	assert.Equal(t, float64(3), decoded["maxItems"])
}

func TestRegistry_Lookup(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register("echo", "echo module", echoBundle()))

	m, err := reg.Lookup("echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", m.Descriptor.Name)
	assert.Len(t, m.Bundle.Operations(), 1)

	_, err = reg.Lookup("missing")
	require.ErrorIs(t, err, bterrors.ErrModuleUnavailable)
	require.ErrorIs(t, err, registry.ErrNotRegistered)
	assert.Equal(t, bterrors.TypeModuleUnavailable, bterrors.ToErrorDetail(err).Type)

	_, err = reg.Describe("missing")
	require.ErrorIs(t, err, bterrors.ErrModuleUnavailable)

	_, ok := reg.Schema("missing", "echo")
	assert.False(t, ok)
	_, ok = reg.Schema("echo", "missing")
	assert.False(t, ok)
}

func TestRegistry_Register(t *testing.T) {
	t.Run("strict mode rejects duplicates", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register("echo", "", echoBundle()))
		err := reg.Register("echo", "", echoBundle())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("lenient mode replaces", func(t *testing.T) {
		reg := registry.NewRegistry(registry.WithStrictMode(false))
		require.NoError(t, reg.Register("echo", "first", echoBundle()))
		require.NoError(t, reg.Register("echo", "second", echoBundle()))
		d, err := reg.Describe("echo")
		require.NoError(t, err)
		assert.Equal(t, "second", d.Doc)
	})

	t.Run("empty name", func(t *testing.T) {
		assert.Error(t, registry.NewRegistry().Register("", "", echoBundle()))
	})

	t.Run("malformed bundle", func(t *testing.T) {
		bundle := hostfuncs.NewBundle(echoBundle().Operations()[0], echoBundle().Operations()[0])
		err := registry.NewRegistry().Register("twice", "", bundle)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate operation name")
	})
}

func TestRegistry_Describe_ReturnsCopy(t *testing.T) {
	reg := registry.Builtin()
	d, err := reg.Describe(hostfuncs.ModuleName)
	require.NoError(t, err)
	d.Operations[0].Name = "mutated"

	again, err := reg.Describe(hostfuncs.ModuleName)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Operations[0].Name)
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := registry.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.Register("echo", "", echoBundle())
			_, _ = reg.Lookup("echo")
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"echo"}, reg.Names())
}

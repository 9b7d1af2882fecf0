package schema

import (
	"encoding/json"
	"testing"

	"github.com/liangz0707/FirstEngine/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestGenerateSchema_SimpleStruct(t *testing.T) {
	type SimpleConfig struct {
		Module string `json:"module"`
		Limit  int    `json:"limit,omitempty"`
	}

	schema, err := GenerateSchema(SimpleConfig{})
	require.NoError(t, err)

	decoded := decode(t, schema)
	properties, ok := decoded["properties"].(map[string]any)
	require.True(t, ok, "properties should be a map")
	assert.Contains(t, properties, "module")
	assert.Contains(t, properties, "limit")

	required, ok := decoded["required"].([]any)
	require.True(t, ok, "required should be an array")
	assert.Equal(t, []any{"module"}, required)
}

func TestWireSchemas(t *testing.T) {
	schemas, err := WireSchemas()
	require.NoError(t, err)
	require.Len(t, schemas, 4)

	value := decode(t, schemas["value"])
	assert.Equal(t, "#/$defs/ValueWire", value["$ref"])
	defs, ok := value["$defs"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, defs, "ValueWire")
	assert.Contains(t, defs, "Vector3Wire")

	wire := defs["ValueWire"].(map[string]any)
	props := wire["properties"].(map[string]any)
	for _, key := range []string{"kind", "int", "float", "text", "bool", "vector", "items", "entries"} {
		assert.Contains(t, props, key)
	}

	assert.Contains(t, string(schemas["request"]), "CallRequestWire")
	assert.Contains(t, string(schemas["response"]), "ErrorDetail")
	assert.Contains(t, string(schemas["module"]), "OperationDescriptor")
}

func TestOperationSchema(t *testing.T) {
	op := entities.OperationDescriptor{
		Name:   "sum_with_default",
		Doc:    "Sum with default parameters",
		Result: "int",
		Params: []entities.ParamDescriptor{
			{Name: "a", Kind: "int"},
			{Name: "b", Kind: "int", Default: "10"},
			{Name: "c", Kind: "int", Default: "20"},
		},
	}

	data, err := OperationSchema(op)
	require.NoError(t, err)

	s := decode(t, data)
	assert.Equal(t, "sum_with_default", s["title"])
	assert.Equal(t, "Sum with default parameters", s["description"])
	assert.Equal(t, "array", s["type"])
	assert.Equal(t, float64(1), s["minItems"])
	assert.Equal(t, float64(3), s["maxItems"])
	assert.Equal(t, false, s["items"])

	items, ok := s["prefixItems"].([]any)
	require.True(t, ok)
	require.Len(t, items, 3)
	first := items[0].(map[string]any)
	assert.Equal(t, "a", first["title"])
	assert.Equal(t, "int", first["description"])
	assert.Equal(t, "#/$defs/ValueWire", first["$ref"])
	assert.Equal(t, "default 10", items[1].(map[string]any)["$comment"])

	assert.Contains(t, s["$defs"], "ValueWire")
}

func TestOperationSchema_NoParams(t *testing.T) {
	data, err := OperationSchema(entities.OperationDescriptor{Name: "get_multiple_values", Result: "tuple"})
	require.NoError(t, err)

	s := decode(t, data)
	assert.Equal(t, float64(0), s["minItems"])
	assert.Equal(t, float64(0), s["maxItems"])
}

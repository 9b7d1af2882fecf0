// Package schema generates JSON Schemas for the wire format and for the
// argument lists of exported operations.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/liangz0707/FirstEngine/domain/entities"
	"github.com/liangz0707/FirstEngine/wireformat"
)

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	return marshal(reflector.Reflect(v))
}

// WireSchemas returns the schemas of the documents crossing the JSON byte
// surface, keyed by document name. Values nest, so types are kept as $defs
// rather than expanded.
func WireSchemas() (map[string][]byte, error) {
	docs := map[string]any{
		"value":    &wireformat.ValueWire{},
		"request":  &wireformat.CallRequestWire{},
		"response": &wireformat.CallResponseWire{},
		"module":   &entities.ModuleDescriptor{},
	}

	out := make(map[string][]byte, len(docs))
	for name, v := range docs {
		reflector := jsonschema.Reflector{}
		data, err := marshal(reflector.Reflect(v))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

// OperationSchema describes the positional argument list of an operation as
// a JSON array schema. Every item refers to the ValueWire definition; its
// title is the parameter name and its description the declared kind.
func OperationSchema(op entities.OperationDescriptor) ([]byte, error) {
	reflector := jsonschema.Reflector{}
	value := reflector.Reflect(&wireformat.ValueWire{})

	items := make([]*jsonschema.Schema, 0, len(op.Params))
	required := uint64(0)
	for _, p := range op.Params {
		item := &jsonschema.Schema{
			Ref:         value.Ref,
			Title:       p.Name,
			Description: p.Kind,
		}
		if p.Required() {
			required++
		} else {
			item.Comments = "default " + p.Default
		}
		items = append(items, item)
	}
	total := uint64(len(op.Params))

	s := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       op.Name,
		Description: op.Doc,
		Type:        "array",
		PrefixItems: items,
		Items:       jsonschema.FalseSchema,
		MinItems:    &required,
		MaxItems:    &total,
		Definitions: value.Definitions,
	}
	return marshal(s)
}

func marshal(s *jsonschema.Schema) ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return jsonBytes, nil
}

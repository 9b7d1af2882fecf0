package parser_test

import (
	"testing"

	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/infrastructure/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYamlManifestParser_Parse(t *testing.T) {
	p := parser.NewYamlManifestParser()

	m, err := p.Parse([]byte(`
module: firstengine
version: "1.0.0"
doc: Vector helpers
exports:
  - "Vector3*"
  - add
limits:
  max_sequence_length: 8
  max_request_size: 4096
`))
	require.NoError(t, err)
	assert.Equal(t, "firstengine", m.Module)
	assert.Equal(t, "1.0.0", m.Version)
	assert.Equal(t, "Vector helpers", m.Doc)
	assert.Equal(t, []string{"Vector3*", "add"}, m.Exports)
	assert.Equal(t, 8, m.Limits.MaxSequenceLength)
	assert.Equal(t, uint32(4096), m.Limits.MaxRequestSize)
}

func TestYamlManifestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"malformed", "module: [firstengine"},
		{"unknown key", "module: firstengine\ncapabilities: []"},
		{"wrong type", "exports: add"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.NewYamlManifestParser().Parse([]byte(tt.data))
			var cfgErr *bterrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestYamlManifestParser_UnknownFieldsAllowed(t *testing.T) {
	p := parser.NewYamlManifestParser(parser.WithKnownFields(false))
	m, err := p.Parse([]byte("module: firstengine\nextra: true"))
	require.NoError(t, err)
	assert.Equal(t, "firstengine", m.Module)
}

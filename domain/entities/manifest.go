package entities

// ModuleManifest declares which native module a host loads and how the
// boundary in front of it is configured.
type ModuleManifest struct {
	// Module is the name of the native module in the catalog.
	Module string `json:"module" yaml:"module" validate:"required"`

	// Version is the expected module version. Empty accepts any version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Doc overrides the module docstring.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Exports are doublestar patterns matched against operation names.
	// An operation is exported when any pattern matches it.
	Exports []string `json:"exports,omitempty" yaml:"exports,omitempty" validate:"dive,required,glob"`

	Limits ManifestLimits `json:"limits" yaml:"limits"`
}

// ManifestLimits bounds the size of values crossing the boundary.
// Zero selects the default limit.
type ManifestLimits struct {
	MaxSequenceLength int    `json:"max_sequence_length" yaml:"max_sequence_length" validate:"gte=0"`
	MaxRequestSize    uint32 `json:"max_request_size" yaml:"max_request_size"`
}

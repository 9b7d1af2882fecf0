package entities

// ModuleDescriptor describes a native module and the operations it exports.
type ModuleDescriptor struct {
	// Name is the module name hosts import.
	Name string `json:"name" yaml:"name"`

	// Doc is the module docstring.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Version is the module version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Operations lists the exported operations sorted by name.
	Operations []OperationDescriptor `json:"operations" yaml:"operations"`
}

// OperationDescriptor describes the signature of one exported operation.
type OperationDescriptor struct {
	Name   string            `json:"name" yaml:"name"`
	Doc    string            `json:"doc,omitempty" yaml:"doc,omitempty"`
	Result string            `json:"result" yaml:"result"`
	Params []ParamDescriptor `json:"params,omitempty" yaml:"params,omitempty"`
}

// ParamDescriptor describes one positional parameter.
type ParamDescriptor struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`

	// Default is the rendered default value; empty when the parameter is required.
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
}

// Required reports whether the parameter has no default.
func (p ParamDescriptor) Required() bool {
	return p.Default == ""
}

// Operation returns the descriptor for name.
func (m *ModuleDescriptor) Operation(name string) (OperationDescriptor, bool) {
	for _, op := range m.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return OperationDescriptor{}, false
}

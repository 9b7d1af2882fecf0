package values

// Kind is the tag of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
	KindSequence
	KindMapping
	KindVector3
	KindTuple
	KindCallable
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindInt:      "int",
	KindFloat:    "float",
	KindText:     "text",
	KindBool:     "bool",
	KindSequence: "sequence",
	KindMapping:  "mapping",
	KindVector3:  "vector3",
	KindTuple:    "tuple",
	KindCallable: "callable",
}

// String returns the lower-case name of k.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether k is one of int, float, text or bool.
func (k Kind) IsScalar() bool {
	return k >= KindInt && k <= KindBool
}

// ParseKind maps a name produced by Kind.String back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

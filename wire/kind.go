package wire

// Kind is the wire value kind observed on the MessagePack stream.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindUint
	KindInt
	KindFloat
	KindRaw
	KindArray
	KindMap
	KindExtension

	// NumKinds sizes tables indexed by Kind.
	NumKinds = int(KindExtension) + 1
)

var kindNames = [...]string{
	KindNil:       "nil",
	KindBool:      "bool",
	KindUint:      "uint",
	KindInt:       "int",
	KindFloat:     "float",
	KindRaw:       "raw",
	KindArray:     "array",
	KindMap:       "map",
	KindExtension: "extension",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k takes part in array homogeneity analysis.
func (k Kind) IsPrimitive() bool {
	return k >= KindBool && k <= KindFloat
}

// IsContainer reports whether values of k hold nested values.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindMap
}

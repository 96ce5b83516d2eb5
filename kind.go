package morph

// Kind identifies the shape of a descriptor.
type Kind uint8

const (
	// KindInt describes a Go int.
	KindInt Kind = iota + 1

	// KindInt32 describes an int32.
	KindInt32

	// KindInt64 describes an int64.
	KindInt64

	// KindBool describes a bool.
	KindBool

	// KindFloat describes a float64.
	KindFloat

	// KindString describes a string.
	KindString

	// KindChar describes a byte holding a code point in 0-255.
	KindChar

	// KindDateTime describes a timestamp carried as text.
	KindDateTime

	// KindArray describes a fixed array of elements.
	KindArray

	// KindList describes an ordered list of elements.
	KindList

	// KindDict describes a dictionary keyed by a scalar.
	KindDict

	// KindUnit describes the unit type, encoded as Null.
	KindUnit

	// KindOption describes an optional value.
	KindOption

	// KindPair describes a two-element tuple.
	KindPair

	// KindStruct describes a named structure with registered fields.
	KindStruct

	// KindVariant describes a named tagged union with registered tags.
	KindVariant
)

var kindNames = map[Kind]string{
	KindInt:      "int",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindBool:     "bool",
	KindFloat:    "float",
	KindString:   "string",
	KindChar:     "char",
	KindDateTime: "datetime",
	KindArray:    "array",
	KindList:     "list",
	KindDict:     "dict",
	KindUnit:     "unit",
	KindOption:   "option",
	KindPair:     "pair",
	KindStruct:   "struct",
	KindVariant:  "variant",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// scalarKinds contains the kinds that map onto a single scalar value.
var scalarKinds = map[Kind]bool{
	KindInt:      true,
	KindInt32:    true,
	KindInt64:    true,
	KindBool:     true,
	KindFloat:    true,
	KindString:   true,
	KindChar:     true,
	KindDateTime: true,
}

// keyKinds contains the kinds accepted as dictionary keys.
var keyKinds = map[Kind]bool{
	KindInt:    true,
	KindInt32:  true,
	KindInt64:  true,
	KindBool:   true,
	KindString: true,
	KindChar:   true,
}

// IsScalar returns true if the kind is a scalar kind.
func (k Kind) IsScalar() bool {
	return scalarKinds[k]
}

// IsValidKeyKind returns true if descriptors of this kind can key a Dict.
func IsValidKeyKind(k Kind) bool {
	return keyKinds[k]
}

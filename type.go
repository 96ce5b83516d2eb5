package morph

import (
	"github.com/zoobzio/morph/result"
	"github.com/zoobzio/morph/value"
)

// Descriptor is the untyped view of a Type, used for introspection, schema
// rendering and fingerprinting.
type Descriptor interface {
	// Kind returns the descriptor shape.
	Kind() Kind

	// Name returns the documentation name. Empty unless set by Named,
	// NewStruct, NewVariant or Convert.
	Name() string

	// Description returns the human-readable documentation.
	Description() string

	// Children returns the component descriptors: the element of arrays,
	// lists and options, the key and element of dicts, both sides of pairs.
	Children() []Descriptor

	// Fields returns the registered fields of a structure.
	Fields() []FieldInfo

	// Tags returns the registered tags of a variant.
	Tags() []TagInfo

	// String returns the type expression, e.g. "list<option<int>>".
	String() string
}

// FieldInfo describes one registered structure field.
type FieldInfo struct {
	Name        string
	Description string
	Type        Descriptor
}

// TagInfo describes one registered variant tag.
type TagInfo struct {
	Name        string
	Description string
	Type        Descriptor
}

// Type describes the native Go type T and converts it to and from value.Value.
//
// Types are built once, typically at package initialization, and are safe for
// concurrent use afterwards.
type Type[T any] struct {
	kind     Kind
	name     string
	desc     string
	children []Descriptor
	fields   func() []FieldInfo
	tags     func() []TagInfo
	layout   string
	encode   func(T) value.Value
	decode   func(value.Value) (T, error)
}

var _ Descriptor = (*Type[int])(nil)

// Kind returns the descriptor shape.
func (t *Type[T]) Kind() Kind { return t.kind }

// Name returns the documentation name.
func (t *Type[T]) Name() string { return t.name }

// Description returns the documentation text.
func (t *Type[T]) Description() string { return t.desc }

// Children returns the component descriptors.
func (t *Type[T]) Children() []Descriptor { return t.children }

// Fields returns the registered fields of a structure, nil otherwise.
func (t *Type[T]) Fields() []FieldInfo {
	if t.fields == nil {
		return nil
	}
	return t.fields()
}

// Tags returns the registered tags of a variant, nil otherwise.
func (t *Type[T]) Tags() []TagInfo {
	if t.tags == nil {
		return nil
	}
	return t.tags()
}

// timeLayout returns the layout of a Time descriptor, empty otherwise.
func (t *Type[T]) timeLayout() string { return t.layout }

// String returns the type expression.
func (t *Type[T]) String() string {
	return typeExpr(t)
}

// Encode converts a native value to its dynamic form.
//
// Encode panics with a *SchemaError when a variant has no tag matching the
// value; that is a descriptor bug, not a data error.
func (t *Type[T]) Encode(v T) value.Value {
	return t.encode(v)
}

// Decode converts a dynamic value to the native type.
func (t *Type[T]) Decode(v value.Value) (T, error) {
	return t.decode(v)
}

// DecodeResult is Decode in Result form.
func (t *Type[T]) DecodeResult(v value.Value) result.Result[T] {
	x, err := t.decode(v)
	return result.FromPair(x, err)
}

// MustDecode is Decode for callers that treat bad input as fatal. It panics
// with the decode error.
func (t *Type[T]) MustDecode(v value.Value) T {
	x, err := t.decode(v)
	if err != nil {
		panic(err)
	}
	return x
}

// Named returns a copy of t carrying a documentation name and description.
// Encoding and decoding are unchanged.
func Named[T any](name, description string, t *Type[T]) *Type[T] {
	cp := *t
	cp.name = name
	cp.desc = description
	return &cp
}

func mismatch(expected Descriptor, got value.Value) error {
	return &DecodeError{
		Err:      ErrTypeMismatch,
		Expected: expected.String(),
		Got:      value.Render(got),
	}
}

package morph

import (
	"context"
	"sync/atomic"

	"github.com/zoobzio/morph/value"
)

// FieldSource supplies encoded field values to a structure constructor.
type FieldSource interface {
	// Field returns the entry stored under name, if any.
	Field(name string) (value.Value, bool)
}

// dictSource serves fields from a Dict. Duplicate keys resolve first-wins.
type dictSource value.Dict

func (d dictSource) Field(name string) (value.Value, bool) {
	return value.Dict(d).Get(name)
}

// Lookup finds name in src and decodes it with t. A missing entry decodes as
// None for option descriptors and fails with ErrMissingField otherwise. Decode
// errors are prefixed with the field name.
func Lookup[F any](src FieldSource, name string, t *Type[F]) (F, error) {
	v, ok := src.Field(name)
	if !ok {
		if t.Kind() == KindOption {
			return t.Decode(value.Null)
		}
		var zero F
		return zero, &DecodeError{Err: ErrMissingField, Name: name}
	}
	x, err := t.Decode(v)
	if err != nil {
		return x, atPath(err, name)
	}
	return x, nil
}

// Lens is a getter and updater pair focused on one part of S.
type Lens[S, F any] struct {
	Get func(S) F
	Set func(S, F) S
}

// Compose focuses inner through outer.
func Compose[A, B, C any](outer Lens[A, B], inner Lens[B, C]) Lens[A, C] {
	return Lens[A, C]{
		Get: func(a A) C { return inner.Get(outer.Get(a)) },
		Set: func(a A, c C) A { return outer.Set(a, inner.Set(outer.Get(a), c)) },
	}
}

// Field is a registered structure field.
type Field[S, F any] struct {
	name string
	desc string
	typ  *Type[F]
	get  func(S) F
	set  func(S, F) S
}

// Name returns the field name used as the Dict key.
func (f *Field[S, F]) Name() string { return f.name }

// Description returns the field documentation.
func (f *Field[S, F]) Description() string { return f.desc }

// Type returns the field descriptor.
func (f *Field[S, F]) Type() *Type[F] { return f.typ }

// Get reads the field from s.
func (f *Field[S, F]) Get(s S) F { return f.get(s) }

// Set returns s with the field replaced by v.
func (f *Field[S, F]) Set(s S, v F) S { return f.set(s, v) }

// From looks the field up in src and decodes it.
func (f *Field[S, F]) From(src FieldSource) (F, error) {
	return Lookup(src, f.name, f.typ)
}

// Lens returns the getter and updater as a Lens.
func (f *Field[S, F]) Lens() Lens[S, F] {
	return Lens[S, F]{Get: f.get, Set: f.set}
}

// structField is the type-erased view of a Field kept by its Struct.
type structField[S any] struct {
	info   FieldInfo
	encode func(S) value.Value
	apply  func(S, FieldSource) (S, error)
}

// Struct builds a structure descriptor for S one field at a time.
//
// Registration is append-only and not safe for concurrent use. The first
// Encode or Decode through the descriptor freezes it; later registrations
// fail with ErrFrozen. After that the descriptor is read-only and may be
// shared between goroutines.
type Struct[S any] struct {
	name      string
	desc      string
	fields    []structField[S]
	names     map[string]bool
	construct func(FieldSource) (S, error)
	frozen    atomic.Bool
	typ       *Type[S]
}

// NewStruct creates an empty structure descriptor.
func NewStruct[S any](name, description string) *Struct[S] {
	s := &Struct[S]{
		name:  name,
		desc:  description,
		names: make(map[string]bool),
	}
	s.typ = &Type[S]{
		kind:   KindStruct,
		name:   name,
		desc:   description,
		fields: s.infos,
		encode: s.encode,
		decode: s.decode,
	}
	return s
}

// Name returns the structure name.
func (s *Struct[S]) Name() string { return s.name }

// Type returns the descriptor for S. It may be referenced by fields of s
// itself to describe recursive structures.
func (s *Struct[S]) Type() *Type[S] { return s.typ }

// Frozen reports whether the structure has been used.
func (s *Struct[S]) Frozen() bool { return s.frozen.Load() }

// Construct replaces the default constructor, which folds each field's
// updater over the zero value of S.
func (s *Struct[S]) Construct(fn func(FieldSource) (S, error)) error {
	if s.frozen.Load() {
		return newConfigError(ErrFrozen, s.name, "")
	}
	s.construct = fn
	return nil
}

// AddField registers a field on s.
func AddField[S, F any](s *Struct[S], name, description string, t *Type[F], get func(S) F, set func(S, F) S) (*Field[S, F], error) {
	if s.frozen.Load() {
		return nil, newConfigError(ErrFrozen, s.name, name)
	}
	if s.names[name] {
		return nil, newConfigError(ErrDuplicateField, s.name, name)
	}
	f := &Field[S, F]{name: name, desc: description, typ: t, get: get, set: set}
	s.names[name] = true
	s.fields = append(s.fields, structField[S]{
		info: FieldInfo{Name: name, Description: description, Type: t},
		encode: func(v S) value.Value {
			return t.Encode(get(v))
		},
		apply: func(v S, src FieldSource) (S, error) {
			x, err := f.From(src)
			if err != nil {
				return v, err
			}
			return set(v, x), nil
		},
	})
	return f, nil
}

// MustAddField is AddField for package-level schema definitions. It panics
// with the *ConfigError.
func MustAddField[S, F any](s *Struct[S], name, description string, t *Type[F], get func(S) F, set func(S, F) S) *Field[S, F] {
	f, err := AddField(s, name, description, t, get, set)
	if err != nil {
		panic(err)
	}
	return f
}

func (s *Struct[S]) freeze() {
	if s.frozen.CompareAndSwap(false, true) {
		emitSchemaFrozen(context.Background(), KindStruct, s.name, len(s.fields))
	}
}

func (s *Struct[S]) infos() []FieldInfo {
	out := make([]FieldInfo, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.info
	}
	return out
}

func (s *Struct[S]) encode(v S) value.Value {
	s.freeze()
	out := make(value.Dict, len(s.fields))
	for i, f := range s.fields {
		out[i] = value.E(f.info.Name, f.encode(v))
	}
	return out
}

func (s *Struct[S]) decode(v value.Value) (S, error) {
	s.freeze()
	d, ok := v.(value.Dict)
	if !ok {
		var zero S
		return zero, mismatch(s.typ, v)
	}
	src := dictSource(d)
	if s.construct != nil {
		return s.construct(src)
	}
	var out S
	for _, f := range s.fields {
		var err error
		if out, err = f.apply(out, src); err != nil {
			var zero S
			return zero, err
		}
	}
	return out, nil
}

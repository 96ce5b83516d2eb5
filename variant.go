package morph

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/zoobzio/morph/value"
)

// PayloadSource supplies the tag and encoded payload to a variant constructor.
type PayloadSource interface {
	Tag() string
	Payload() value.Value
}

type payloadSource struct {
	tag     string
	payload value.Value
}

func (p payloadSource) Tag() string          { return p.tag }
func (p payloadSource) Payload() value.Value { return p.payload }

// Payload decodes the payload of src with t. Errors are prefixed with the tag.
func Payload[P any](src PayloadSource, t *Type[P]) (P, error) {
	x, err := t.Decode(src.Payload())
	if err != nil {
		return x, atPath(err, src.Tag())
	}
	return x, nil
}

// Tag is a registered variant case.
type Tag[V, P any] struct {
	name    string
	desc    string
	typ     *Type[P]
	preview func(V) (P, bool)
	review  func(P) V
}

// Name returns the tag name.
func (t *Tag[V, P]) Name() string { return t.name }

// Description returns the tag documentation.
func (t *Tag[V, P]) Description() string { return t.desc }

// Type returns the payload descriptor.
func (t *Tag[V, P]) Type() *Type[P] { return t.typ }

// Preview extracts the payload when v belongs to this tag.
func (t *Tag[V, P]) Preview(v V) (P, bool) { return t.preview(v) }

// Review builds the native value for payload p.
func (t *Tag[V, P]) Review(p P) V { return t.review(p) }

// From decodes the payload of src and reviews it.
func (t *Tag[V, P]) From(src PayloadSource) (V, error) {
	p, err := Payload(src, t.typ)
	if err != nil {
		var zero V
		return zero, err
	}
	return t.review(p), nil
}

type variantTag[V any] struct {
	info   TagInfo
	encode func(V) (value.Value, bool)
	from   func(PayloadSource) (V, error)
}

// Variant builds a tagged union descriptor for V one tag at a time.
//
// A tagged value is encoded as a single-entry Dict {tag: payload}. Decoding
// also accepts the list form [S(tag);payload], the list [S(tag)] and a bare
// S(tag), the last two carrying a Null payload.
//
// Registration follows the same rules as Struct: append-only, not safe for
// concurrent use, and closed by the first Encode or Decode.
type Variant[V any] struct {
	name      string
	desc      string
	tags      []variantTag[V]
	index     map[string]int
	construct func(tag string, src PayloadSource) (V, error)
	frozen    atomic.Bool
	typ       *Type[V]
}

// NewVariant creates an empty variant descriptor.
func NewVariant[V any](name, description string) *Variant[V] {
	v := &Variant[V]{
		name:  name,
		desc:  description,
		index: make(map[string]int),
	}
	v.typ = &Type[V]{
		kind:   KindVariant,
		name:   name,
		desc:   description,
		tags:   v.infos,
		encode: v.encode,
		decode: v.decode,
	}
	return v
}

// Name returns the variant name.
func (v *Variant[V]) Name() string { return v.name }

// Type returns the descriptor for V.
func (v *Variant[V]) Type() *Type[V] { return v.typ }

// Frozen reports whether the variant has been used.
func (v *Variant[V]) Frozen() bool { return v.frozen.Load() }

// Construct replaces the default constructor, which dispatches to the
// matching tag's review. fn is only called for registered tags.
func (v *Variant[V]) Construct(fn func(tag string, src PayloadSource) (V, error)) error {
	if v.frozen.Load() {
		return newConfigError(ErrFrozen, v.name, "")
	}
	v.construct = fn
	return nil
}

// AddTag registers a tag on v. preview must report false for values of
// other tags.
func AddTag[V, P any](v *Variant[V], name, description string, t *Type[P], preview func(V) (P, bool), review func(P) V) (*Tag[V, P], error) {
	if v.frozen.Load() {
		return nil, newConfigError(ErrFrozen, v.name, name)
	}
	if _, ok := v.index[name]; ok {
		return nil, newConfigError(ErrDuplicateTag, v.name, name)
	}
	tag := &Tag[V, P]{name: name, desc: description, typ: t, preview: preview, review: review}
	v.index[name] = len(v.tags)
	v.tags = append(v.tags, variantTag[V]{
		info: TagInfo{Name: name, Description: description, Type: t},
		encode: func(x V) (value.Value, bool) {
			p, ok := preview(x)
			if !ok {
				return nil, false
			}
			return t.Encode(p), true
		},
		from: tag.From,
	})
	return tag, nil
}

// MustAddTag is AddTag for package-level schema definitions. It panics with
// the *ConfigError.
func MustAddTag[V, P any](v *Variant[V], name, description string, t *Type[P], preview func(V) (P, bool), review func(P) V) *Tag[V, P] {
	tag, err := AddTag(v, name, description, t, preview, review)
	if err != nil {
		panic(err)
	}
	return tag
}

func (v *Variant[V]) freeze() {
	if v.frozen.CompareAndSwap(false, true) {
		emitSchemaFrozen(context.Background(), KindVariant, v.name, len(v.tags))
	}
}

func (v *Variant[V]) infos() []TagInfo {
	out := make([]TagInfo, len(v.tags))
	for i, t := range v.tags {
		out[i] = t.info
	}
	return out
}

func (v *Variant[V]) encode(x V) value.Value {
	v.freeze()
	for _, t := range v.tags {
		if p, ok := t.encode(x); ok {
			return value.Dict{value.E(t.info.Name, p)}
		}
	}
	panic(&SchemaError{Variant: v.name, Value: fmt.Sprintf("%#v", x)})
}

func (v *Variant[V]) decode(in value.Value) (V, error) {
	v.freeze()
	var zero V
	src, ok := splitTagged(in)
	if !ok {
		return zero, mismatch(v.typ, in)
	}
	i, ok := v.index[src.tag]
	if !ok {
		return zero, &DecodeError{Err: ErrUnknownTag, Name: src.tag}
	}
	if v.construct != nil {
		return v.construct(src.tag, src)
	}
	return v.tags[i].from(src)
}

// splitTagged separates the tag name from the payload of an encoded variant.
func splitTagged(in value.Value) (payloadSource, bool) {
	switch x := in.(type) {
	case value.Dict:
		if len(x) == 1 {
			return payloadSource{tag: x[0].Key, payload: x[0].Value}, true
		}
	case value.List:
		if len(x) == 0 || len(x) > 2 {
			return payloadSource{}, false
		}
		name, ok := x[0].(value.String)
		if !ok {
			return payloadSource{}, false
		}
		if len(x) == 1 {
			return payloadSource{tag: string(name), payload: value.Null}, true
		}
		return payloadSource{tag: string(name), payload: x[1]}, true
	case value.String:
		return payloadSource{tag: string(x), payload: value.Null}, true
	}
	return payloadSource{}, false
}

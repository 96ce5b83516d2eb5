package morph

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/zoobzio/morph/result"
	"github.com/zoobzio/morph/value"
)

// Array describes a fixed array of elements, encoded as a List.
func Array[T any](elem *Type[T]) *Type[[]T] {
	return sequence(KindArray, elem)
}

// List describes an ordered list of elements, encoded as a List.
func List[T any](elem *Type[T]) *Type[[]T] {
	return sequence(KindList, elem)
}

func sequence[T any](kind Kind, elem *Type[T]) *Type[[]T] {
	t := &Type[[]T]{kind: kind, children: []Descriptor{elem}}
	t.encode = func(xs []T) value.Value {
		out := make(value.List, len(xs))
		for i, x := range xs {
			out[i] = elem.Encode(x)
		}
		return out
	}
	t.decode = func(v value.Value) ([]T, error) {
		l, ok := v.(value.List)
		if !ok {
			return nil, mismatch(t, v)
		}
		return result.Traverse(l, func(item value.Value, i int) result.Result[T] {
			x, err := elem.Decode(item)
			if err != nil {
				return result.Err[T](atPath(err, indexSeg(i)))
			}
			return result.Ok(x)
		}).Get()
	}
	return t
}

// Dict describes a map keyed by a scalar descriptor. It panics with a
// *ConfigError if key is not a valid key kind (see IsValidKeyKind).
//
// Keys travel as Dict entry keys: each key is encoded with its descriptor and
// written as text, and decoded back through the descriptor's text coercion.
// Entries are emitted sorted by key text. When decoding, the first entry for a
// key wins and later duplicates are ignored.
func Dict[K comparable, V any](key *Type[K], elem *Type[V]) *Type[map[K]V] {
	if !IsValidKeyKind(key.Kind()) {
		panic(newConfigError(ErrUnsupported, "dict", "key "+key.String()))
	}
	t := &Type[map[K]V]{kind: KindDict, children: []Descriptor{key, elem}}
	t.encode = func(m map[K]V) value.Value {
		out := make(value.Dict, 0, len(m))
		for k, v := range m {
			out = append(out, value.E(keyText(key.Encode(k)), elem.Encode(v)))
		}
		slices.SortFunc(out, func(a, b value.Entry) int { return strings.Compare(a.Key, b.Key) })
		return out
	}
	t.decode = func(v value.Value) (map[K]V, error) {
		d, ok := v.(value.Dict)
		if !ok {
			return nil, mismatch(t, v)
		}
		out := make(map[K]V, len(d))
		for _, e := range d {
			k, err := key.Decode(keyValue(key.Kind(), e.Key))
			if err != nil {
				return nil, atPath(err, e.Key)
			}
			if _, seen := out[k]; seen {
				continue
			}
			x, err := elem.Decode(e.Value)
			if err != nil {
				return nil, atPath(err, e.Key)
			}
			out[k] = x
		}
		return out, nil
	}
	return t
}

func keyText(v value.Value) string {
	switch k := v.(type) {
	case value.Int:
		return strconv.FormatInt(int64(k), 10)
	case value.Int32:
		return strconv.FormatInt(int64(k), 10)
	case value.Bool:
		return strconv.FormatBool(bool(k))
	case value.String:
		return string(k)
	case value.DateTime:
		return string(k)
	default:
		return value.Render(v)
	}
}

func keyValue(kind Kind, text string) value.Value {
	if kind == KindBool {
		if b, err := strconv.ParseBool(text); err == nil {
			return value.Bool(b)
		}
	}
	return value.String(text)
}

// Option describes an optional value as mo.Option. None encodes as an empty
// List and Some(x) as a one-element List; Null also decodes as None.
func Option[T any](inner *Type[T]) *Type[mo.Option[T]] {
	t := &Type[mo.Option[T]]{kind: KindOption, children: []Descriptor{inner}}
	t.encode = func(o mo.Option[T]) value.Value {
		if x, ok := o.Get(); ok {
			return value.List{inner.Encode(x)}
		}
		return value.List{}
	}
	t.decode = func(v value.Value) (mo.Option[T], error) {
		if value.IsNull(v) {
			return mo.None[T](), nil
		}
		l, ok := v.(value.List)
		if !ok || len(l) > 1 {
			return mo.None[T](), mismatch(t, v)
		}
		if len(l) == 0 {
			return mo.None[T](), nil
		}
		x, err := inner.Decode(l[0])
		if err != nil {
			return mo.None[T](), err
		}
		return mo.Some(x), nil
	}
	return t
}

// Pair describes a two-element tuple, encoded as a two-element List.
func Pair[A, B any](first *Type[A], second *Type[B]) *Type[lo.Tuple2[A, B]] {
	t := &Type[lo.Tuple2[A, B]]{kind: KindPair, children: []Descriptor{first, second}}
	t.encode = func(p lo.Tuple2[A, B]) value.Value {
		return value.List{first.Encode(p.A), second.Encode(p.B)}
	}
	t.decode = func(v value.Value) (lo.Tuple2[A, B], error) {
		var zero lo.Tuple2[A, B]
		l, ok := v.(value.List)
		if !ok || len(l) != 2 {
			return zero, mismatch(t, v)
		}
		a, err := first.Decode(l[0])
		if err != nil {
			return zero, atPath(err, indexSeg(0))
		}
		b, err := second.Decode(l[1])
		if err != nil {
			return zero, atPath(err, indexSeg(1))
		}
		return lo.T2(a, b), nil
	}
	return t
}

// Time describes a time.Time carried as a DateTime formatted with layout.
func Time(layout string) *Type[time.Time] {
	return &Type[time.Time]{
		kind:   KindDateTime,
		layout: layout,
		encode: func(tm time.Time) value.Value {
			return value.DateTime(tm.Format(layout))
		},
		decode: func(v value.Value) (time.Time, error) {
			d, ok := v.(value.DateTime)
			if !ok {
				return time.Time{}, scalarMismatch(KindDateTime, v)
			}
			tm, err := time.Parse(layout, string(d))
			if err != nil {
				return time.Time{}, coercionError(KindDateTime, v, "not in layout "+layout)
			}
			return tm, nil
		},
	}
}

// Convert describes B through an existing descriptor for A, for newtypes,
// enums and other abstract types. The dynamic shape is that of base; name and
// description document B. Errors returned by decode become ErrCoercion
// failures unless they already are *DecodeError.
func Convert[A, B any](name, description string, base *Type[A], decode func(A) (B, error), encode func(B) A) *Type[B] {
	return &Type[B]{
		kind:     base.kind,
		name:     name,
		desc:     description,
		children: base.children,
		fields:   base.fields,
		tags:     base.tags,
		layout:   base.layout,
		encode: func(b B) value.Value {
			return base.Encode(encode(b))
		},
		decode: func(v value.Value) (B, error) {
			var zero B
			a, err := base.Decode(v)
			if err != nil {
				return zero, err
			}
			b, err := decode(a)
			if err == nil {
				return b, nil
			}
			var de *DecodeError
			if errors.As(err, &de) {
				return zero, err
			}
			return zero, &DecodeError{
				Err:      ErrCoercion,
				Expected: name,
				Got:      value.Render(v),
				Reason:   err.Error(),
			}
		},
	}
}

// Enum describes a closed set of Go values carried as their string names.
// Decoding an unlisted name fails with ErrCoercion.
func Enum[T comparable](name string, names map[T]string) *Type[T] {
	back := make(map[string]T, len(names))
	for k, n := range names {
		back[n] = k
	}
	return Convert(name, "", String(),
		func(s string) (T, error) {
			if k, ok := back[s]; ok {
				return k, nil
			}
			var zero T
			known := lo.Keys(back)
			slices.Sort(known)
			return zero, fmt.Errorf("%q is not one of %s", s, strings.Join(known, ", "))
		},
		func(k T) string { return names[k] },
	)
}

package morph

import (
	"fmt"
	"reflect"
	"time"

	"github.com/samber/mo"
	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("rpc")
	sentinel.Tag("doc")
}

var timeType = reflect.TypeFor[time.Time]()

// Derive builds a structure descriptor for S from its exported fields.
//
// Field names default to the Go field name. Struct tags adjust them:
//
//	type Person struct {
//	    Name     string            `rpc:"name" doc:"Full name"`
//	    Age      int               `rpc:"age"`
//	    Nickname *string           `rpc:"nickname"`
//	    Scratch  []byte            `rpc:"-"`
//	    Labels   map[string]string `rpc:"labels"`
//	}
//
// Pointers are options (nil is None), slices are lists, Go arrays are fixed
// arrays, maps with string, integer or bool keys are dicts, time.Time is a
// DateTime in RFC 3339 and nested structs are derived recursively. Other
// field types fail with ErrUnsupported.
func Derive[S any]() (*Type[S], error) {
	rt := reflect.TypeFor[S]()
	if rt.Kind() != reflect.Struct {
		return nil, newConfigError(ErrUnsupported, rt.String(), "")
	}
	meta := sentinel.Scan[S]()
	d := &deriver{seen: make(map[reflect.Type]*Type[reflect.Value])}
	base, err := d.structType(rt, meta)
	if err != nil {
		return nil, err
	}
	return Convert(rt.Name(), "", base,
		func(rv reflect.Value) (S, error) { return rv.Interface().(S), nil },
		func(s S) reflect.Value { return reflect.ValueOf(s) },
	), nil
}

// MustDerive is Derive for package-level descriptors. It panics on error.
func MustDerive[S any]() *Type[S] {
	t, err := Derive[S]()
	if err != nil {
		panic(err)
	}
	return t
}

type deriver struct {
	seen map[reflect.Type]*Type[reflect.Value]
}

func (d *deriver) structType(rt reflect.Type, meta sentinel.Metadata) (*Type[reflect.Value], error) {
	if t, ok := d.seen[rt]; ok {
		return t, nil
	}
	s := NewStruct[reflect.Value](rt.Name(), "")
	d.seen[rt] = s.Type()

	var fields []*Field[reflect.Value, reflect.Value]
	for _, fm := range meta.Fields {
		if !rt.FieldByIndex(fm.Index).IsExported() {
			continue
		}
		name := fm.Name
		if tag, ok := fm.Tags["rpc"]; ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		ft, err := d.typeOf(fm.ReflectType)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", rt.Name(), fm.Name, err)
		}
		index := fm.Index
		f, err := AddField(s, name, fm.Tags["doc"], ft,
			func(rv reflect.Value) reflect.Value { return rv.FieldByIndex(index) },
			func(rv, x reflect.Value) reflect.Value {
				rv.FieldByIndex(index).Set(x)
				return rv
			},
		)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	err := s.Construct(func(src FieldSource) (reflect.Value, error) {
		rv := reflect.New(rt).Elem()
		for _, f := range fields {
			x, err := f.From(src)
			if err != nil {
				return reflect.Value{}, err
			}
			rv = f.Set(rv, x)
		}
		return rv, nil
	})
	if err != nil {
		return nil, err
	}
	return s.Type(), nil
}

func (d *deriver) typeOf(rt reflect.Type) (*Type[reflect.Value], error) {
	if rt == timeType {
		return lift(Time(time.RFC3339Nano), rt), nil
	}

	switch rt.Kind() {
	case reflect.Bool:
		return lift(Bool(), rt), nil
	case reflect.Int:
		return lift(Int(), rt), nil
	case reflect.Int32:
		return lift(Int32(), rt), nil
	case reflect.Int64:
		return lift(Int64(), rt), nil
	case reflect.Uint8:
		return lift(Char(), rt), nil
	case reflect.Float32, reflect.Float64:
		return lift(Float(), rt), nil
	case reflect.String:
		return lift(String(), rt), nil

	case reflect.Slice, reflect.Array:
		elem, err := d.typeOf(rt.Elem())
		if err != nil {
			return nil, err
		}
		return liftSequence(elem, rt), nil

	case reflect.Map:
		elem, err := d.typeOf(rt.Elem())
		if err != nil {
			return nil, err
		}
		switch rt.Key().Kind() {
		case reflect.String:
			return liftMap(String(), elem, rt), nil
		case reflect.Int:
			return liftMap(Int(), elem, rt), nil
		case reflect.Int32:
			return liftMap(Int32(), elem, rt), nil
		case reflect.Int64:
			return liftMap(Int64(), elem, rt), nil
		case reflect.Bool:
			return liftMap(Bool(), elem, rt), nil
		}

	case reflect.Pointer:
		elem, err := d.typeOf(rt.Elem())
		if err != nil {
			return nil, err
		}
		return liftPointer(elem, rt), nil

	case reflect.Struct:
		if rt.NumField() == 0 {
			return lift(Unit(), rt), nil
		}
		return d.structType(rt, scanNestedType(rt))
	}

	return nil, newConfigError(ErrUnsupported, rt.String(), "")
}

// scanNestedType returns sentinel metadata for rt, scanning it directly when
// sentinel has not seen the type.
func scanNestedType(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tags := make(map[string]string)
		for _, key := range []string{"rpc", "doc"} {
			if v, ok := sf.Tag.Lookup(key); ok {
				tags[key] = v
			}
		}
		meta.Fields = append(meta.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		})
	}
	return meta
}

// lift adapts a descriptor for X to any Go type convertible to and from X.
func lift[X any](base *Type[X], rt reflect.Type) *Type[reflect.Value] {
	xt := reflect.TypeFor[X]()
	return Convert(rt.String(), "", base,
		func(x X) (reflect.Value, error) { return reflect.ValueOf(x).Convert(rt), nil },
		func(rv reflect.Value) X { return rv.Convert(xt).Interface().(X) },
	)
}

func liftSequence(elem *Type[reflect.Value], rt reflect.Type) *Type[reflect.Value] {
	base := List(elem)
	if rt.Kind() == reflect.Array {
		base = Array(elem)
	}
	return Convert(rt.String(), "", base,
		func(xs []reflect.Value) (reflect.Value, error) {
			var out reflect.Value
			if rt.Kind() == reflect.Array {
				if len(xs) != rt.Len() {
					return out, fmt.Errorf("want %d elements, got %d", rt.Len(), len(xs))
				}
				out = reflect.New(rt).Elem()
			} else {
				out = reflect.MakeSlice(rt, len(xs), len(xs))
			}
			for i, x := range xs {
				out.Index(i).Set(x)
			}
			return out, nil
		},
		func(rv reflect.Value) []reflect.Value {
			out := make([]reflect.Value, rv.Len())
			for i := range out {
				out[i] = rv.Index(i)
			}
			return out
		},
	)
}

func liftMap[K comparable](key *Type[K], elem *Type[reflect.Value], rt reflect.Type) *Type[reflect.Value] {
	kt := reflect.TypeFor[K]()
	return Convert(rt.String(), "", Dict(key, elem),
		func(m map[K]reflect.Value) (reflect.Value, error) {
			out := reflect.MakeMapWithSize(rt, len(m))
			for k, v := range m {
				out.SetMapIndex(reflect.ValueOf(k).Convert(rt.Key()), v)
			}
			return out, nil
		},
		func(rv reflect.Value) map[K]reflect.Value {
			out := make(map[K]reflect.Value, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				out[iter.Key().Convert(kt).Interface().(K)] = iter.Value()
			}
			return out
		},
	)
}

func liftPointer(elem *Type[reflect.Value], rt reflect.Type) *Type[reflect.Value] {
	return Convert(rt.String(), "", Option(elem),
		func(o mo.Option[reflect.Value]) (reflect.Value, error) {
			x, ok := o.Get()
			if !ok {
				return reflect.Zero(rt), nil
			}
			p := reflect.New(rt.Elem())
			p.Elem().Set(x)
			return p, nil
		},
		func(rv reflect.Value) mo.Option[reflect.Value] {
			if rv.IsNil() {
				return mo.None[reflect.Value]()
			}
			return mo.Some(rv.Elem())
		},
	)
}

package morph

import (
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/morph/value"
)

func TestVariant_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   shape
		want string
	}{
		{"circle", circle{Radius: 2.0}, "{Circle:F(2)}"},
		{"square", square{Side: 3.5}, "{Square:F(3.5)}"},
		{"point", point{}, "{Point:N}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := shapeVariant.Type().Encode(tt.in)
			if got := value.Render(v); got != tt.want {
				t.Errorf("Encode() = %s, want %s", got, tt.want)
			}
			out, err := shapeVariant.Type().Decode(v)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if out != tt.in {
				t.Errorf("Decode() = %#v, want %#v", out, tt.in)
			}
		})
	}
}

func TestVariant_UnknownTag(t *testing.T) {
	_, err := shapeVariant.Type().Decode(value.Dict{value.E("Triangle", value.Null)})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrUnknownTag) {
		t.Errorf("expected ErrUnknownTag, got %v", err)
	}
	if !strings.Contains(err.Error(), "Triangle") {
		t.Errorf("message %q should name the tag", err.Error())
	}
	if err.Error() != "unknown tag Triangle" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestVariant_AlternateForms(t *testing.T) {
	tests := []struct {
		name  string
		input value.Value
		want  shape
	}{
		{"list with payload", value.List{value.String("Circle"), value.Float(1)}, circle{Radius: 1}},
		{"list without payload", value.List{value.String("Point")}, point{}},
		{"bare tag", value.String("Point"), point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shapeVariant.Type().Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestVariant_Mismatch(t *testing.T) {
	inputs := []value.Value{
		value.Int(1),
		value.Dict{},
		value.Dict{value.E("Circle", value.Float(1)), value.E("Square", value.Float(1))},
		value.List{},
		value.List{value.Int(1), value.Float(1)},
	}
	for _, in := range inputs {
		if _, err := shapeVariant.Type().Decode(in); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("Decode(%s): expected ErrTypeMismatch, got %v", in, err)
		}
	}
}

func TestVariant_PayloadErrorPath(t *testing.T) {
	_, err := shapeVariant.Type().Decode(value.Dict{value.E("Circle", value.Bool(true))})
	if want := "Circle: expected float, got 'B(true)'"; err == nil || err.Error() != want {
		t.Errorf("Error() = %v, want %q", err, want)
	}
}

func TestVariant_SchemaMismatchPanics(t *testing.T) {
	defer func() {
		r := recover()
		se, ok := r.(*SchemaError)
		if !ok {
			t.Fatalf("expected *SchemaError panic, got %v", r)
		}
		if se.Variant != "Shape" {
			t.Errorf("Variant = %q", se.Variant)
		}
		if !errors.Is(se, ErrSchemaMismatch) {
			t.Error("SchemaError should unwrap to ErrSchemaMismatch")
		}
	}()
	shapeVariant.Type().Encode(triangle{Base: 1, Height: 2})
}

func TestAddTag_Duplicate(t *testing.T) {
	v := NewVariant[shape]("DupShape", "")
	preview := func(s shape) (float64, bool) { c, ok := s.(circle); return c.Radius, ok }
	review := func(r float64) shape { return circle{Radius: r} }
	MustAddTag(v, "Circle", "", Float(), preview, review)
	_, err := AddTag(v, "Circle", "", Float(), preview, review)
	if !errors.Is(err, ErrDuplicateTag) {
		t.Errorf("expected ErrDuplicateTag, got %v", err)
	}
}

func TestAddTag_Frozen(t *testing.T) {
	v := NewVariant[shape]("LateShape", "")
	MustAddTag(v, "Point", "", Unit(),
		func(s shape) (struct{}, bool) { _, ok := s.(point); return struct{}{}, ok },
		func(struct{}) shape { return point{} })
	if _, err := v.Type().Decode(value.String("Point")); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !v.Frozen() {
		t.Fatal("variant should freeze on first decode")
	}
	_, err := AddTag(v, "Circle", "", Float(),
		func(s shape) (float64, bool) { c, ok := s.(circle); return c.Radius, ok },
		func(r float64) shape { return circle{Radius: r} })
	if !errors.Is(err, ErrFrozen) {
		t.Errorf("expected ErrFrozen, got %v", err)
	}
}

func TestVariant_Construct(t *testing.T) {
	v := NewVariant[shape]("Scaled", "")
	c := MustAddTag(v, "Circle", "", Float(),
		func(s shape) (float64, bool) { c, ok := s.(circle); return c.Radius, ok },
		func(r float64) shape { return circle{Radius: r} })
	err := v.Construct(func(tag string, src PayloadSource) (shape, error) {
		r, err := Payload(src, c.Type())
		if err != nil {
			return nil, err
		}
		if r < 0 {
			return nil, errors.New("negative radius")
		}
		return c.Review(r * 2), nil
	})
	if err != nil {
		t.Fatalf("Construct() error: %v", err)
	}

	got, err := v.Type().Decode(value.Dict{value.E("Circle", value.Float(1))})
	if err != nil || got != (circle{Radius: 2}) {
		t.Errorf("Decode() = %v, %v", got, err)
	}
	if _, err := v.Type().Decode(value.Dict{value.E("Circle", value.Float(-1))}); err == nil {
		t.Error("constructor error should propagate")
	}
	if _, err := v.Type().Decode(value.String("Square")); !errors.Is(err, ErrUnknownTag) {
		t.Errorf("unregistered tag should fail before the constructor, got %v", err)
	}
}

func TestTag_Accessors(t *testing.T) {
	if shapeCircle.Name() != "Circle" || shapeCircle.Description() != "Circle by radius" {
		t.Errorf("Name() = %q, Description() = %q", shapeCircle.Name(), shapeCircle.Description())
	}
	if r, ok := shapeCircle.Preview(circle{Radius: 4}); !ok || r != 4 {
		t.Errorf("Preview(circle) = %v, %v", r, ok)
	}
	if _, ok := shapeCircle.Preview(square{Side: 4}); ok {
		t.Error("Preview(square) should not match Circle")
	}
	if shapeSquare.Review(2) != (square{Side: 2}) {
		t.Error("Review() should build a square")
	}
	got, err := shapePoint.From(payloadSource{tag: "Point", payload: value.Null})
	if err != nil || got != (point{}) {
		t.Errorf("From() = %v, %v", got, err)
	}
}

func TestVariant_Introspection(t *testing.T) {
	tags := shapeVariant.Type().Tags()
	if len(tags) != 3 || tags[0].Name != "Circle" || tags[2].Type.Kind() != KindUnit {
		t.Errorf("Tags() = %+v", tags)
	}
	if shapeVariant.Type().Kind() != KindVariant || shapeVariant.Name() != "Shape" {
		t.Errorf("Kind() = %v, Name() = %q", shapeVariant.Type().Kind(), shapeVariant.Name())
	}
}

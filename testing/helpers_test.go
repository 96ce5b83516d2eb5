package testing

import (
	"reflect"
	"sort"
	"testing"

	"github.com/zoobzio/morph"
)

func TestCodecs(t *testing.T) {
	codecs := Codecs()
	names := make([]string, 0, len(codecs))
	seen := make(map[string]bool)
	for name, c := range codecs {
		names = append(names, name)
		if seen[c.ContentType()] {
			t.Errorf("duplicate content type %s", c.ContentType())
		}
		seen[c.ContentType()] = true
	}
	sort.Strings(names)
	if want := []string{"bson", "json", "msgpack", "xml", "yaml"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Codecs() = %v, want %v", names, want)
	}
}

func TestFixtureSchemas(t *testing.T) {
	if got := morph.Describe(AddressStruct.Type()); got != "struct Address{street:string;zip:int32}" {
		t.Errorf("Describe(Address) = %q", got)
	}
	if got := morph.Describe(ShapeVariant.Type()); got != "variant Shape{Circle:float|Rect:pair<float,float>|Label:string|Origin:unit}" {
		t.Errorf("Describe(Shape) = %q", got)
	}
	if len(PersonStruct.Type().Fields()) != 7 {
		t.Errorf("Person has %d fields", len(PersonStruct.Type().Fields()))
	}
}

func TestRoundTrip(t *testing.T) {
	proc := NewProcessor(t, PersonStruct.Type(), Codecs()["json"])
	got := RoundTrip(t, proc, Ada())
	if !reflect.DeepEqual(got, Ada()) {
		t.Errorf("RoundTrip() = %+v, want %+v", got, Ada())
	}
}

func TestShapes(t *testing.T) {
	shapes := Shapes()
	if len(shapes) != len(ShapeVariant.Type().Tags()) {
		t.Fatalf("Shapes() has %d entries, want one per tag", len(shapes))
	}
	for _, s := range shapes {
		if s.Area() < 0 {
			t.Errorf("%T has negative area", s)
		}
	}
}

// Package testing provides fixtures and helpers shared by the morph
// integration tests and benchmarks.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/zoobzio/morph"
	"github.com/zoobzio/morph/bson"
	"github.com/zoobzio/morph/json"
	"github.com/zoobzio/morph/msgpack"
	"github.com/zoobzio/morph/xml"
	"github.com/zoobzio/morph/yaml"
)

// Codecs returns one instance of every wire codec, keyed by format name.
func Codecs() map[string]morph.Codec {
	return map[string]morph.Codec{
		"json":    json.New(),
		"yaml":    yaml.New(),
		"msgpack": msgpack.New(),
		"bson":    bson.New(),
		"xml":     xml.New(),
	}
}

// Address is a postal address.
type Address struct {
	Street string
	Zip    int32
}

// Person is a test type covering scalars, options, nesting and lists.
type Person struct {
	Name    string
	Age     int
	Email   mo.Option[string]
	Born    time.Time
	Address Address
	Tags    []string
	Scores  map[string]float64
}

// AddressStruct describes Address.
var AddressStruct = morph.NewStruct[Address]("Address", "Postal address")

func init() {
	morph.MustAddField(AddressStruct, "street", "", morph.String(),
		func(a Address) string { return a.Street },
		func(a Address, v string) Address { a.Street = v; return a })
	morph.MustAddField(AddressStruct, "zip", "", morph.Int32(),
		func(a Address) int32 { return a.Zip },
		func(a Address, v int32) Address { a.Zip = v; return a })
}

// PersonStruct describes Person.
var PersonStruct = morph.NewStruct[Person]("Person", "A person")

func init() {
	morph.MustAddField(PersonStruct, "name", "Full name", morph.String(),
		func(p Person) string { return p.Name },
		func(p Person, v string) Person { p.Name = v; return p })
	morph.MustAddField(PersonStruct, "age", "", morph.Int(),
		func(p Person) int { return p.Age },
		func(p Person, v int) Person { p.Age = v; return p })
	morph.MustAddField(PersonStruct, "email", "", morph.Option(morph.String()),
		func(p Person) mo.Option[string] { return p.Email },
		func(p Person, v mo.Option[string]) Person { p.Email = v; return p })
	morph.MustAddField(PersonStruct, "born", "", morph.Time(time.RFC3339),
		func(p Person) time.Time { return p.Born },
		func(p Person, v time.Time) Person { p.Born = v; return p })
	morph.MustAddField(PersonStruct, "address", "", AddressStruct.Type(),
		func(p Person) Address { return p.Address },
		func(p Person, v Address) Person { p.Address = v; return p })
	morph.MustAddField(PersonStruct, "tags", "", morph.List(morph.String()),
		func(p Person) []string { return p.Tags },
		func(p Person, v []string) Person { p.Tags = v; return p })
	morph.MustAddField(PersonStruct, "scores", "", morph.Dict(morph.String(), morph.Float()),
		func(p Person) map[string]float64 { return p.Scores },
		func(p Person, v map[string]float64) Person { p.Scores = v; return p })
}

// Ada returns a fully populated Person.
func Ada() Person {
	return Person{
		Name:    "Ada",
		Age:     36,
		Email:   mo.Some("ada@example.com"),
		Born:    time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC),
		Address: Address{Street: "12 St James's Square", Zip: 1815},
		Tags:    []string{"math", "engines"},
		Scores:  map[string]float64{"analysis": 9.5, "poetry": 7},
	}
}

// Shape is a closed set of plane figures.
type Shape interface{ Area() float64 }

// Circle is a Shape given by its radius.
type Circle struct{ Radius float64 }

// Rect is a Shape given by width and height.
type Rect struct{ W, H float64 }

// Label is a degenerate Shape carrying only text.
type Label string

// Origin is the empty Shape.
type Origin struct{}

func (c Circle) Area() float64 { return 3.14159 * c.Radius * c.Radius }
func (r Rect) Area() float64   { return r.W * r.H }
func (Label) Area() float64    { return 0 }
func (Origin) Area() float64   { return 0 }

// ShapeVariant describes Shape.
var ShapeVariant = morph.NewVariant[Shape]("Shape", "A plane figure")

func init() {
	morph.MustAddTag(ShapeVariant, "Circle", "", morph.Float(),
		func(s Shape) (float64, bool) { c, ok := s.(Circle); return c.Radius, ok },
		func(r float64) Shape { return Circle{Radius: r} })
	morph.MustAddTag(ShapeVariant, "Rect", "", morph.Pair(morph.Float(), morph.Float()),
		func(s Shape) (lo.Tuple2[float64, float64], bool) { r, ok := s.(Rect); return lo.T2(r.W, r.H), ok },
		func(p lo.Tuple2[float64, float64]) Shape { return Rect{W: p.A, H: p.B} })
	morph.MustAddTag(ShapeVariant, "Label", "", morph.String(),
		func(s Shape) (string, bool) { l, ok := s.(Label); return string(l), ok },
		func(text string) Shape { return Label(text) })
	morph.MustAddTag(ShapeVariant, "Origin", "", morph.Unit(),
		func(s Shape) (struct{}, bool) { _, ok := s.(Origin); return struct{}{}, ok },
		func(struct{}) Shape { return Origin{} })
}

// Shapes returns one Shape per tag.
func Shapes() []Shape {
	return []Shape{Circle{Radius: 1.5}, Rect{W: 2, H: 3}, Label("north"), Origin{}}
}

// NewProcessor builds a processor or fails the test.
func NewProcessor[T any](tb testing.TB, t *morph.Type[T], codec morph.Codec, opts ...morph.ProcessorOption) *morph.Processor[T] {
	tb.Helper()
	proc, err := morph.NewProcessor(t, codec, opts...)
	if err != nil {
		tb.Fatalf("NewProcessor(%s, %s) error: %v", t, codec.ContentType(), err)
	}
	return proc
}

// RoundTrip encodes v and decodes the result, failing the test on any error.
func RoundTrip[T any](tb testing.TB, proc *morph.Processor[T], v T) T {
	tb.Helper()
	ctx := context.Background()
	data, err := proc.Encode(ctx, v)
	if err != nil {
		tb.Fatalf("Encode() error: %v", err)
	}
	out, err := proc.Decode(ctx, data)
	if err != nil {
		tb.Fatalf("Decode(%q) error: %v", data, err)
	}
	return out
}

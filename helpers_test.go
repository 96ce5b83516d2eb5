package morph

import (
	"fmt"

	"github.com/samber/mo"
	"github.com/zoobzio/morph/value"
)

type address struct {
	Street string
	Zip    int
}

type person struct {
	Name    string
	Age     int
	Email   mo.Option[string]
	Address address
	Tags    []string
}

var addressStruct = NewStruct[address]("Address", "Postal address")

var (
	addressStreet = MustAddField(addressStruct, "street", "Street and number", String(),
		func(a address) string { return a.Street },
		func(a address, v string) address { a.Street = v; return a })
	addressZip = MustAddField(addressStruct, "zip", "Postal code", Int(),
		func(a address) int { return a.Zip },
		func(a address, v int) address { a.Zip = v; return a })
)

var personStruct = NewStruct[person]("Person", "A person")

var (
	personName = MustAddField(personStruct, "name", "Full name", String(),
		func(p person) string { return p.Name },
		func(p person, v string) person { p.Name = v; return p })
	personAge = MustAddField(personStruct, "age", "Age in years", Int(),
		func(p person) int { return p.Age },
		func(p person, v int) person { p.Age = v; return p })
	personEmail = MustAddField(personStruct, "email", "Contact address", Option(String()),
		func(p person) mo.Option[string] { return p.Email },
		func(p person, v mo.Option[string]) person { p.Email = v; return p })
	personAddress = MustAddField(personStruct, "address", "Home address", addressStruct.Type(),
		func(p person) address { return p.Address },
		func(p person, v address) person { p.Address = v; return p })
	personTags = MustAddField(personStruct, "tags", "", List(String()),
		func(p person) []string { return p.Tags },
		func(p person, v []string) person { p.Tags = v; return p })
)

func ada() person {
	return person{
		Name:    "Ada",
		Age:     36,
		Email:   mo.Some("ada@example.com"),
		Address: address{Street: "12 St James's Square", Zip: 1815},
		Tags:    []string{"math", "engines"},
	}
}

type shape interface{ area() float64 }

type circle struct{ Radius float64 }

type square struct{ Side float64 }

type point struct{}

type triangle struct{ Base, Height float64 }

func (c circle) area() float64   { return 3.14159 * c.Radius * c.Radius }
func (s square) area() float64   { return s.Side * s.Side }
func (point) area() float64      { return 0 }
func (t triangle) area() float64 { return t.Base * t.Height / 2 }

var shapeVariant = NewVariant[shape]("Shape", "A plane figure")

var (
	shapeCircle = MustAddTag(shapeVariant, "Circle", "Circle by radius", Float(),
		func(s shape) (float64, bool) { c, ok := s.(circle); return c.Radius, ok },
		func(r float64) shape { return circle{Radius: r} })
	shapeSquare = MustAddTag(shapeVariant, "Square", "Square by side", Float(),
		func(s shape) (float64, bool) { q, ok := s.(square); return q.Side, ok },
		func(side float64) shape { return square{Side: side} })
	shapePoint = MustAddTag(shapeVariant, "Point", "", Unit(),
		func(s shape) (struct{}, bool) { _, ok := s.(point); return struct{}{}, ok },
		func(struct{}) shape { return point{} })
)

// memCodec keeps marshaled values in memory, keyed by their rendering.
type memCodec struct {
	stored map[string]value.Value
	fail   error
}

func newMemCodec() *memCodec {
	return &memCodec{stored: make(map[string]value.Value)}
}

func (c *memCodec) ContentType() string { return "application/x-morph-test" }

func (c *memCodec) Marshal(v value.Value) ([]byte, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	key := value.Render(v)
	c.stored[key] = v
	return []byte(key), nil
}

func (c *memCodec) Unmarshal(data []byte) (value.Value, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	v, ok := c.stored[string(data)]
	if !ok {
		return nil, fmt.Errorf("unknown payload %q", data)
	}
	return v, nil
}

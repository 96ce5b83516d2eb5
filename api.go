// Package morph converts typed Go values to and from a universal dynamic value.
//
// A caller describes a Go type once as a *Type[T] descriptor and then moves
// values between T and value.Value in either direction. The dynamic form is
// what wire codecs, logs and generic tooling consume; morph itself has no
// byte-level grammar.
//
// # Descriptors
//
// Scalars come from constructors that return shared instances:
//
//	morph.Int()      // int      <-> I(n)
//	morph.Int32()    // int32    <-> I32(n)
//	morph.Int64()    // int64    <-> I(n)
//	morph.Bool()     // bool     <-> B(b)
//	morph.Float()    // float64  <-> F(f)
//	morph.String()   // string   <-> S(s)
//	morph.Char()     // byte     <-> I(n), 0-255
//	morph.DateTime() // string   <-> D(s)
//	morph.Unit()     // struct{} <-> N
//
// Containers compose them: Array, List, Dict, Option (mo.Option), Pair
// (lo.Tuple2). Time and Convert adapt existing descriptors to other Go types.
//
// # Structures
//
// Structures are registered field by field. Each field has a getter and an
// updater against the Go struct:
//
//	var person = morph.NewStruct[Person]("Person", "A person")
//
//	var (
//	    personName = morph.MustAddField(person, "name", "Full name", morph.String(),
//	        func(p Person) string { return p.Name },
//	        func(p Person, v string) Person { p.Name = v; return p })
//	    personAge = morph.MustAddField(person, "age", "Age in years", morph.Int(),
//	        func(p Person) int { return p.Age },
//	        func(p Person, v int) Person { p.Age = v; return p })
//	)
//
//	v := person.Type().Encode(Person{Name: "Ada", Age: 36})
//	// {name:S(Ada);age:I(36)}
//
// Derive builds the same kind of descriptor from struct tags.
//
// # Variants
//
// Variants are registered tag by tag with a preview (native to payload,
// partial) and a review (payload to native). The encoded form is a
// single-entry dict keyed by tag name:
//
//	var shape = morph.NewVariant[Shape]("Shape", "")
//
//	var circle = morph.MustAddTag(shape, "Circle", "", morph.Float(),
//	    func(s Shape) (float64, bool) { c, ok := s.(Circle); return c.Radius, ok },
//	    func(r float64) Shape { return Circle{Radius: r} })
//
// # Errors
//
// Decoding never panics; failures are *DecodeError values matching one of
// ErrTypeMismatch, ErrCoercion, ErrRange, ErrMissingField or ErrUnknownTag,
// with the path to the failing element:
//
//	address.zip: expected int, got 'S(abc)': unparsable int numeral
//
// Encoding is total except for a variant whose tags do not cover a native
// value; that panics with *SchemaError. Processor turns it into an error.
//
// # Registration and concurrency
//
// Structures and variants accept registrations until their first Encode or
// Decode, after which they are frozen and safe for concurrent use.
// Registration itself is not synchronized and belongs in package
// initialization.
//
// # Codec Providers
//
// The following codec implementations move value.Value over a wire format:
//
//   - json - JSON encoding (application/json)
//   - xml - XML-RPC value encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//
// Processor pairs a descriptor with a codec, and Use caches processors.
package morph

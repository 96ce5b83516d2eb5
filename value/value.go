// Package value defines the universal dynamic value that every morph
// descriptor encodes to and decodes from.
//
// The variant set is closed: Int, Int32, Bool, Float, String, DateTime, List,
// Dict and Null. Consumers switch over these types exhaustively; no other
// package can add a case because Value carries an unexported marker method.
//
// Dictionaries keep their entries in stored order and may contain duplicate
// keys. Lookups by key (Dict.Get) are first-wins.
package value

import (
	"strconv"
	"strings"
)

// Kind identifies a Value variant.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindInt32
	KindBool
	KindFloat
	KindString
	KindDateTime
	KindList
	KindDict
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindInt32:
		return "int32"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Value is a dynamic value.
type Value interface {
	isValue()
	Kind() Kind
	Equal(v Value) bool
	String() string
}

var (
	_ Value = Int(0)
	_ Value = Int32(0)
	_ Value = Bool(false)
	_ Value = Float(0)
	_ Value = String("")
	_ Value = DateTime("")
	_ Value = List(nil)
	_ Value = Dict(nil)
	_ Value = Null
)

// Int is a 64-bit signed integer.
type Int int64

func (Int) isValue() {}
func (Int) Kind() Kind { return KindInt }
func (i Int) String() string {
	return "I(" + strconv.FormatInt(int64(i), 10) + ")"
}
func (i Int) Equal(v Value) bool {
	o, ok := v.(Int)
	return ok && o == i
}

// Int32 is a 32-bit signed integer.
type Int32 int32

func (Int32) isValue() {}
func (Int32) Kind() Kind { return KindInt32 }
func (i Int32) String() string {
	return "I32(" + strconv.FormatInt(int64(i), 10) + ")"
}
func (i Int32) Equal(v Value) bool {
	o, ok := v.(Int32)
	return ok && o == i
}

// Bool is a boolean.
type Bool bool

func (Bool) isValue() {}
func (Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	return "B(" + strconv.FormatBool(bool(b)) + ")"
}
func (b Bool) Equal(v Value) bool {
	o, ok := v.(Bool)
	return ok && o == b
}

// Float is a double precision float.
type Float float64

func (Float) isValue() {}
func (Float) Kind() Kind { return KindFloat }
func (f Float) String() string {
	return "F(" + strconv.FormatFloat(float64(f), 'g', -1, 64) + ")"
}

// Equal uses ==, so NaN never equals itself.
func (f Float) Equal(v Value) bool {
	o, ok := v.(Float)
	return ok && o == f
}

// String is text.
type String string

func (String) isValue() {}
func (String) Kind() Kind { return KindString }
func (s String) String() string {
	return "S(" + string(s) + ")"
}
func (s String) Equal(v Value) bool {
	o, ok := v.(String)
	return ok && o == s
}

// DateTime is a timestamp kept in its textual form. The format is opaque to
// this package; descriptors decide how to interpret it.
type DateTime string

func (DateTime) isValue() {}
func (DateTime) Kind() Kind { return KindDateTime }
func (d DateTime) String() string {
	return "D(" + string(d) + ")"
}
func (d DateTime) Equal(v Value) bool {
	o, ok := v.(DateTime)
	return ok && o == d
}

// List is an ordered sequence of values.
type List []Value

func (List) isValue() {}
func (List) Kind() Kind { return KindList }
func (l List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range l {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(Render(v))
	}
	sb.WriteByte(']')
	return sb.String()
}
func (l List) Equal(v Value) bool {
	o, ok := v.(List)
	if !ok || len(o) != len(l) {
		return false
	}
	for i := range l {
		if !equal(l[i], o[i]) {
			return false
		}
	}
	return true
}

// Entry is a key/value pair of a Dict.
type Entry struct {
	Key   string
	Value Value
}

// E builds an Entry.
func E(key string, v Value) Entry {
	return Entry{Key: key, Value: v}
}

// Dict is an ordered sequence of string-keyed entries.
type Dict []Entry

func (Dict) isValue() {}
func (Dict) Kind() Kind { return KindDict }
func (d Dict) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(e.Key)
		sb.WriteByte(':')
		sb.WriteString(Render(e.Value))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Equal compares entries pairwise in stored order.
func (d Dict) Equal(v Value) bool {
	o, ok := v.(Dict)
	if !ok || len(o) != len(d) {
		return false
	}
	for i := range d {
		if d[i].Key != o[i].Key || !equal(d[i].Value, o[i].Value) {
			return false
		}
	}
	return true
}

// Get returns the value of the first entry with the given key.
func (d Dict) Get(key string) (Value, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether any entry uses key.
func (d Dict) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns the entry keys in stored order, duplicates included.
func (d Dict) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

type null struct{}

// Null is the unique null value.
var Null Value = null{}

func (null) isValue() {}
func (null) Kind() Kind { return KindNull }
func (null) String() string { return "N" }
func (null) Equal(v Value) bool {
	_, ok := v.(null)
	return ok || v == nil
}

// IsNull reports whether v is Null. A nil interface counts as Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(null)
	return ok
}

// Render returns the deterministic debug form of v.
func Render(v Value) string {
	if v == nil {
		return Null.String()
	}
	return v.String()
}

// Equal compares two values structurally. Nil and Null are equal.
func Equal(a, b Value) bool {
	return equal(a, b)
}

func equal(a, b Value) bool {
	if a == nil {
		return IsNull(b)
	}
	return a.Equal(b)
}

package morph

import (
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// typeExpr renders the short type expression of d. Structures and variants
// appear by name only.
func typeExpr(d Descriptor) string {
	switch d.Kind() {
	case KindStruct, KindVariant:
		return d.Name()
	case KindArray, KindList, KindOption, KindDict, KindPair:
		children := d.Children()
		parts := make([]string, len(children))
		for i, c := range children {
			parts[i] = typeExpr(c)
		}
		return d.Kind().String() + "<" + strings.Join(parts, ",") + ">"
	default:
		return leafExpr(d)
	}
}

// leafExpr renders a scalar kind. Time descriptors include their layout.
func leafExpr(d Descriptor) string {
	if lt, ok := d.(interface{ timeLayout() string }); ok && lt.timeLayout() != "" {
		return d.Kind().String() + "(" + strconv.Quote(lt.timeLayout()) + ")"
	}
	return d.Kind().String()
}

// Describe renders the canonical schema text of d, expanding every structure
// and variant the first time it is reached:
//
//	struct Person{name:string;age:int;tags:list<string>}
//	variant Shape{Circle:float|Square:float}
//
// Later references to an already expanded structure or variant render by
// name, so recursive descriptors terminate.
func Describe(d Descriptor) string {
	var sb strings.Builder
	describe(&sb, d, make(map[string]bool))
	return sb.String()
}

func describe(sb *strings.Builder, d Descriptor, seen map[string]bool) {
	switch d.Kind() {
	case KindStruct:
		if seen[d.Name()] {
			sb.WriteString(d.Name())
			return
		}
		seen[d.Name()] = true
		sb.WriteString("struct " + d.Name() + "{")
		for i, f := range d.Fields() {
			if i > 0 {
				sb.WriteByte(';')
			}
			sb.WriteString(f.Name + ":")
			describe(sb, f.Type, seen)
		}
		sb.WriteByte('}')
	case KindVariant:
		if seen[d.Name()] {
			sb.WriteString(d.Name())
			return
		}
		seen[d.Name()] = true
		sb.WriteString("variant " + d.Name() + "{")
		for i, t := range d.Tags() {
			if i > 0 {
				sb.WriteByte('|')
			}
			sb.WriteString(t.Name + ":")
			describe(sb, t.Type, seen)
		}
		sb.WriteByte('}')
	case KindArray, KindList, KindOption, KindDict, KindPair:
		sb.WriteString(d.Kind().String() + "<")
		for i, c := range d.Children() {
			if i > 0 {
				sb.WriteByte(',')
			}
			describe(sb, c, seen)
		}
		sb.WriteByte('>')
	default:
		sb.WriteString(leafExpr(d))
	}
}

// Fingerprint returns the hex-encoded BLAKE2b-256 digest of Describe(d).
// Two peers holding descriptors with equal fingerprints agree on the schema.
func Fingerprint(d Descriptor) string {
	sum := blake2b.Sum256([]byte(Describe(d)))
	return hex.EncodeToString(sum[:])
}

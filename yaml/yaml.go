// Package yaml provides a YAML codec for dynamic values.
//
// Values map onto YAML nodes with the core schema tags. Int32 and DateTime use
// the local tags !int32 and !datetime; plain YAML timestamps also decode as
// DateTime.
package yaml

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/zoobzio/morph"
	"github.com/zoobzio/morph/value"
	"gopkg.in/yaml.v3"
)

const (
	tagNull      = "!!null"
	tagBool      = "!!bool"
	tagInt       = "!!int"
	tagFloat     = "!!float"
	tagStr       = "!!str"
	tagTimestamp = "!!timestamp"
	tagInt32     = "!int32"
	tagDateTime  = "!datetime"
)

// A document may expand to at most minExpansion plus expansionPerByte nodes
// per input byte once aliases are resolved.
const (
	minExpansion     = 10000
	expansionPerByte = 100
)

// ErrExpansion reports a document whose aliases expand past the node budget.
var ErrExpansion = errors.New("document expands beyond node budget")

// yamlCodec implements morph.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() morph.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as a YAML document.
func (c *yamlCodec) Marshal(v value.Value) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrMarshal, err)
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrMarshal, err)
	}
	return data, nil
}

// Unmarshal decodes a YAML document into a dynamic value. An empty document
// decodes as Null.
func (c *yamlCodec) Unmarshal(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return value.Null, nil
	}
	ex := &expander{budget: minExpansion + expansionPerByte*len(data)}
	v, err := ex.fromNode(doc.Content[0])
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, err)
	}
	return v, nil
}

func scalar(tag, text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
}

func toNode(v value.Value) (*yaml.Node, error) {
	switch x := v.(type) {
	case value.Int:
		return scalar(tagInt, strconv.FormatInt(int64(x), 10)), nil
	case value.Int32:
		return scalar(tagInt32, strconv.FormatInt(int64(x), 10)), nil
	case value.Bool:
		return scalar(tagBool, strconv.FormatBool(bool(x))), nil
	case value.Float:
		return scalar(tagFloat, formatFloat(float64(x))), nil
	case value.String:
		return scalar(tagStr, string(x)), nil
	case value.DateTime:
		return scalar(tagDateTime, string(x)), nil
	case value.List:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range x {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case value.Dict:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range x {
			child, err := toNode(e.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, scalar(tagStr, e.Key), child)
		}
		return node, nil
	default:
		if value.IsNull(v) {
			return scalar(tagNull, "null"), nil
		}
		return nil, fmt.Errorf("yaml serialization for %T not implemented", v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// expander converts a node tree, counting every node it produces.
type expander struct {
	budget int
}

func (e *expander) fromNode(node *yaml.Node) (value.Value, error) {
	e.budget--
	if e.budget < 0 {
		return nil, ErrExpansion
	}
	switch node.Kind {
	case yaml.AliasNode:
		return e.fromNode(node.Alias)
	case yaml.SequenceNode:
		out := make(value.List, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := e.fromNode(child)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(value.Dict, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", key.Line)
			}
			v, err := e.fromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out = append(out, value.E(key.Value, v))
		}
		return out, nil
	case yaml.ScalarNode:
		return fromScalar(node)
	default:
		return nil, fmt.Errorf("line %d: unexpected yaml node kind %d", node.Line, node.Kind)
	}
}

func fromScalar(node *yaml.Node) (value.Value, error) {
	switch tag := node.ShortTag(); tag {
	case tagNull:
		return value.Null, nil
	case tagBool:
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case tagInt:
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, err
		}
		return value.Int(n), nil
	case tagInt32:
		n, err := strconv.ParseInt(node.Value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value.Int32(n), nil
	case tagFloat:
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return value.Float(f), nil
	case tagStr:
		return value.String(node.Value), nil
	case tagDateTime, tagTimestamp:
		return value.DateTime(node.Value), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported tag %s", node.Line, tag)
	}
}

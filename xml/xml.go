// Package xml provides an XML codec for dynamic values using the XML-RPC
// value grammar.
//
//	<value><i8>1</i8></value>
//	<value><struct><member><name>k</name><value><i4>2</i4></value></member></struct></value>
//
// Int is written as i8 and Int32 as i4. Both i4 and int decode as Int32. A
// value element without a type child is a string, as XML-RPC prescribes.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zoobzio/morph"
	"github.com/zoobzio/morph/value"
)

// xmlCodec implements morph.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() morph.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as an XML-RPC value element.
func (c *xmlCodec) Marshal(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := write(&buf, v); err != nil {
		return nil, morph.NewCodecError(morph.ErrMarshal, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes an XML-RPC value element.
func (c *xmlCodec) Unmarshal(data []byte) (value.Value, error) {
	var root node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, err)
	}
	v, err := parseValue(root)
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, err)
	}
	return v, nil
}

func write(buf *bytes.Buffer, v value.Value) error {
	buf.WriteString("<value>")
	switch x := v.(type) {
	case nil:
		buf.WriteString("<nil/>")
	case value.Int:
		element(buf, "i8", strconv.FormatInt(int64(x), 10))
	case value.Int32:
		element(buf, "i4", strconv.FormatInt(int64(x), 10))
	case value.Bool:
		if x {
			element(buf, "boolean", "1")
		} else {
			element(buf, "boolean", "0")
		}
	case value.Float:
		f := float64(x)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("unsupported float %v", f)
		}
		element(buf, "double", strconv.FormatFloat(f, 'g', -1, 64))
	case value.String:
		element(buf, "string", string(x))
	case value.DateTime:
		element(buf, "dateTime.iso8601", string(x))
	case value.List:
		buf.WriteString("<array><data>")
		for _, item := range x {
			if err := write(buf, item); err != nil {
				return err
			}
		}
		buf.WriteString("</data></array>")
	case value.Dict:
		buf.WriteString("<struct>")
		for _, e := range x {
			buf.WriteString("<member>")
			element(buf, "name", e.Key)
			if err := write(buf, e.Value); err != nil {
				return err
			}
			buf.WriteString("</member>")
		}
		buf.WriteString("</struct>")
	default:
		if !value.IsNull(v) {
			return fmt.Errorf("xml serialization for %T not implemented", v)
		}
		buf.WriteString("<nil/>")
	}
	buf.WriteString("</value>")
	return nil
}

func element(buf *bytes.Buffer, name, text string) {
	buf.WriteString("<" + name + ">")
	// writes to a bytes.Buffer cannot fail
	_ = xml.EscapeText(buf, []byte(text))
	buf.WriteString("</" + name + ">")
}

// node is a generic element tree.
type node struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Children []node `xml:",any"`
}

func (n node) child(name string) (node, bool) {
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			return c, true
		}
	}
	return node{}, false
}

func parseValue(n node) (value.Value, error) {
	if n.XMLName.Local != "value" {
		return nil, fmt.Errorf("expected <value>, got <%s>", n.XMLName.Local)
	}
	switch len(n.Children) {
	case 0:
		return value.String(n.Text), nil
	case 1:
	default:
		return nil, fmt.Errorf("<value> holds %d elements", len(n.Children))
	}

	typed := n.Children[0]
	text := strings.TrimSpace(typed.Text)
	switch name := typed.XMLName.Local; name {
	case "i8":
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, err
		}
		return value.Int(i), nil
	case "i4", "int":
		i, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, err
		}
		return value.Int32(i), nil
	case "boolean":
		switch text {
		case "1":
			return value.Bool(true), nil
		case "0":
			return value.Bool(false), nil
		}
		return nil, fmt.Errorf("invalid boolean %q", text)
	case "double":
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}
		return value.Float(f), nil
	case "string":
		return value.String(typed.Text), nil
	case "dateTime.iso8601":
		return value.DateTime(text), nil
	case "nil":
		return value.Null, nil
	case "array":
		data, ok := typed.child("data")
		if !ok {
			return nil, fmt.Errorf("<array> without <data>")
		}
		ret := make(value.List, 0, len(data.Children))
		for _, item := range data.Children {
			v, err := parseValue(item)
			if err != nil {
				return nil, err
			}
			ret = append(ret, v)
		}
		return ret, nil
	case "struct":
		ret := make(value.Dict, 0, len(typed.Children))
		for _, member := range typed.Children {
			if member.XMLName.Local != "member" {
				return nil, fmt.Errorf("expected <member>, got <%s>", member.XMLName.Local)
			}
			key, ok := member.child("name")
			if !ok {
				return nil, fmt.Errorf("<member> without <name>")
			}
			item, ok := member.child("value")
			if !ok {
				return nil, fmt.Errorf("member %s without <value>", key.Text)
			}
			v, err := parseValue(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key.Text, err)
			}
			ret = append(ret, value.E(key.Text, v))
		}
		return ret, nil
	default:
		return nil, fmt.Errorf("unsupported element <%s>", name)
	}
}

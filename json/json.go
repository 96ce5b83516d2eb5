// Package json provides a JSON codec for dynamic values.
//
// Ints are written as bare integers and floats always carry a fraction or an
// exponent, so the two survive a round trip. DateTime is written as the object
// {"$datetime": "..."}; user keys starting with "$" are written with one more
// "$" so they never read back as the marker. Int32 has no JSON form of its own
// and decodes as Int.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/zoobzio/morph"
	"github.com/zoobzio/morph/value"
)

// dateTimeKey marks an object holding a DateTime.
const dateTimeKey = "$datetime"

// jsonCodec implements morph.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
func New() morph.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := write(&buf, v); err != nil {
		return nil, morph.NewCodecError(morph.ErrMarshal, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON data into a dynamic value.
func (c *jsonCodec) Unmarshal(data []byte) (value.Value, error) {
	vdata, vtype, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, err)
	}
	if rest := bytes.TrimSpace(data[end:]); len(rest) != 0 {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, fmt.Errorf("%d trailing bytes", len(rest)))
	}
	v, err := parse(vdata, vtype)
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, err)
	}
	return v, nil
}

func write(buf *bytes.Buffer, v value.Value) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case value.Int:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case value.Int32:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case value.Bool:
		buf.WriteString(strconv.FormatBool(bool(x)))
	case value.Float:
		f := float64(x)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("unsupported float %v", f)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !bytes.ContainsAny([]byte(s), ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case value.String:
		return writeString(buf, string(x))
	case value.DateTime:
		buf.WriteString(`{"` + dateTimeKey + `":`)
		if err := writeString(buf, string(x)); err != nil {
			return err
		}
		buf.WriteByte('}')
	case value.List:
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := write(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case value.Dict:
		buf.WriteByte('{')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, escapeKey(e.Key)); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := write(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		if value.IsNull(v) {
			buf.WriteString("null")
			return nil
		}
		return fmt.Errorf("json serialization for %T not implemented", v)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// escapeKey prefixes keys starting with "$" with another "$", keeping the
// "$" namespace free for markers.
func escapeKey(key string) string {
	if strings.HasPrefix(key, "$") {
		return "$" + key
	}
	return key
}

// unescapeKey reverses escapeKey. Single-"$" keys from other producers are
// kept as they are.
func unescapeKey(key string) string {
	if strings.HasPrefix(key, "$$") {
		return key[1:]
	}
	return key
}

func parse(vdata []byte, vtype jsonparser.ValueType) (value.Value, error) {
	switch vtype {
	case jsonparser.Boolean:
		v, err := jsonparser.ParseBoolean(vdata)
		if err != nil {
			return nil, err
		}
		return value.Bool(v), nil
	case jsonparser.Number:
		if v, err := jsonparser.ParseInt(vdata); err == nil {
			return value.Int(v), nil
		}
		v, err := jsonparser.ParseFloat(vdata)
		if err != nil {
			return nil, err
		}
		return value.Float(v), nil
	case jsonparser.String:
		v, err := jsonparser.ParseString(vdata)
		if err != nil {
			return nil, err
		}
		return value.String(v), nil
	case jsonparser.Array:
		ret := value.List{}
		var errs []error
		handler := func(item []byte, dataType jsonparser.ValueType, _ int, err error) {
			if err != nil {
				errs = append(errs, err)
				return
			}
			v, err := parse(item, dataType)
			if err != nil {
				errs = append(errs, err)
				return
			}
			ret = append(ret, v)
		}
		if _, err := jsonparser.ArrayEach(vdata, handler); err != nil {
			return nil, err
		}
		if len(errs) != 0 {
			return nil, errs[0]
		}
		return ret, nil
	case jsonparser.Object:
		ret := value.Dict{}
		handler := func(key []byte, item []byte, dataType jsonparser.ValueType, _ int) error {
			// ObjectEach hands over keys already unescaped
			v, err := parse(item, dataType)
			if err != nil {
				return err
			}
			ret = append(ret, value.E(string(key), v))
			return nil
		}
		if err := jsonparser.ObjectEach(vdata, handler); err != nil {
			return nil, err
		}
		if len(ret) == 1 && ret[0].Key == dateTimeKey {
			if s, ok := ret[0].Value.(value.String); ok {
				return value.DateTime(s), nil
			}
		}
		for i := range ret {
			ret[i].Key = unescapeKey(ret[i].Key)
		}
		return ret, nil
	case jsonparser.Null:
		return value.Null, nil
	default:
		return nil, fmt.Errorf("unknown json type %v", vtype)
	}
}

// Package msgpack provides a MessagePack codec for dynamic values.
//
// Int is always written as a 64-bit integer and Int32 as a 32-bit one, so the
// distinction survives a round trip. Compact integers written by other
// encoders decode as Int. DateTime travels as a bin payload holding its text.
package msgpack

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"github.com/zoobzio/morph"
	"github.com/zoobzio/morph/value"
)

// msgpackCodec implements morph.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() morph.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(msgpack.NewEncoder(&buf), v); err != nil {
		return nil, morph.NewCodecError(morph.ErrMarshal, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into a dynamic value.
func (c *msgpackCodec) Unmarshal(data []byte) (value.Value, error) {
	r := bytes.NewReader(data)
	v, err := decode(msgpack.NewDecoder(r), r)
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, err)
	}
	if r.Len() != 0 {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, fmt.Errorf("%d trailing bytes", r.Len()))
	}
	return v, nil
}

func encode(enc *msgpack.Encoder, v value.Value) error {
	switch x := v.(type) {
	case nil:
		return enc.EncodeNil()
	case value.Int:
		return enc.EncodeInt64(int64(x))
	case value.Int32:
		return enc.EncodeInt32(int32(x))
	case value.Bool:
		return enc.EncodeBool(bool(x))
	case value.Float:
		return enc.EncodeFloat64(float64(x))
	case value.String:
		return enc.EncodeString(string(x))
	case value.DateTime:
		return enc.EncodeBytes([]byte(x))
	case value.List:
		if err := enc.EncodeArrayLen(len(x)); err != nil {
			return err
		}
		for _, item := range x {
			if err := encode(enc, item); err != nil {
				return err
			}
		}
		return nil
	case value.Dict:
		if err := enc.EncodeMapLen(len(x)); err != nil {
			return err
		}
		for _, e := range x {
			if err := enc.EncodeString(e.Key); err != nil {
				return err
			}
			if err := encode(enc, e.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		if value.IsNull(v) {
			return enc.EncodeNil()
		}
		return fmt.Errorf("msgpack serialization for %T not implemented", v)
	}
}

// decode reads one value. Every element takes at least one byte, so
// container capacity is capped by what is left in r.
func decode(dec *msgpack.Decoder, r *bytes.Reader) (value.Value, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case c == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return nil, err
		}
		return value.Null, nil
	case c == msgpcode.True || c == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case c == msgpcode.Int32:
		n, err := dec.DecodeInt32()
		if err != nil {
			return nil, err
		}
		return value.Int32(n), nil
	case isInteger(c):
		n, err := dec.DecodeInt64()
		if err != nil {
			return nil, err
		}
		return value.Int(n), nil
	case c == msgpcode.Float || c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return nil, err
		}
		return value.Float(f), nil
	case msgpcode.IsString(c):
		s, err := dec.DecodeString()
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	case msgpcode.IsBin(c):
		b, err := dec.DecodeBytes()
		if err != nil {
			return nil, err
		}
		return value.DateTime(b), nil
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		ret := make(value.List, 0, min(n, r.Len()))
		for i := 0; i < n; i++ {
			item, err := decode(dec, r)
			if err != nil {
				return nil, err
			}
			ret = append(ret, item)
		}
		return ret, nil
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		ret := make(value.Dict, 0, min(n, r.Len()))
		for i := 0; i < n; i++ {
			kc, err := dec.PeekCode()
			if err != nil {
				return nil, err
			}
			if !msgpcode.IsString(kc) {
				return nil, fmt.Errorf("unsupported map key code 0x%02x", kc)
			}
			key, err := dec.DecodeString()
			if err != nil {
				return nil, err
			}
			item, err := decode(dec, r)
			if err != nil {
				return nil, err
			}
			ret = append(ret, value.E(key, item))
		}
		return ret, nil
	default:
		return nil, fmt.Errorf("unsupported msgpack code 0x%02x", c)
	}
}

func isInteger(c byte) bool {
	if msgpcode.IsFixedNum(c) {
		return true
	}
	switch c {
	case msgpcode.Int8, msgpcode.Int16, msgpcode.Int64,
		msgpcode.Uint8, msgpcode.Uint16, msgpcode.Uint32, msgpcode.Uint64:
		return true
	}
	return false
}

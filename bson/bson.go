// Package bson provides a BSON codec for dynamic values.
//
// BSON documents cannot hold a bare scalar, so every value is wrapped as the
// single field "v" of a top-level document. Int maps to int64 and Int32 to
// int32. DateTime travels as a BSON symbol carrying its text, and native
// BSON datetimes written by other producers decode as RFC 3339 DateTime.
package bson

import (
	"fmt"
	"time"

	"github.com/zoobzio/morph"
	"github.com/zoobzio/morph/value"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// wrapKey names the field holding the encoded value.
const wrapKey = "v"

// bsonCodec implements morph.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() morph.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document.
func (c *bsonCodec) Marshal(v value.Value) ([]byte, error) {
	native, err := toNative(v)
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrMarshal, err)
	}
	data, err := bson.Marshal(bson.D{{Key: wrapKey, Value: native}})
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrMarshal, err)
	}
	return data, nil
}

// Unmarshal decodes a BSON document into a dynamic value.
func (c *bsonCodec) Unmarshal(data []byte) (value.Value, error) {
	raw := bson.Raw(data)
	if err := raw.Validate(); err != nil {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, err)
	}
	rv, err := raw.LookupErr(wrapKey)
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, fmt.Errorf("field %q: %w", wrapKey, err))
	}
	v, err := fromRaw(rv)
	if err != nil {
		return nil, morph.NewCodecError(morph.ErrUnmarshal, err)
	}
	return v, nil
}

func toNative(v value.Value) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case value.Int:
		return int64(x), nil
	case value.Int32:
		return int32(x), nil
	case value.Bool:
		return bool(x), nil
	case value.Float:
		return float64(x), nil
	case value.String:
		return string(x), nil
	case value.DateTime:
		return primitive.Symbol(x), nil
	case value.List:
		ret := make(bson.A, 0, len(x))
		for _, item := range x {
			n, err := toNative(item)
			if err != nil {
				return nil, err
			}
			ret = append(ret, n)
		}
		return ret, nil
	case value.Dict:
		ret := make(bson.D, 0, len(x))
		for _, e := range x {
			n, err := toNative(e.Value)
			if err != nil {
				return nil, err
			}
			ret = append(ret, bson.E{Key: e.Key, Value: n})
		}
		return ret, nil
	default:
		if value.IsNull(v) {
			return nil, nil
		}
		return nil, fmt.Errorf("bson serialization for %T not implemented", v)
	}
}

func fromRaw(rv bson.RawValue) (value.Value, error) {
	switch rv.Type {
	case bsontype.Null, bsontype.Undefined:
		return value.Null, nil
	case bsontype.Int64:
		return value.Int(rv.Int64()), nil
	case bsontype.Int32:
		return value.Int32(rv.Int32()), nil
	case bsontype.Boolean:
		return value.Bool(rv.Boolean()), nil
	case bsontype.Double:
		return value.Float(rv.Double()), nil
	case bsontype.String:
		return value.String(rv.StringValue()), nil
	case bsontype.Symbol:
		return value.DateTime(rv.Symbol()), nil
	case bsontype.DateTime:
		return value.DateTime(rv.Time().UTC().Format(time.RFC3339Nano)), nil
	case bsontype.Array:
		items, err := rv.Array().Values()
		if err != nil {
			return nil, err
		}
		ret := make(value.List, 0, len(items))
		for _, item := range items {
			v, err := fromRaw(item)
			if err != nil {
				return nil, err
			}
			ret = append(ret, v)
		}
		return ret, nil
	case bsontype.EmbeddedDocument:
		elems, err := rv.Document().Elements()
		if err != nil {
			return nil, err
		}
		ret := make(value.Dict, 0, len(elems))
		for _, elem := range elems {
			v, err := fromRaw(elem.Value())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", elem.Key(), err)
			}
			ret = append(ret, value.E(elem.Key(), v))
		}
		return ret, nil
	default:
		return nil, fmt.Errorf("unsupported bson type %s", rv.Type)
	}
}

package morph

import (
	"errors"
	"math"
	"strconv"

	"github.com/zoobzio/morph/value"
)

// Scalar descriptors are stateless; each constructor returns a shared instance.
var (
	intType      = scalar(KindInt, func(i int) value.Value { return value.Int(i) }, decodeInt)
	int32Type    = scalar(KindInt32, func(i int32) value.Value { return value.Int32(i) }, decodeInt32)
	int64Type    = scalar(KindInt64, func(i int64) value.Value { return value.Int(i) }, decodeInt64)
	boolType     = scalar(KindBool, func(b bool) value.Value { return value.Bool(b) }, decodeBool)
	floatType    = scalar(KindFloat, func(f float64) value.Value { return value.Float(f) }, decodeFloat)
	stringType   = scalar(KindString, func(s string) value.Value { return value.String(s) }, decodeString)
	charType     = scalar(KindChar, func(c byte) value.Value { return value.Int(c) }, decodeChar)
	dateTimeType = scalar(KindDateTime, func(s string) value.Value { return value.DateTime(s) }, decodeDateTime)
	unitType     = scalar(KindUnit, func(struct{}) value.Value { return value.Null }, decodeUnit)
)

func scalar[T any](kind Kind, encode func(T) value.Value, decode func(value.Value) (T, error)) *Type[T] {
	return &Type[T]{kind: kind, encode: encode, decode: decode}
}

// Int describes int. Decoding accepts Int, Int32 and base-10 numerals in String.
func Int() *Type[int] { return intType }

// Int32 describes int32. Decoding accepts Int and Int32 within range and
// base-10 numerals in String.
func Int32() *Type[int32] { return int32Type }

// Int64 describes int64. Decoding accepts Int, Int32 and base-10 numerals in String.
func Int64() *Type[int64] { return int64Type }

// Bool describes bool. Decoding accepts Bool only.
func Bool() *Type[bool] { return boolType }

// Float describes float64. Decoding accepts Float and float numerals in String.
func Float() *Type[float64] { return floatType }

// String describes string. Decoding accepts String only.
func String() *Type[string] { return stringType }

// Char describes a byte holding a code point in 0-255, encoded as Int.
func Char() *Type[byte] { return charType }

// DateTime describes a timestamp kept as text in an opaque format.
// Decoding accepts DateTime only.
func DateTime() *Type[string] { return dateTimeType }

// Unit describes the unit type. Null is its only encoding.
func Unit() *Type[struct{}] { return unitType }

func decodeInt(v value.Value) (int, error) {
	n, err := decodeInteger(KindInt, strconv.IntSize, v)
	return int(n), err
}

func decodeInt32(v value.Value) (int32, error) {
	n, err := decodeInteger(KindInt32, 32, v)
	return int32(n), err
}

func decodeInt64(v value.Value) (int64, error) {
	return decodeInteger(KindInt64, 64, v)
}

// decodeInteger accepts Int, Int32 or a base-10 numeral in String and checks
// the result fits in bits.
func decodeInteger(kind Kind, bits int, v value.Value) (int64, error) {
	var n int64
	switch x := v.(type) {
	case value.Int:
		n = int64(x)
	case value.Int32:
		n = int64(x)
	case value.String:
		parsed, err := strconv.ParseInt(string(x), 10, bits)
		if errors.Is(err, strconv.ErrRange) {
			return 0, rangeError(kind, v, "out of range")
		}
		if err != nil {
			return 0, coercionError(kind, v, "unparsable "+kind.String()+" numeral")
		}
		return parsed, nil
	default:
		return 0, scalarMismatch(kind, v)
	}
	if bits < 64 {
		lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		if n < lo || n > hi {
			return 0, rangeError(kind, v, "out of range")
		}
	}
	return n, nil
}

func decodeChar(v value.Value) (byte, error) {
	n, err := decodeInteger(KindChar, 64, v)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > math.MaxUint8 {
		return 0, rangeError(KindChar, v, "code point out of range 0-255")
	}
	return byte(n), nil
}

func decodeFloat(v value.Value) (float64, error) {
	switch x := v.(type) {
	case value.Float:
		return float64(x), nil
	case value.String:
		f, err := strconv.ParseFloat(string(x), 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, rangeError(KindFloat, v, "out of range")
		}
		if err != nil {
			return 0, coercionError(KindFloat, v, "unparsable float numeral")
		}
		return f, nil
	default:
		return 0, scalarMismatch(KindFloat, v)
	}
}

func decodeBool(v value.Value) (bool, error) {
	if b, ok := v.(value.Bool); ok {
		return bool(b), nil
	}
	return false, scalarMismatch(KindBool, v)
}

func decodeString(v value.Value) (string, error) {
	if s, ok := v.(value.String); ok {
		return string(s), nil
	}
	return "", scalarMismatch(KindString, v)
}

func decodeDateTime(v value.Value) (string, error) {
	if d, ok := v.(value.DateTime); ok {
		return string(d), nil
	}
	return "", scalarMismatch(KindDateTime, v)
}

func decodeUnit(v value.Value) (struct{}, error) {
	if value.IsNull(v) {
		return struct{}{}, nil
	}
	return struct{}{}, scalarMismatch(KindUnit, v)
}

func scalarMismatch(kind Kind, got value.Value) error {
	return &DecodeError{Err: ErrTypeMismatch, Expected: kind.String(), Got: value.Render(got)}
}

func coercionError(kind Kind, got value.Value, reason string) error {
	return &DecodeError{Err: ErrCoercion, Expected: kind.String(), Got: value.Render(got), Reason: reason}
}

func rangeError(kind Kind, got value.Value, reason string) error {
	return &DecodeError{Err: ErrRange, Expected: kind.String(), Got: value.Render(got), Reason: reason}
}

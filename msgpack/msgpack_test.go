package msgpack

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/morph"
	"github.com/zoobzio/morph/value"
)

func TestNew(t *testing.T) {
	c := New()
	require.NotNil(t, c)
	assert.Equal(t, "application/msgpack", c.ContentType())
}

func TestMarshal_Wire(t *testing.T) {
	c := New()
	scenarios := []struct {
		name string
		in   value.Value
		want []byte
	}{
		{"int is 64-bit", value.Int(1), []byte{0xd3, 0, 0, 0, 0, 0, 0, 0, 1}},
		{"int32 is 32-bit", value.Int32(5), []byte{0xd2, 0, 0, 0, 5}},
		{"bool", value.Bool(true), []byte{0xc3}},
		{"null", value.Null, []byte{0xc0}},
		{"nil", nil, []byte{0xc0}},
		{"string", value.String("ab"), []byte{0xa2, 'a', 'b'}},
		{"datetime is bin", value.DateTime("x"), []byte{0xc4, 1, 'x'}},
		{"empty list", value.List{}, []byte{0x90}},
		{"dict", value.Dict{value.E("k", value.Bool(false))}, []byte{0x81, 0xa1, 'k', 0xc2}},
	}
	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			data, err := c.Marshal(scenario.in)
			require.NoError(t, err)
			assert.Equal(t, scenario.want, data)
		})
	}
}

func TestUnmarshal_ForeignEncodings(t *testing.T) {
	c := New()
	scenarios := []struct {
		name string
		in   []byte
		want value.Value
	}{
		{"positive fixint", []byte{0x05}, value.Int(5)},
		{"negative fixint", []byte{0xff}, value.Int(-1)},
		{"uint8", []byte{0xcc, 0xff}, value.Int(255)},
		{"int16", []byte{0xd1, 0x01, 0x00}, value.Int(256)},
		{"float32", []byte{0xca, 0x3f, 0xc0, 0, 0}, value.Float(1.5)},
		{"str8", []byte{0xd9, 1, 'z'}, value.String("z")},
		{"array16", []byte{0xdc, 0, 1, 0xc0}, value.List{value.Null}},
		{"duplicate keys kept", []byte{0x82, 0xa1, 'k', 0x01, 0xa1, 'k', 0x02}, value.Dict{value.E("k", value.Int(1)), value.E("k", value.Int(2))}},
	}
	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			got, err := c.Unmarshal(scenario.in)
			require.NoError(t, err)
			assert.True(t, value.Equal(scenario.want, got), "got %s, want %s", got, scenario.want)
		})
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()
	scenarios := map[string][]byte{
		"empty":             {},
		"truncated":         {0xd3, 0, 0},
		"trailing bytes":    {0xc0, 0xc0},
		"int map key":       {0x81, 0x01, 0x02},
		"extension":         {0xd4, 0x01, 0x00},
		"huge array header": {0xdd, 0x7f, 0xff, 0xff, 0xff},
		"huge map header":   {0xdf, 0x7f, 0xff, 0xff, 0xff},
	}
	for name, in := range scenarios {
		t.Run(name, func(t *testing.T) {
			_, err := c.Unmarshal(in)
			assert.ErrorIs(t, err, morph.ErrUnmarshal)
		})
	}
}

func TestUnmarshal_LengthHeaderBeyondInput(t *testing.T) {
	c := New()
	// two elements present, header claims 2^31-1
	data := []byte{0xdd, 0x7f, 0xff, 0xff, 0xff, 0x01, 0x02}
	_, err := c.Unmarshal(data)
	require.ErrorIs(t, err, morph.ErrUnmarshal)

	// an honest header of the same width still decodes
	got, err := c.Unmarshal([]byte{0xdd, 0, 0, 0, 2, 0x01, 0x02})
	require.NoError(t, err)
	assert.True(t, value.Equal(value.List{value.Int(1), value.Int(2)}, got), "got %s", got)
}

func TestRoundTrip(t *testing.T) {
	c := New()
	in := value.Dict{
		value.E("id", value.Int(math.MinInt64)),
		value.E("floor", value.Int32(-3)),
		value.E("ratio", value.Float(math.Inf(1))),
		value.E("when", value.DateTime("2024-05-06T07:08:09Z")),
		value.E("tags", value.List{value.String(""), value.Bool(false), value.DateTime("")}),
		value.E("none", value.Null),
		value.E("empty", value.Dict{}),
	}
	data, err := c.Marshal(in)
	require.NoError(t, err)
	out, err := c.Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, out), "got %s, want %s", out, in)
}

func TestProcessorIntegration(t *testing.T) {
	floor := morph.Named("Floor", "", morph.Int32())
	proc, err := morph.NewProcessor(floor, New())
	require.NoError(t, err)

	data, err := proc.Encode(t.Context(), 12)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xd2, 0, 0, 0, 12}, data)

	got, err := proc.Decode(t.Context(), data)
	require.NoError(t, err)
	assert.Equal(t, int32(12), got)
}

package xml

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
	assert.Equal(t, "application/xml", c.ContentType())
}

func TestMarshal(t *testing.T) {
	c := New()
	scenarios := []struct {
		name string
		in   value.Value
		want string
	}{
		{"int", value.Int(-1), `<value><i8>-1</i8></value>`},
		{"int32", value.Int32(5), `<value><i4>5</i4></value>`},
		{"bool", value.Bool(false), `<value><boolean>0</boolean></value>`},
		{"double", value.Float(2.5), `<value><double>2.5</double></value>`},
		{"escaped string", value.String("<a>&"), `<value><string>&lt;a&gt;&amp;</string></value>`},
		{"datetime", value.DateTime("20240101T10:00:00"), `<value><dateTime.iso8601>20240101T10:00:00</dateTime.iso8601></value>`},
		{"null", value.Null, `<value><nil/></value>`},
		{"list", value.List{value.Int32(1)}, `<value><array><data><value><i4>1</i4></value></data></array></value>`},
		{"dict", value.Dict{value.E("k", value.Bool(true))}, `<value><struct><member><name>k</name><value><boolean>1</boolean></value></member></struct></value>`},
	}
	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			data, err := c.Marshal(scenario.in)
			require.NoError(t, err)
			assert.Equal(t, scenario.want, string(data))
		})
	}
}

func TestMarshal_NonFinite(t *testing.T) {
	_, err := New().Marshal(value.Float(math.NaN()))
	assert.ErrorIs(t, err, morph.ErrMarshal)
}

func TestUnmarshal(t *testing.T) {
	c := New()
	scenarios := []struct {
		name string
		in   string
		want value.Value
	}{
		{"untyped is string", `<value>plain</value>`, value.String("plain")},
		{"int alias", `<value><int> 42 </int></value>`, value.Int32(42)},
		{"i8", `<value><i8>9000000000</i8></value>`, value.Int(9000000000)},
		{"string keeps spaces", `<value><string> x </string></value>`, value.String(" x ")},
		{"cdata", `<value><string><![CDATA[<raw>]]></string></value>`, value.String("<raw>")},
		{"declaration", `<?xml version="1.0"?><value><double>1e3</double></value>`, value.Float(1000)},
		{
			"indented struct",
			"<value>\n  <struct>\n    <member>\n      <name>a</name>\n      <value><array><data></data></array></value>\n    </member>\n  </struct>\n</value>",
			value.Dict{value.E("a", value.List{})},
		},
	}
	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			got, err := c.Unmarshal([]byte(scenario.in))
			require.NoError(t, err)
			assert.True(t, value.Equal(scenario.want, got), "got %s, want %s", got, scenario.want)
		})
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()
	scenarios := map[string]string{
		"empty":             ``,
		"malformed":         `<value><i4>1</value>`,
		"wrong root":        `<param><i4>1</i4></param>`,
		"i4 overflow":       `<value><i4>3000000000</i4></value>`,
		"bad boolean":       `<value><boolean>yes</boolean></value>`,
		"array no data":     `<value><array></array></value>`,
		"member no value":   `<value><struct><member><name>a</name></member></struct></value>`,
		"unknown type":      `<value><base64>AA==</base64></value>`,
		"two type elements": `<value><i4>1</i4><i4>2</i4></value>`,
	}
	for name, in := range scenarios {
		t.Run(name, func(t *testing.T) {
			_, err := c.Unmarshal([]byte(in))
			assert.ErrorIs(t, err, morph.ErrUnmarshal)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	c := New()
	in := value.Dict{
		value.E("id", value.Int(math.MaxInt64)),
		value.E("floor", value.Int32(math.MinInt32)),
		value.E("ratio", value.Float(-0.125)),
		value.E("note", value.String("line one\nline \"two\"")),
		value.E("empty", value.String("")),
		value.E("when", value.DateTime("2024-05-06T07:08:09Z")),
		value.E("tags", value.List{value.Null, value.Dict{}}),
	}
	data, err := c.Marshal(in)
	require.NoError(t, err)
	out, err := c.Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, out), "got %s, want %s", out, in)
}

package morph

import "github.com/zoobzio/morph/value"

// Codec moves dynamic values across a wire format.
//
// Implementations live in the json, yaml, msgpack, bson and xml packages.
// Unmarshal must produce only the variants defined in package value.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v value.Value) ([]byte, error)

	// Unmarshal decodes data into a dynamic value.
	Unmarshal(data []byte) (value.Value, error)
}

package codec

import (
	"fmt"

	"github.com/unkn0wn-root/extjson"
)

// Extended stores values through an extjson.Codec, so sets, maps with
// arbitrary keys, timestamps and registered custom types survive storage.
//
// V is the caller's view of the decoded root. Use any for heterogeneous
// documents; a concrete V (e.g. *extjson.Set or a registered type) makes
// Decode fail when the stored root has another type.
type Extended[V any] struct {
	C *extjson.Codec
}

// NewExtended wraps c. It panics on a nil codec.
func NewExtended[V any](c *extjson.Codec) Extended[V] {
	if c == nil {
		panic("codec: nil extjson codec")
	}
	return Extended[V]{C: c}
}

func (Extended[V]) ContentType() string { return "application/vnd.extjson+json" }

// Encode writes v. A root extjson.Undefined encodes to an empty payload.
func (e Extended[V]) Encode(v V) ([]byte, error) {
	return e.C.Encode(v)
}

func (e Extended[V]) Decode(b []byte) (V, error) {
	var zero V
	raw, err := e.C.Decode(b)
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, nil
	}
	v, ok := raw.(V)
	if !ok {
		return zero, fmt.Errorf("codec: decoded %T, want %T", raw, zero)
	}
	return v, nil
}

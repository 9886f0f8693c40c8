package extjson

import (
	"github.com/unkn0wn-root/extjson/walk"
)

// Codec encodes and decodes extended values as JSON text.
// It is immutable once built and safe for concurrent use.
type Codec struct {
	Transforms
}

// Stringify encodes v. ok is false only when v itself is Undefined: a
// document root cannot hold the absent value, so no text is produced and
// handlers are not consulted. Undefined anywhere below the root is handled
// by the registry like any other value.
func (c *Codec) Stringify(v any) (text string, ok bool, err error) {
	if walk.IsUndefined(v) {
		return "", false, nil
	}
	b, ok, err := c.walker.Stringify(v, c.Replacer())
	if err != nil {
		return "", false, err
	}
	return string(b), ok, nil
}

// Parse decodes text produced by Stringify (or any JSON text). Objects come
// back as map[string]any, arrays as []any and numbers as float64; wrappers are
// rebuilt by their handlers. A root wrapper that rebuilds to the absent value
// yields Undefined.
func (c *Codec) Parse(text string) (any, error) {
	return c.parse([]byte(text))
}

// Encode is the []byte form of Stringify. A root Undefined encodes to nil.
func (c *Codec) Encode(v any) ([]byte, error) {
	if walk.IsUndefined(v) {
		return nil, nil
	}
	b, _, err := c.walker.Stringify(v, c.Replacer())
	return b, err
}

// Decode is the []byte form of Parse. Empty input decodes to Undefined,
// mirroring Encode.
func (c *Codec) Decode(b []byte) (any, error) {
	if len(b) == 0 {
		return Undefined{}, nil
	}
	return c.parse(b)
}

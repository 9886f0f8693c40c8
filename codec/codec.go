// Package codec holds value codecs for the store package: V <-> []byte.
// Extended[V] plugs an extjson.Codec in; the rest wrap common formats.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Typed is optionally implemented by codecs to name their wire format.
// The store frames entries with it and rejects entries written by another format.
type Typed interface {
	ContentType() string
}

// ContentTypeOf returns c's content type, or "application/octet-stream".
func ContentTypeOf(c any) string {
	if t, ok := c.(Typed); ok {
		return t.ContentType()
	}
	return "application/octet-stream"
}

package codec

import "github.com/go-json-experiment/json"

// JSON is a Codec over go-json-experiment/json with deterministic map ordering.
// It knows nothing of extended values; use Extended for those.
type JSON[V any] struct{}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[V]) ContentType() string { return "application/json" }

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v, json.Deterministic(true)) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

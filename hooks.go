package extjson

// Hooks lightweight callbacks for wrapper traffic.
// Implementations MUST be cheap, non-blocking and safe for concurrent use.
// The codec calls them from inside the traversal.
type Hooks interface {
	// A value matched handler id and was replaced by a wrapper.
	WrapperEncoded(id string)

	// A wrapper was rebuilt by handler id.
	WrapperDecoded(id string)

	// A wrapper carried an id no handler owns. In the default mode it is
	// passed through unchanged; in strict mode decoding fails right after.
	UnknownID(id string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) WrapperEncoded(string) {}
func (NopHooks) WrapperDecoded(string) {}
func (NopHooks) UnknownID(string)      {}

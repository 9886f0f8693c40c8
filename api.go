package extjson

import (
	"github.com/unkn0wn-root/extjson/walk"
)

// Undefined is the absent value. Inside containers it round-trips when the
// undefined handler is registered; see Codec.Stringify for the root case.
type Undefined = walk.Undefined

// IsUndefined reports whether v is the absent value.
func IsUndefined(v any) bool { return walk.IsUndefined(v) }

// Handler teaches the codec one extended type.
// Handlers are immutable once registered.
type Handler struct {
	// ID tags the wrapper on the wire. Non-empty, unique per registry.
	ID string

	// Recognize reports whether value (found under key) belongs to this handler.
	// Handlers are tried in registration order; the first match wins.
	Recognize func(value any, key string) bool

	// ToPlain returns a JSON-representable form. It may itself contain
	// extended values; they are wrapped recursively.
	ToPlain func(value any) (any, error)

	// FromPlain rebuilds the value from the decoded plain form.
	FromPlain func(plain any) (any, error)
}

// HandlerFor builds a Handler recognizing values whose dynamic type is T.
func HandlerFor[T any](id string, toPlain func(T) (any, error), fromPlain func(any) (T, error)) Handler {
	return Handler{
		ID: id,
		Recognize: func(v any, _ string) bool {
			_, ok := v.(T)
			return ok
		},
		ToPlain: func(v any) (any, error) { return toPlain(v.(T)) },
		FromPlain: func(plain any) (any, error) {
			v, err := fromPlain(plain)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// Predefined names a built-in handler.
type Predefined string

const (
	PredefinedSet       Predefined = "set"
	PredefinedMap       Predefined = "map"
	PredefinedDate      Predefined = "date"
	PredefinedUndefined Predefined = "undefined"

	// AllPredefined selects every built-in handler.
	AllPredefined Predefined = "all"
)

// Options tune a codec. The zero value is ready to use.
type Options struct {
	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used

	// StrictIDs makes decoding fail with *UnknownIDError on wrappers whose id
	// is not registered. Default false: such wrappers pass through unchanged.
	StrictIDs bool

	// MaxDepth bounds container nesting per (nested) document; 0 => walk.DefaultMaxDepth.
	MaxDepth int
}

// Package walk drives JSON stringify/parse traversals with per-key callbacks.
//
// The text grammar (tokens, escaping, number formatting) is handled by
// go-json-experiment's jsontext package. walk only adds the traversal:
//
//   - Stringify visits every key/value pair depth-first, parent before children,
//     and lets a Replacer substitute the value before it is written. When the
//     substitute is a container, the traversal descends into the substitute.
//   - Parse builds a generic tree (map[string]any, []any, string, float64,
//     bool, nil) and then visits it children before parent, letting a Reviver
//     substitute every node.
//
// Undefined models a slot that holds no value. Natively it cannot be written:
// object members holding it are dropped, array elements become null and a
// root value of Undefined produces no text at all.
//
// JSON has no NaN or infinities: non-finite float64/float32 values are
// written as null, so they read back as nil.
package walk

import (
	"errors"
	"math"
	"strconv"
)

// DefaultMaxDepth bounds container nesting for both directions.
const DefaultMaxDepth = 10000

var (
	ErrMaxDepth     = errors.New("walk: maximum nesting depth exceeded")
	ErrTrailingData = errors.New("walk: unexpected data after top-level value")
)

// Undefined is the absent value. It is distinct from nil, which is JSON null.
type Undefined struct{}

func (Undefined) String() string { return "undefined" }

// IsUndefined reports whether v is the absent value.
func IsUndefined(v any) bool {
	_, ok := v.(Undefined)
	return ok
}

// Replacer is called for every pair visited by Stringify. The root is visited
// with key "" and array elements with their decimal index.
type Replacer func(key string, value any) (any, error)

// Reviver is called for every node produced by Parse, children first.
type Reviver func(key string, value any) (any, error)

// Config carries traversal limits. The zero value uses DefaultMaxDepth.
type Config struct {
	MaxDepth int
}

// Limit returns the effective nesting limit.
func (c Config) Limit() int { return c.maxDepth() }

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

// Stringify encodes v with the default Config.
func Stringify(v any, r Replacer) ([]byte, bool, error) {
	return Config{}.Stringify(v, r)
}

// Parse decodes data with the default Config.
func Parse(data []byte, r Reviver) (any, error) {
	return Config{}.Parse(data, r)
}

func index(i int) string { return strconv.Itoa(i) }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

package extjson

import (
	"fmt"
	"time"

	"github.com/unkn0wn-root/extjson/walk"
)

// dateLayout is RFC 3339 in UTC with as many fractional digits as needed.
// Parsing with time.RFC3339Nano also accepts the fixed millisecond form
// produced by Date.prototype.toISOString.
const dateLayout = time.RFC3339Nano

func predefinedHandlers() map[Predefined]Handler {
	return map[Predefined]Handler{
		PredefinedSet:       setHandler(),
		PredefinedMap:       mapHandler(),
		PredefinedDate:      dateHandler(),
		PredefinedUndefined: undefinedHandler(),
	}
}

// predefinedOrder is the registration order, whatever order the caller listed them in.
var predefinedOrder = []Predefined{PredefinedSet, PredefinedMap, PredefinedDate, PredefinedUndefined}

func setHandler() Handler {
	const id = string(PredefinedSet)
	return Handler{
		ID: id,
		Recognize: func(v any, _ string) bool {
			s, ok := v.(*Set)
			return ok && s != nil
		},
		ToPlain: func(v any) (any, error) { return v.(*Set).Values(), nil },
		FromPlain: func(plain any) (any, error) {
			elems, ok := plain.([]any)
			if !ok {
				return nil, &PlainError{ID: id, Reason: "expected array"}
			}
			return NewSet(elems...), nil
		},
	}
}

func mapHandler() Handler {
	const id = string(PredefinedMap)
	return Handler{
		ID: id,
		Recognize: func(v any, _ string) bool {
			m, ok := v.(*Map)
			return ok && m != nil
		},
		ToPlain: func(v any) (any, error) {
			entries := v.(*Map).Entries()
			pairs := make([]any, len(entries))
			for i, kv := range entries {
				pairs[i] = []any{kv[0], kv[1]}
			}
			return pairs, nil
		},
		FromPlain: func(plain any) (any, error) {
			pairs, ok := plain.([]any)
			if !ok {
				return nil, &PlainError{ID: id, Reason: "expected array of pairs"}
			}
			m := NewMap()
			for _, p := range pairs {
				kv, ok := p.([]any)
				if !ok || len(kv) != 2 {
					return nil, &PlainError{ID: id, Reason: "expected [key, value] pair"}
				}
				m.Set(kv[0], kv[1])
			}
			return m, nil
		},
	}
}

func dateHandler() Handler {
	const id = string(PredefinedDate)
	return Handler{
		ID: id,
		Recognize: func(v any, _ string) bool {
			_, ok := v.(time.Time)
			return ok
		},
		ToPlain: func(v any) (any, error) {
			t := v.(time.Time).UTC()
			if y := t.Year(); y < 0 || y > 9999 {
				return nil, &PlainError{ID: id, Reason: fmt.Sprintf("year %d outside [0,9999]", y)}
			}
			return t.Format(dateLayout), nil
		},
		FromPlain: func(plain any) (any, error) {
			s, ok := plain.(string)
			if !ok {
				return nil, &PlainError{ID: id, Reason: "expected string"}
			}
			t, err := time.Parse(dateLayout, s)
			if err != nil {
				return nil, &PlainError{ID: id, Reason: "bad timestamp", Err: err}
			}
			return t, nil
		},
	}
}

func undefinedHandler() Handler {
	return Handler{
		ID:        string(PredefinedUndefined),
		Recognize: func(v any, _ string) bool { return walk.IsUndefined(v) },
		ToPlain:   func(any) (any, error) { return nil, nil },
		FromPlain: func(any) (any, error) { return Undefined{}, nil },
	}
}

package extjson

import (
	"github.com/unkn0wn-root/extjson/walk"
)

const (
	wrapperID    = "__id"
	wrapperValue = "__value"

	// a wrapper has exactly two members; the replacer lets both pass
	wrapperMembers = 2
)

// sentinel is the stand-in for a rebuilt absent value while the reviver works
// bottom-up. Returning Undefined from a reviver deletes the member, so the
// sentinel is returned instead and swapped back one level up, by assignment.
// Non-zero size so its address is unique.
type sentinel struct{ _ byte }

var absent = &sentinel{}

// Transforms is the Replacer/Reviver pair over an immutable registry.
// It is safe for concurrent use; every Replacer call gets its own state.
type Transforms struct {
	handlers []Handler
	byID     map[string]int
	strict   bool
	log      Logger
	hooks    Hooks
	walker   walk.Config
}

// IDs returns the registered handler ids in match order.
func (t Transforms) IDs() []string {
	ids := make([]string, len(t.handlers))
	for i, h := range t.handlers {
		ids[i] = h.ID
	}
	return ids
}

// Replacer returns a fresh encode transform for one walk.Stringify call.
// Do not share the result between concurrent or unrelated traversals.
func (t Transforms) Replacer() walk.Replacer { return t.replacer(t.walker) }

// replacer encodes each plain form with a nesting limit one below cfg's. The
// limit shrinks with every handler level, so a Set holding itself ends in
// walk.ErrMaxDepth.
func (t Transforms) replacer(cfg walk.Config) walk.Replacer {
	skip := 0
	return func(key string, v any) (any, error) {
		if skip > 0 {
			skip--
			return v, nil
		}
		for i := range t.handlers {
			h := &t.handlers[i]
			if !h.Recognize(v, key) {
				continue
			}
			skip = wrapperMembers
			plain, err := h.ToPlain(v)
			if err != nil {
				return nil, err
			}
			limit := cfg.Limit() - 1
			if limit < 1 {
				return nil, walk.ErrMaxDepth
			}
			nested := walk.Config{MaxDepth: limit}
			inner, ok, err := nested.Stringify(plain, t.replacer(nested))
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &PlainError{ID: h.ID, Reason: "plain form is undefined"}
			}
			t.hooks.WrapperEncoded(h.ID)
			return map[string]any{wrapperID: h.ID, wrapperValue: string(inner)}, nil
		}
		return v, nil
	}
}

// Reviver returns the decode transform for walk.Parse. It holds no state.
func (t Transforms) Reviver() walk.Reviver { return t.revive }

func (t Transforms) revive(_ string, v any) (any, error) {
	if w, ok := asWrapper(v); ok {
		if i, found := t.byID[w.id]; found {
			h := &t.handlers[i]
			plain, err := t.parse([]byte(w.value))
			if err != nil {
				return nil, err
			}
			out, err := h.FromPlain(plain)
			if err != nil {
				return nil, err
			}
			t.hooks.WrapperDecoded(h.ID)
			if walk.IsUndefined(out) {
				return absent, nil
			}
			return out, nil
		}
		t.hooks.UnknownID(w.id)
		if t.strict {
			t.log.Warn("extjson: rejected unknown wrapper id", Fields{"id": w.id})
			return nil, &UnknownIDError{ID: w.id}
		}
		t.log.Debug("extjson: unknown wrapper id passed through", Fields{"id": w.id})
	}
	restoreAbsent(v)
	return v, nil
}

// parse decodes one document with the reviver. A root sentinel has no parent
// to restore it, so it becomes Undefined here.
func (t Transforms) parse(data []byte) (any, error) {
	v, err := t.walker.Parse(data, t.revive)
	if err != nil {
		return nil, err
	}
	if v == any(absent) {
		return Undefined{}, nil
	}
	return v, nil
}

type wrapper struct {
	id, value string
}

// asWrapper is the single wire-shape predicate: exactly the two members
// __id and __value, both strings.
func asWrapper(v any) (wrapper, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != wrapperMembers {
		return wrapper{}, false
	}
	id, idOK := m[wrapperID].(string)
	val, valOK := m[wrapperValue].(string)
	if !idOK || !valOK {
		return wrapper{}, false
	}
	return wrapper{id: id, value: val}, true
}

// restoreAbsent turns sentinels in the direct slots of a container back into
// Undefined. Assignment keeps the slot, unlike returning Undefined.
func restoreAbsent(v any) {
	switch c := v.(type) {
	case map[string]any:
		for k, e := range c {
			if e == any(absent) {
				c[k] = Undefined{}
			}
		}
	case []any:
		for i, e := range c {
			if e == any(absent) {
				c[i] = Undefined{}
			}
		}
	}
}

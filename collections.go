package extjson

import (
	"iter"
	"math"
	"reflect"
)

// Set is an insertion-ordered set of arbitrary values.
// Comparable elements are deduplicated with ==, with NaN equal to itself.
// Maps, slices and other non-comparable elements are matched by reference,
// so two distinct maps with equal contents are two elements.
// The zero value is ready to use. Not safe for concurrent mutation.
type Set struct {
	e entries
}

// NewSet returns a set holding elems in order, duplicates dropped.
func NewSet(elems ...any) *Set {
	s := &Set{}
	for _, v := range elems {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was absent.
func (s *Set) Add(v any) bool { return s.e.put(v, nil, false) }

func (s *Set) Has(v any) bool { return s.e.find(v) >= 0 }

// Delete removes v and reports whether it was present.
func (s *Set) Delete(v any) bool { return s.e.remove(v) }

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.e.keys)
}

// Values returns a copy of the elements in insertion order.
func (s *Set) Values() []any {
	if s == nil {
		return []any{}
	}
	return append([]any{}, s.e.keys...)
}

// All iterates elements in insertion order.
func (s *Set) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range s.Values() {
			if !yield(v) {
				return
			}
		}
	}
}

// Map is an insertion-ordered map with arbitrary keys, using the same key
// equality as Set. The zero value is ready to use. Not safe for concurrent mutation.
type Map struct {
	e entries
}

// NewMap returns an empty map.
func NewMap() *Map { return &Map{} }

// Set stores v under k. Re-setting a key keeps its original position.
func (m *Map) Set(k, v any) { m.e.put(k, v, true) }

func (m *Map) Get(k any) (any, bool) {
	i := m.e.find(k)
	if i < 0 {
		return nil, false
	}
	return m.e.vals[i], true
}

func (m *Map) Has(k any) bool { return m.e.find(k) >= 0 }

// Delete removes k and reports whether it was present.
func (m *Map) Delete(k any) bool { return m.e.remove(k) }

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.e.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []any {
	if m == nil {
		return []any{}
	}
	return append([]any{}, m.e.keys...)
}

// Entries returns [key, value] pairs in insertion order.
func (m *Map) Entries() [][2]any {
	if m == nil {
		return [][2]any{}
	}
	out := make([][2]any, len(m.e.keys))
	for i := range m.e.keys {
		out[i] = [2]any{m.e.keys[i], m.e.vals[i]}
	}
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(k, v any) bool) {
	for _, kv := range m.Entries() {
		if !fn(kv[0], kv[1]) {
			return
		}
	}
}

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) { m.Range(yield) }
}

// entries backs both Set and Map: parallel key/value slices plus a position
// index for hashable keys.
type entries struct {
	keys  []any
	vals  []any
	index map[any]int
}

// nanKey stands in for any float NaN so NaN finds itself.
type nanKey struct{}

func hashKey(v any) (any, bool) {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) {
			return nanKey{}, true
		}
	case float32:
		if math.IsNaN(float64(f)) {
			return nanKey{}, true
		}
	}
	if v == nil {
		return nil, true
	}
	if !reflect.ValueOf(v).Comparable() {
		return nil, false
	}
	return v, true
}

// sameRef matches non-comparable values by identity.
func sameRef(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}
	return false
}

func (e *entries) find(k any) int {
	if hk, ok := hashKey(k); ok {
		if i, found := e.index[hk]; found {
			return i
		}
		return -1
	}
	for i, cur := range e.keys {
		if _, hashable := hashKey(cur); !hashable && sameRef(cur, k) {
			return i
		}
	}
	return -1
}

func (e *entries) put(k, v any, overwrite bool) bool {
	if i := e.find(k); i >= 0 {
		if overwrite {
			e.vals[i] = v
		}
		return false
	}
	if hk, ok := hashKey(k); ok {
		if e.index == nil {
			e.index = make(map[any]int)
		}
		e.index[hk] = len(e.keys)
	}
	e.keys = append(e.keys, k)
	e.vals = append(e.vals, v)
	return true
}

func (e *entries) remove(k any) bool {
	i := e.find(k)
	if i < 0 {
		return false
	}
	e.keys = append(e.keys[:i], e.keys[i+1:]...)
	e.vals = append(e.vals[:i], e.vals[i+1:]...)
	clear(e.index)
	for j, cur := range e.keys {
		if hk, ok := hashKey(cur); ok {
			e.index[hk] = j
		}
	}
	return true
}

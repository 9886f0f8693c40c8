package walk

import (
	"bytes"
	"reflect"
	"slices"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Stringify encodes v to JSON text, calling r (if non-nil) for every visited
// pair. ok is false when the root resolves to Undefined; no text is produced
// in that case.
func (c Config) Stringify(v any, r Replacer) (b []byte, ok bool, err error) {
	var buf bytes.Buffer
	s := &stringifier{
		enc:      jsontext.NewEncoder(&buf),
		replace:  r,
		maxDepth: c.maxDepth(),
	}
	root, err := s.resolve("", v)
	if err != nil {
		return nil, false, err
	}
	if IsUndefined(root) {
		return nil, false, nil
	}
	if err := s.write(root); err != nil {
		return nil, false, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), true, nil
}

type stringifier struct {
	enc      *jsontext.Encoder
	replace  Replacer
	depth    int
	maxDepth int
}

func (s *stringifier) resolve(key string, v any) (any, error) {
	if s.replace == nil {
		return v, nil
	}
	return s.replace(key, v)
}

func (s *stringifier) write(v any) error {
	switch t := v.(type) {
	case nil, Undefined:
		return s.enc.WriteToken(jsontext.Null)
	case string:
		return s.enc.WriteToken(jsontext.String(t))
	case bool:
		return s.enc.WriteToken(jsontext.Bool(t))
	case float64:
		if !finite(t) {
			return s.enc.WriteToken(jsontext.Null)
		}
		return s.enc.WriteToken(jsontext.Float(t))
	case float32:
		if !finite(float64(t)) {
			return s.enc.WriteToken(jsontext.Null)
		}
		return s.enc.WriteToken(jsontext.Float(float64(t)))
	case int:
		return s.enc.WriteToken(jsontext.Int(int64(t)))
	case int64:
		return s.enc.WriteToken(jsontext.Int(t))
	case int32:
		return s.enc.WriteToken(jsontext.Int(int64(t)))
	case uint64:
		return s.enc.WriteToken(jsontext.Uint(t))
	case uint32:
		return s.enc.WriteToken(jsontext.Uint(uint64(t)))
	case map[string]any:
		if t == nil {
			return s.enc.WriteToken(jsontext.Null)
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return s.object(keys, func(k string) any { return t[k] })
	case []any:
		if t == nil {
			return s.enc.WriteToken(jsontext.Null)
		}
		return s.array(len(t), func(i int) any { return t[i] })
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return s.enc.WriteToken(jsontext.Null)
		}
		byName := make(map[string]reflect.Value, rv.Len())
		keys := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			byName[k] = iter.Value()
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return s.object(keys, func(k string) any { return byName[k].Interface() })
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		if rv.IsNil() {
			return s.enc.WriteToken(jsontext.Null)
		}
		return s.array(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Array:
		return s.array(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	}

	// leaf: structs, pointers, named scalars, json.Marshaler implementations
	raw, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return err
	}
	return s.enc.WriteValue(jsontext.Value(raw))
}

func (s *stringifier) object(keys []string, get func(string) any) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	if err := s.enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, k := range keys {
		v, err := s.resolve(k, get(k))
		if err != nil {
			return err
		}
		if IsUndefined(v) {
			continue
		}
		if err := s.enc.WriteToken(jsontext.String(k)); err != nil {
			return err
		}
		if err := s.write(v); err != nil {
			return err
		}
	}
	return s.enc.WriteToken(jsontext.EndObject)
}

func (s *stringifier) array(n int, get func(int) any) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	if err := s.enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		v, err := s.resolve(index(i), get(i))
		if err != nil {
			return err
		}
		if err := s.write(v); err != nil {
			return err
		}
	}
	return s.enc.WriteToken(jsontext.EndArray)
}

func (s *stringifier) enter() error {
	s.depth++
	if s.depth > s.maxDepth {
		return ErrMaxDepth
	}
	return nil
}

func (s *stringifier) leave() { s.depth-- }

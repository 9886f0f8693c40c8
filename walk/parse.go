package walk

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

// Parse decodes data into a generic tree and, when r is non-nil, revives it
// bottom-up. An object member whose revived value is Undefined is deleted;
// array slots keep whatever the reviver returned.
func (c Config) Parse(data []byte, r Reviver) (any, error) {
	p := &parser{
		dec:      jsontext.NewDecoder(bytes.NewReader(data), jsontext.AllowDuplicateNames(true)),
		maxDepth: c.maxDepth(),
	}
	tok, err := p.dec.ReadToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := p.value(tok)
	if err != nil {
		return nil, err
	}
	if _, err := p.dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	if r == nil {
		return v, nil
	}
	return revive(r, "", v)
}

type parser struct {
	dec      *jsontext.Decoder
	depth    int
	maxDepth int
}

func (p *parser) value(tok jsontext.Token) (any, error) {
	switch tok.Kind() {
	case 'n':
		return nil, nil
	case 't', 'f':
		return tok.Bool(), nil
	case '"':
		return tok.String(), nil
	case '0':
		return tok.Float(), nil
	case '{':
		return p.object()
	case '[':
		return p.array()
	}
	return nil, fmt.Errorf("walk: unexpected %q token", rune(tok.Kind()))
}

func (p *parser) object() (map[string]any, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	m := make(map[string]any)
	for {
		tok, err := p.dec.ReadToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind() == '}' {
			return m, nil
		}
		name := tok.String()
		tok, err = p.dec.ReadToken()
		if err != nil {
			return nil, err
		}
		v, err := p.value(tok)
		if err != nil {
			return nil, err
		}
		m[name] = v
	}
}

func (p *parser) array() ([]any, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	a := make([]any, 0)
	for {
		tok, err := p.dec.ReadToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind() == ']' {
			return a, nil
		}
		v, err := p.value(tok)
		if err != nil {
			return nil, err
		}
		a = append(a, v)
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return ErrMaxDepth
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func revive(r Reviver, key string, v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			nv, err := revive(r, k, child)
			if err != nil {
				return nil, err
			}
			if IsUndefined(nv) {
				delete(t, k)
				continue
			}
			t[k] = nv
		}
	case []any:
		for i, child := range t {
			nv, err := revive(r, index(i), child)
			if err != nil {
				return nil, err
			}
			t[i] = nv
		}
	}
	return r(key, v)
}

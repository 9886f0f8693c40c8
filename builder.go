package extjson

import (
	"fmt"
	"slices"

	"github.com/unkn0wn-root/extjson/walk"
)

// Builder accumulates handlers. It is a value: Register and WithOptions
// return a new Builder and never modify the receiver, so a Builder can be
// shared and extended in different directions.
//
// Id uniqueness is checked by Build/BuildTransforms, not by Register; a
// registry with colliding ids can be described but never built.
type Builder struct {
	predefined []Predefined
	handlers   []Handler
	opts       Options
}

// New starts a builder with the selected built-in handlers. They are
// registered before any user handler, in the order set, map, date, undefined.
func New(predefined ...Predefined) Builder {
	return Builder{predefined: slices.Clone(predefined)}
}

// Register returns a builder holding b's handlers followed by h.
func (b Builder) Register(h Handler) Builder {
	next := b
	next.handlers = append(slices.Clip(b.handlers), h)
	return next
}

// WithOptions returns a builder that builds with opts.
func (b Builder) WithOptions(opts Options) Builder {
	next := b
	next.opts = opts
	return next
}

// Build validates the registry and returns the encode/decode facade.
func (b Builder) Build() (*Codec, error) {
	t, err := b.BuildTransforms()
	if err != nil {
		return nil, err
	}
	return &Codec{Transforms: t}, nil
}

// MustBuild is like Build but panics on error.
// Should not use for prod just handy for package-level variables in tests/examples.
func (b Builder) MustBuild() *Codec {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// BuildTransforms validates the registry and returns the bare transform pair.
func (b Builder) BuildTransforms() (Transforms, error) {
	handlers, err := b.registry()
	if err != nil {
		return Transforms{}, err
	}

	byID := make(map[string]int, len(handlers))
	for i, h := range handlers {
		if h.ID == "" {
			return Transforms{}, fmt.Errorf("%w (position %d)", ErrEmptyID, i)
		}
		if h.Recognize == nil || h.ToPlain == nil || h.FromPlain == nil {
			return Transforms{}, fmt.Errorf("%w: %q", ErrIncompleteHandler, h.ID)
		}
		if _, dup := byID[h.ID]; dup {
			return Transforms{}, &DuplicateIDError{ID: h.ID}
		}
		byID[h.ID] = i
	}

	t := Transforms{
		handlers: handlers,
		byID:     byID,
		strict:   b.opts.StrictIDs,
		log:      coalesce[Logger](b.opts.Logger, NopLogger{}),
		hooks:    coalesce[Hooks](b.opts.Hooks, NopHooks{}),
		walker:   walk.Config{MaxDepth: b.opts.MaxDepth},
	}
	t.log.Debug("extjson: registry built", Fields{"ids": t.IDs(), "strict": t.strict})
	return t, nil
}

// registry expands the predefined selection and appends user handlers.
func (b Builder) registry() ([]Handler, error) {
	selected := make(map[Predefined]bool, len(b.predefined))
	builtin := predefinedHandlers()
	for _, p := range b.predefined {
		if p == AllPredefined {
			for _, name := range predefinedOrder {
				selected[name] = true
			}
			continue
		}
		if _, ok := builtin[p]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPredefined, p)
		}
		selected[p] = true
	}

	out := make([]Handler, 0, len(selected)+len(b.handlers))
	for _, name := range predefinedOrder {
		if selected[name] {
			out = append(out, builtin[name])
		}
	}
	return append(out, b.handlers...), nil
}

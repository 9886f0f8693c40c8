// Package store keeps encoded values in a byte Provider (Ristretto, BigCache,
// Redis, ...). Pair it with codec.Extended to persist documents holding sets,
// maps with arbitrary keys, timestamps or registered custom types.
//
// Entries are framed with the codec's content type. On read, an entry that is
// corrupt, was written by a different codec, or fails to decode is deleted and
// reported as a miss (self-heal).
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/extjson"
	c "github.com/unkn0wn-root/extjson/codec"
	"github.com/unkn0wn-root/extjson/internal/util"
	"github.com/unkn0wn-root/extjson/internal/wire"
	pr "github.com/unkn0wn-root/extjson/provider"
)

const defaultTTL = 10 * time.Minute

type SetCostFunc func(key string, raw []byte) int64

// Store is a typed, namespaced view over a Provider.
type Store[V any] interface {
	Enabled() bool
	Close(context.Context) error

	Get(ctx context.Context, key string) (v V, ok bool, err error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// GetMany reads keys one by one; order-agnostic result plus misses in input order.
	GetMany(ctx context.Context, keys []string) (values map[string]V, missing []string, err error)
}

// Options tune a Store. Namespace, Provider and Codec are required.
type Options[V any] struct {
	Namespace string // logical namespace to avoid collisions. e.g. "session", "profile"
	Provider  pr.Provider
	Codec     c.Codec[V]

	Logger         extjson.Logger // if nil, NopLogger is used
	DefaultTTL     time.Duration  // 0 => 10m
	MaxDecode      int            // payload bytes; 0 => unlimited
	Disabled       bool           // default false (enabled)
	ComputeSetCost SetCostFunc    // default 1
}

type store[V any] struct {
	ns             string
	provider       pr.Provider
	codec          c.Codec[V]
	contentType    string
	log            extjson.Logger
	enabled        bool
	defaultTTL     time.Duration
	computeSetCost SetCostFunc
}

func New[V any](opts Options[V]) (Store[V], error) {
	return newStore(opts)
}

func newStore[V any](opts Options[V]) (*store[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("store: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("store: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("store: namespace is required")
	}

	s := &store[V]{
		ns:          opts.Namespace,
		provider:    opts.Provider,
		codec:       c.LimitCodec[V]{Inner: opts.Codec, MaxDecode: opts.MaxDecode},
		contentType: c.ContentTypeOf(opts.Codec),
		enabled:     !opts.Disabled,
	}

	// defaults
	s.log = coalesce[extjson.Logger](opts.Logger, extjson.NopLogger{})
	s.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, defaultTTL)
	if opts.ComputeSetCost != nil {
		s.computeSetCost = opts.ComputeSetCost
	} else {
		s.computeSetCost = func(string, []byte) int64 { return 1 }
	}
	return s, nil
}

func (s *store[V]) Enabled() bool { return s.enabled }

func (s *store[V]) Close(ctx context.Context) error {
	return s.provider.Close(ctx)
}

func (s *store[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if !s.enabled {
		return zero, false, nil
	}
	k := util.Key(s.ns, key)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	ct, payload, err := wire.Decode(raw)
	if err != nil {
		s.heal(ctx, k, "corrupt", err)
		return zero, false, nil
	}
	if ct != s.contentType {
		s.heal(ctx, k, "content_type", fmt.Errorf("stored %q, codec %q", ct, s.contentType))
		return zero, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		s.heal(ctx, k, "value_decode", err)
		return zero, false, nil
	}
	return v, true, nil
}

func (s *store[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	payload, err := s.codec.Encode(value)
	if err != nil {
		return err
	}
	entry, err := wire.Encode(s.contentType, payload)
	if err != nil {
		return err
	}
	k := util.Key(s.ns, key)
	ok, err := s.provider.Set(ctx, k, entry, s.computeSetCost(k, entry), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("store: set rejected by provider (pressure)", extjson.Fields{"key": key})
	}
	return nil
}

func (s *store[V]) Delete(ctx context.Context, key string) error {
	if !s.enabled {
		return nil
	}
	return s.provider.Del(ctx, util.Key(s.ns, key))
}

func (s *store[V]) GetMany(ctx context.Context, keys []string) (map[string]V, []string, error) {
	out := make(map[string]V, len(keys))
	var missing []string
	var errs []error
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return out, nil, err
		}
		v, ok, err := s.Get(ctx, k)
		if err != nil {
			errs = append(errs, fmt.Errorf("get %q: %w", k, err))
		}
		if !ok {
			missing = append(missing, k)
			continue
		}
		out[k] = v
	}
	return out, missing, errors.Join(errs...)
}

// heal deletes an unreadable entry so the next Set starts clean.
func (s *store[V]) heal(ctx context.Context, storageKey, reason string, cause error) {
	_ = s.provider.Del(ctx, storageKey)
	s.log.Warn("store: dropped unreadable entry", extjson.Fields{
		"key":    storageKey,
		"reason": reason,
		"err":    cause.Error(),
	})
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Package sloghooks reports codec wrapper traffic through log/slog.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/extjson"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	EncodedEvery uint64
	DecodedEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	encodedCtr atomic.Uint64
	decodedCtr atomic.Uint64
}

var _ extjson.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) WrapperEncoded(id string) {
	if h.l == nil || !sample(h.opts.EncodedEvery, &h.encodedCtr) {
		return
	}
	h.l.Debug("extjson.wrapper_encoded", "id", id)
}

func (h *Hooks) WrapperDecoded(id string) {
	if h.l == nil || !sample(h.opts.DecodedEvery, &h.decodedCtr) {
		return
	}
	h.l.Debug("extjson.wrapper_decoded", "id", id)
}

// UnknownID is never sampled: it usually means a writer runs a newer registry.
func (h *Hooks) UnknownID(id string) {
	if h.l == nil {
		return
	}
	h.l.Warn("extjson.unknown_id", "id", id)
}

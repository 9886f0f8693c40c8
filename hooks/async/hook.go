// Package asynchook moves hook work off the codec's traversal.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{EncodedEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	codec, _ := extjson.New(extjson.AllPredefined).
//	    WithOptions(extjson.Options{Hooks: hooks}).
//	    Build()
//
// Events are dropped when the queue is full; the codec never blocks on a hook.
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/extjson"
)

type Hooks struct {
	inner   extjson.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ extjson.Hooks = (*Hooks)(nil)

func New(inner extjson.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events sent after Close
// are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped counts events lost to a full queue or a closed hook.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) WrapperEncoded(id string) { h.try(func() { h.inner.WrapperEncoded(id) }) }
func (h *Hooks) WrapperDecoded(id string) { h.try(func() { h.inner.WrapperDecoded(id) }) }
func (h *Hooks) UnknownID(id string)      { h.try(func() { h.inner.UnknownID(id) }) }

package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/extjson"
	c "github.com/unkn0wn-root/extjson/codec"
	"github.com/unkn0wn-root/extjson/internal/util"
	"github.com/unkn0wn-root/extjson/internal/wire"
	pr "github.com/unkn0wn-root/extjson/provider"
)

type memEntry struct {
	v    []byte
	cost int64
	ttl  time.Duration
}

type memProvider struct {
	m      map[string]memEntry
	reject bool
	getErr error
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string]memEntry)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	if p.getErr != nil {
		return nil, false, p.getErr
	}
	e, ok := p.m[key]
	if !ok {
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	if p.reject {
		return false, nil
	}
	p.m[key] = memEntry{v: value, cost: cost, ttl: ttl}
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error { delete(p.m, key); return nil }
func (p *memProvider) Close(_ context.Context) error           { return nil }

type logLine struct {
	level string
	msg   string
	f     extjson.Fields
}

type recLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recLogger) add(level, msg string, f extjson.Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{level, msg, f})
}

func (l *recLogger) Debug(msg string, f extjson.Fields) { l.add("debug", msg, f) }
func (l *recLogger) Info(msg string, f extjson.Fields)  { l.add("info", msg, f) }
func (l *recLogger) Warn(msg string, f extjson.Fields)  { l.add("warn", msg, f) }
func (l *recLogger) Error(msg string, f extjson.Fields) { l.add("error", msg, f) }

func (l *recLogger) reasons() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, ln := range l.lines {
		if r, ok := ln.f["reason"].(string); ok {
			out = append(out, r)
		}
	}
	return out
}

var docs = c.NewExtended[any](extjson.New(extjson.AllPredefined).MustBuild())

func newTestStore(t *testing.T, mp pr.Provider, optsOpt func(*Options[any])) *store[any] {
	t.Helper()
	opts := Options[any]{
		Namespace: "doc",
		Provider:  mp,
		Codec:     docs,
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	s, err := newStore(opts)
	if err != nil {
		t.Fatalf("newStore: %v", err)
	}
	return s
}

func TestNewRequiresOptions(t *testing.T) {
	mp := newMemProvider()
	cases := []struct {
		name string
		opts Options[any]
		want string
	}{
		{"provider", Options[any]{Namespace: "n", Codec: docs}, "provider"},
		{"codec", Options[any]{Namespace: "n", Provider: mp}, "codec"},
		{"namespace", Options[any]{Provider: mp, Codec: docs}, "namespace"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opts)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSetGetExtendedDocument(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	s := newTestStore(t, mp, nil)

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tags := extjson.NewSet("a", "b")
	doc := map[string]any{"tags": tags, "at": when, "gone": extjson.Undefined{}}

	if err := s.Set(ctx, "k1", doc, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	e, ok := mp.m[util.Key("doc", "k1")]
	if !ok {
		t.Fatalf("entry not written under namespaced key; have %v", mp.m)
	}
	if e.ttl != defaultTTL || e.cost != 1 {
		t.Fatalf("defaults: ttl=%v cost=%d", e.ttl, e.cost)
	}
	ct, _, err := wire.Decode(e.v)
	if err != nil || ct != "application/vnd.extjson+json" {
		t.Fatalf("frame: ct=%q err=%v", ct, err)
	}

	got, ok, err := s.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	m, isMap := got.(map[string]any)
	if !isMap {
		t.Fatalf("root: %T", got)
	}
	if _, present := m["gone"]; present {
		t.Fatalf("undefined member must not persist")
	}
	set, isSet := m["tags"].(*extjson.Set)
	if !isSet || set.Len() != 2 || !set.Has("a") || !set.Has("b") {
		t.Fatalf("tags: %#v", m["tags"])
	}
	at, isTime := m["at"].(time.Time)
	if !isTime || !at.Equal(when) {
		t.Fatalf("at: %#v", m["at"])
	}
}

func TestRootUndefinedRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemProvider(), nil)
	if err := s.Set(ctx, "u", extjson.Undefined{}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get(ctx, "u")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !extjson.IsUndefined(got) {
		t.Fatalf("want Undefined, got %#v", got)
	}
}

func TestSelfHeal(t *testing.T) {
	ctx := context.Background()
	key := util.Key("doc", "k")

	foreign, err := wire.Encode("application/json", []byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	broken, err := wire.Encode("application/vnd.extjson+json", []byte(`{"x":`))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		raw    []byte
		reason string
	}{
		{"corrupt frame", []byte("not a frame"), "corrupt"},
		{"other codec", foreign, "content_type"},
		{"bad payload", broken, "value_decode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mp := newMemProvider()
			log := &recLogger{}
			s := newTestStore(t, mp, func(o *Options[any]) { o.Logger = log })
			mp.m[key] = memEntry{v: tc.raw}

			v, ok, err := s.Get(ctx, "k")
			if err != nil || ok || v != nil {
				t.Fatalf("want clean miss, got v=%v ok=%v err=%v", v, ok, err)
			}
			if _, still := mp.m[key]; still {
				t.Fatalf("entry must be deleted")
			}
			if r := log.reasons(); len(r) != 1 || r[0] != tc.reason {
				t.Fatalf("reasons: %v", r)
			}
		})
	}
}

func TestMaxDecodeHeals(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	s := newTestStore(t, mp, func(o *Options[any]) { o.MaxDecode = 8 })

	if err := s.Set(ctx, "big", strings.Repeat("x", 64), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := s.Get(ctx, "big"); ok || err != nil {
		t.Fatalf("oversized payload must read as a miss: ok=%v err=%v", ok, err)
	}
	if len(mp.m) != 0 {
		t.Fatalf("oversized entry must be dropped")
	}
}

func TestDisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	s := newTestStore(t, mp, func(o *Options[any]) { o.Disabled = true })
	if s.Enabled() {
		t.Fatalf("Enabled")
	}
	if err := s.Set(ctx, "k", 1.0, 0); err != nil {
		t.Fatal(err)
	}
	if len(mp.m) != 0 {
		t.Fatalf("disabled store wrote")
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("disabled store hit")
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}

func TestSetCostTTLAndRejection(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	log := &recLogger{}
	s := newTestStore(t, mp, func(o *Options[any]) {
		o.Logger = log
		o.ComputeSetCost = func(_ string, raw []byte) int64 { return int64(len(raw)) }
	})

	if err := s.Set(ctx, "k", "v", time.Hour); err != nil {
		t.Fatal(err)
	}
	e := mp.m[util.Key("doc", "k")]
	if e.ttl != time.Hour || e.cost != int64(len(e.v)) {
		t.Fatalf("ttl=%v cost=%d len=%d", e.ttl, e.cost, len(e.v))
	}

	mp.reject = true
	if err := s.Set(ctx, "k2", "v", 0); err != nil {
		t.Fatalf("rejection is not an error: %v", err)
	}
	if len(log.lines) == 0 || log.lines[len(log.lines)-1].level != "debug" {
		t.Fatalf("rejection must be logged at debug: %+v", log.lines)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemProvider(), nil)
	_ = s.Set(ctx, "k", 1.0, 0)
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("still present after Delete")
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("deleting a missing key: %v", err)
	}
}

func TestGetMany(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	s := newTestStore(t, mp, nil)
	_ = s.Set(ctx, "a", 1.0, 0)
	_ = s.Set(ctx, "c", extjson.NewMap(), 0)

	vals, missing, err := s.GetMany(ctx, []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 2 || vals["a"] != 1.0 {
		t.Fatalf("vals: %v", vals)
	}
	if _, ok := vals["c"].(*extjson.Map); !ok {
		t.Fatalf("c: %T", vals["c"])
	}
	if len(missing) != 2 || missing[0] != "b" || missing[1] != "d" {
		t.Fatalf("missing: %v", missing)
	}

	boom := errors.New("boom")
	mp.getErr = boom
	_, missing, err = s.GetMany(ctx, []string{"a"})
	if !errors.Is(err, boom) || len(missing) != 1 {
		t.Fatalf("provider errors must surface: err=%v missing=%v", err, missing)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := s.GetMany(cctx, []string{"a"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestTypedStore(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	sets, err := New(Options[*extjson.Set]{
		Namespace: "sets",
		Provider:  mp,
		Codec:     c.NewExtended[*extjson.Set](extjson.New(extjson.PredefinedSet).MustBuild()),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := sets.Set(ctx, "s", extjson.NewSet(1.0, 2.0), 0); err != nil {
		t.Fatal(err)
	}
	got, ok, err := sets.Get(ctx, "s")
	if err != nil || !ok || got.Len() != 2 {
		t.Fatalf("got=%v ok=%v err=%v", got, ok, err)
	}

	// A plain number under the same key fails the typed decode and heals.
	raw, _ := wire.Encode("application/vnd.extjson+json", []byte(`1`))
	mp.m[util.Key("sets", "s")] = memEntry{v: raw}
	if _, ok, err := sets.Get(ctx, "s"); ok || err != nil {
		t.Fatalf("want miss, got ok=%v err=%v", ok, err)
	}
}

package sloghooks

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestSampling(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{EncodedEvery: 3})

	for i := 0; i < 9; i++ {
		h.WrapperEncoded("set")
	}
	h.WrapperDecoded("map")
	h.WrapperDecoded("map")

	out := buf.String()
	if n := strings.Count(out, "extjson.wrapper_encoded"); n != 3 {
		t.Fatalf("encoded lines: %d\n%s", n, out)
	}
	if n := strings.Count(out, "extjson.wrapper_decoded"); n != 2 {
		t.Fatalf("decoded lines: %d\n%s", n, out)
	}
}

func TestUnknownIDWarns(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{})
	h.UnknownID("point")
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "id=point") {
		t.Fatalf("got %q", out)
	}
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	h.WrapperEncoded("x")
	h.WrapperDecoded("x")
	h.UnknownID("x")
}

// Package protohandler registers protobuf messages as extended values.
//
// The plain form is the message's canonical protojson document, so wrappers
// stay readable and survive field additions on either side:
//
//	{"__id":"user","__value":"{\"name\":\"ann\",\"createdAt\":\"2024-03-01T12:00:00Z\"}"}
package protohandler

import (
	"github.com/unkn0wn-root/extjson"
	"github.com/unkn0wn-root/extjson/walk"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var (
	marshal   = protojson.MarshalOptions{UseProtoNames: false, EmitUnpopulated: false}
	unmarshal = protojson.UnmarshalOptions{DiscardUnknown: true}
)

// New returns a Handler for messages of type T. ctor must return a fresh,
// non-nil message (e.g. func() *pb.User { return &pb.User{} }).
func New[T proto.Message](id string, ctor func() T) extjson.Handler {
	return extjson.Handler{
		ID: id,
		Recognize: func(v any, _ string) bool {
			m, ok := v.(T)
			return ok && m.ProtoReflect().IsValid()
		},
		ToPlain: func(v any) (any, error) {
			b, err := marshal.Marshal(v.(T))
			if err != nil {
				return nil, &extjson.PlainError{ID: id, Reason: "protojson marshal", Err: err}
			}
			return walk.Parse(b, nil)
		},
		FromPlain: func(plain any) (any, error) {
			b, ok, err := walk.Stringify(plain, nil)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &extjson.PlainError{ID: id, Reason: "plain form is undefined"}
			}
			m := ctor()
			if err := unmarshal.Unmarshal(b, m); err != nil {
				return nil, &extjson.PlainError{ID: id, Reason: "protojson unmarshal", Err: err}
			}
			return m, nil
		},
	}
}

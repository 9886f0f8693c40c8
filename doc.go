// Package extjson extends plain JSON so values it cannot represent natively
// (sets, ordered maps with arbitrary keys, timestamps, the absent value and any
// user-defined type) survive an encode/decode round trip.
//
// Components:
//   - Handler: recognizes a value, turns it into a JSON-representable plain
//     form and rebuilds it from that form.
//   - Builder: accumulates handlers immutably; Build validates ids.
//   - Transforms: the Replacer/Reviver pair plugged into walk.Stringify and
//     walk.Parse. Use it to embed extended values in other JSON pipelines.
//   - Codec: text/bytes facade over Transforms.
//
// Wire format:
//
//	{"__id":"<handler id>","__value":"<json text of the plain form>"}
//
// The plain form is encoded with the same transforms, so wrappers nest to any
// depth. This two-key, string-valued shape is reserved: ordinary data that
// happens to look exactly like it is read back as a wrapper.
//
// Usage:
//
//	c := extjson.New(extjson.AllPredefined).MustBuild()
//	s, _, _ := c.Stringify(extjson.NewSet(1.0, extjson.Undefined{}, "a"))
//	v, _ := c.Parse(s) // *extjson.Set{1, undefined, "a"}
package extjson

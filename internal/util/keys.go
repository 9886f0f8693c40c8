package util

import "strings"

// Prefix owns the provider keyspace written by the store package.
const Prefix = "xj"

// Key returns the provider key for key in namespace ns: xj:<ns>:<key>.
func Key(ns, key string) string {
	var b strings.Builder
	b.Grow(len(Prefix) + len(ns) + len(key) + 2)
	b.WriteString(Prefix)
	b.WriteByte(':')
	b.WriteString(ns)
	b.WriteByte(':')
	b.WriteString(key)
	return b.String()
}

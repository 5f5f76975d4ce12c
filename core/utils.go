package core

import "strings"

// CleanString normalizes user-provided input: surrounding whitespace is
// trimmed, and the result is optionally lowercased. Chain addresses are
// compared lowercased everywhere, so address-bearing fields pass `true`.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

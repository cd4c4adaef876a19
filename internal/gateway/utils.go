package gateway

import (
	"strings"
	"unicode/utf8"
)

// safeTruncateString returns s as valid UTF-8, cut to at most maxLen bytes
// on a rune boundary. Invalid bytes become U+FFFD first.
func safeTruncateString(s string, maxLen int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if len(s) <= maxLen {
		return s
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

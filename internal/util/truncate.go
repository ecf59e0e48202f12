package util

import (
	"fmt"
	"unicode/utf8"
)

// DefaultMaxLen bounds error text kept in activity logs and client errors.
const DefaultMaxLen = 1024

// Truncate shortens s to at most maxLen bytes without splitting a UTF-8 sequence and
// notes the original size.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + fmt.Sprintf("... [truncated, %d bytes total]", len(s))
}

package strings

import (
	"strings"
)

// DefaultValueMaxLen is the default width of a value column in table output.
const DefaultValueMaxLen = 60

// MinTruncateLen is the minimum maxLen value for Truncate.
// Values smaller than this would not leave room for content plus "...".
const MinTruncateLen = 4

// maskVisible is how many leading runes Mask keeps.
const maskVisible = 2

// Truncate shortens s to maxLen runes and flattens it to a single line.
// Runs of whitespace, including newlines, collapse to one space and a
// truncated result ends in "...". maxLen is clamped to MinTruncateLen.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// Mask hides a secret value for display, keeping its first two runes when
// the value is long enough that doing so leaks little.
func Mask(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}
	if len(runes) <= maskVisible*4 {
		return "********"
	}
	return string(runes[:maskVisible]) + "******"
}

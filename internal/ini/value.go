package ini

import (
	"strings"
	"unicode"
)

// NeedsQuoting reports whether v must be double-quoted to survive a round
// trip through an INI line.
func NeedsQuoting(v string) bool {
	return strings.IndexFunc(v, func(r rune) bool {
		return r == ',' || r == '"' || r == '\\' || unicode.IsSpace(r)
	}) >= 0
}

// Quote wraps v in double quotes, escaping backslashes, quotes and newlines.
func Quote(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// EncodeValue returns the on-disk form of a scalar value.
func EncodeValue(v string) string {
	if NeedsQuoting(v) {
		return Quote(v)
	}
	return v
}

// DecodeValue returns the logical value of the raw text after '='. Quoted
// text is unwrapped and unescaped; anything else is returned unchanged.
func DecodeValue(raw string) string {
	if !isQuoted(raw) {
		return raw
	}
	return unescape(raw[1 : len(raw)-1])
}

func isQuoted(raw string) bool {
	return len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' && !escapedTail(raw[1:len(raw)-1])
}

// escapedTail reports whether s ends in an odd run of backslashes, meaning
// the closing quote that follows it is itself escaped.
func escapedTail(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(unescapeRune(r))
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

func unescapeRune(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	default:
		return r
	}
}

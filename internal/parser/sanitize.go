package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// StripControlCharacters removes every control (Cc) and format (Cf) code
// point from s, keeping all other runes in order. Line breaks and tabs are
// control characters too; JSON only allows them as insignificant
// whitespace, so removing them never changes a valid document's meaning.
func StripControlCharacters(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		// Invalid bytes decode as RuneError and are copied through untouched.
		if !isControl(r) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func isControl(r rune) bool {
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
}

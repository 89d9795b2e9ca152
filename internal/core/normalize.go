package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize trims and collapses whitespace runs to single spaces. It is used
// for display and search only; stored text is never normalized.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// Preview returns a single-line rendering of s cut to at most max runes.
func Preview(s string, max int) string {
	s = Normalize(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

package match

import (
	"strings"
	"unicode"
)

// Normalize lowercases an identifier and drops separators and call
// parentheses, so "display_name", "DisplayName" and "displayName()" compare
// equal.
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Words splits an identifier on separators and camel-case boundaries:
// "userHTTPAddr" → ["user", "http", "addr"].
func Words(s string) []string {
	var (
		words []string
		cur   []rune
	)

	runes := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}

		cur = append(cur, r)
	}

	flush()

	return words
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', ' ', '.', '(', ')':
		return true
	default:
		return false
	}
}

package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownStr is the String() value of unrecognized enum members.
const UnknownStr = "unknown"

var titleCaser = cases.Title(language.Und, cases.NoLower)

// Camel joins the words of s into an exported Go identifier:
// "created_at" → "CreatedAt", "home-city" → "HomeCity", "ID" → "ID".
func Camel(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	for _, w := range words {
		b.WriteString(titleCaser.String(w))
	}

	return b.String()
}

// Snake lowers an identifier into snake case: "UserDAO" → "user_dao",
// "HTTPServer" → "http_server".
func Snake(s string) string {
	runes := []rune(s)

	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

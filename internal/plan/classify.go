package plan

import (
	"strings"
	"unicode"
)

// Classify returns the statement kind of query from its leading keyword.
// Leading whitespace, comments and opening parentheses are skipped.
func Classify(query string) StatementKind {
	switch strings.ToUpper(leadingKeyword(query)) {
	case "SELECT", "WITH", "VALUES", "PRAGMA", "EXPLAIN":
		return KindQuery
	case "UPDATE", "DELETE":
		return KindUpdateDelete
	case "INSERT", "REPLACE":
		return KindInsert
	default:
		return KindUnknown
	}
}

func leadingKeyword(s string) string {
	for {
		s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '(' })

		switch {
		case strings.HasPrefix(s, "--"):
			if i := strings.IndexByte(s, '\n'); i >= 0 {
				s = s[i+1:]
				continue
			}

			return ""
		case strings.HasPrefix(s, "/*"):
			if i := strings.Index(s, "*/"); i >= 0 {
				s = s[i+2:]
				continue
			}

			return ""
		}

		end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
		if end < 0 {
			return s
		}

		return s[:end]
	}
}

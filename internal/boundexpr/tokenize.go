package boundexpr

import (
	"strings"
)

// Tokenize splits a query into the text around its bound expressions.
// len(segments) is always len(exprs)+1; expression i sits between
// segments[i] and segments[i+1].
//
// Quoted literals, quoted identifiers, comments and "::" casts are copied
// verbatim.
func Tokenize(query string) (segments, exprs []string) {
	var text strings.Builder

	for i := 0; i < len(query); {
		c := query[i]

		switch {
		case c == '\'' || c == '"' || c == '`':
			end := skipQuoted(query, i, c)
			text.WriteString(query[i:end])
			i = end

		case c == '-' && strings.HasPrefix(query[i:], "--"):
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				end = len(query) - i
			}

			text.WriteString(query[i : i+end])
			i += end

		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				end = len(query)
			} else {
				end += i + 4
			}

			text.WriteString(query[i:end])
			i = end

		case c == ':' && strings.HasPrefix(query[i:], "::"):
			text.WriteString("::")
			i += 2

		case c == ':' && i+1 < len(query) && isIdentStart(query[i+1]):
			end := scanExpr(query, i+1)
			segments = append(segments, text.String())
			exprs = append(exprs, query[i+1:end])
			text.Reset()
			i = end

		default:
			text.WriteByte(c)
			i++
		}
	}

	return append(segments, text.String()), exprs
}

// skipQuoted returns the index after the literal starting at start. A
// doubled quote character escapes itself.
func skipQuoted(s string, start int, quote byte) int {
	for i := start + 1; i < len(s); i++ {
		if s[i] != quote {
			continue
		}

		if i+1 < len(s) && s[i+1] == quote {
			i++
			continue
		}

		return i + 1
	}

	return len(s)
}

// scanExpr returns the end of a dotted expression starting at start.
func scanExpr(s string, start int) int {
	i := start
	for i < len(s) {
		for i < len(s) && isIdentPart(s[i]) {
			i++
		}

		if strings.HasPrefix(s[i:], "()") {
			i += 2
		}

		if i+1 < len(s) && s[i] == '.' && isIdentStart(s[i+1]) {
			i++
			continue
		}

		return i
	}

	return i
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

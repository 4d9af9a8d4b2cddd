package dbrt

import (
	"strings"
)

// ExpandQuery joins the text segments of a query, writing counts[i]
// comma-separated placeholders between segments[i] and segments[i+1].
// A missing count writes a single placeholder.
func ExpandQuery(segments []string, counts ...int) string {
	var b strings.Builder

	for i, seg := range segments {
		b.WriteString(seg)

		if i == len(segments)-1 {
			break
		}

		n := 1
		if i < len(counts) {
			n = counts[i]
		}

		for j := range n {
			if j > 0 {
				b.WriteString(", ")
			}

			b.WriteByte('?')
		}
	}

	return b.String()
}

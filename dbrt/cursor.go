package dbrt

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var textTimeLayouts = []string{
	TextTimeLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Cursor is a materialized query result positioned before its first row.
type Cursor struct {
	columns []string
	rows    [][]any
	pos     int
	closed  bool
}

func newCursor(rows *sql.Rows) (*Cursor, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	c := &Cursor{columns: cols, pos: -1}
	for rows.Next() {
		row := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range row {
			ptrs[i] = &row[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		c.rows = append(c.rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return c, nil
}

// NewCursor builds a cursor over in-memory rows.
func NewCursor(columns []string, rows ...[]any) *Cursor {
	return &Cursor{columns: columns, rows: rows, pos: -1}
}

// Count is the number of rows.
func (c *Cursor) Count() int { return len(c.rows) }

// Position is the current row, -1 before the first row and Count() after
// the last.
func (c *Cursor) Position() int { return c.pos }

// MoveToPosition moves to row p, clamped to [-1, Count()], and reports
// whether the cursor now is on a row.
func (c *Cursor) MoveToPosition(p int) bool {
	c.pos = min(max(p, -1), len(c.rows))
	return c.onRow()
}

func (c *Cursor) MoveToNext() bool  { return c.MoveToPosition(c.pos + 1) }
func (c *Cursor) MoveToFirst() bool { return c.MoveToPosition(0) }
func (c *Cursor) MoveToLast() bool  { return c.MoveToPosition(len(c.rows) - 1) }

// Close releases the rows. Reads after Close see NULL.
func (c *Cursor) Close() {
	c.closed = true
	c.rows = nil
	c.pos = -1
}

// Closed reports whether Close was called.
func (c *Cursor) Closed() bool { return c.closed }

// Columns returns the column names.
func (c *Cursor) Columns() []string { return c.columns }

// ColumnIndex returns the index of the named column, or -1. An exact match
// wins over a case-insensitive one.
func (c *Cursor) ColumnIndex(name string) int {
	folded := -1

	for i, col := range c.columns {
		if col == name {
			return i
		}

		if folded < 0 && strings.EqualFold(col, name) {
			folded = i
		}
	}

	return folded
}

func (c *Cursor) onRow() bool {
	return c.pos >= 0 && c.pos < len(c.rows)
}

func (c *Cursor) value(i int) any {
	if !c.onRow() || i < 0 || i >= len(c.columns) {
		return nil
	}

	return c.rows[c.pos][i]
}

// IsNull reports whether column i of the current row is NULL.
func (c *Cursor) IsNull(i int) bool {
	return c.value(i) == nil
}

// Int64 reads column i as an integer. NULL and unparsable text read as 0.
func (c *Cursor) Int64(i int) int64 {
	switch v := c.value(i).(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}

		return 0
	case []byte:
		n, _ := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	case time.Time:
		return v.Unix()
	default:
		return 0
	}
}

// Float64 reads column i as a real number.
func (c *Cursor) Float64(i int) float64 {
	switch v := c.value(i).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

// String reads column i as text. NULL reads as "".
func (c *Cursor) String(i int) string {
	switch v := c.value(i).(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(TextTimeLayout)
	default:
		return fmt.Sprint(v)
	}
}

// Bytes reads column i as a blob. NULL reads as nil.
func (c *Cursor) Bytes(i int) []byte {
	switch v := c.value(i).(type) {
	case []byte:
		return append([]byte(nil), v...)
	case string:
		return []byte(v)
	case nil:
		return nil
	default:
		return []byte(c.String(i))
	}
}

// Bool reads column i as a boolean: non-zero numbers and "true" are true.
func (c *Cursor) Bool(i int) bool {
	switch v := c.value(i).(type) {
	case bool:
		return v
	case string, []byte:
		b, err := strconv.ParseBool(strings.TrimSpace(c.String(i)))
		if err != nil {
			return c.Int64(i) != 0
		}

		return b
	default:
		return c.Int64(i) != 0
	}
}

// TextTime reads column i as a time stored as text. NULL reads as the zero
// time; text in no known layout is an error.
func (c *Cursor) TextTime(i int) (time.Time, error) {
	switch v := c.value(i).(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	}

	text := strings.TrimSpace(c.String(i))
	for _, layout := range textTimeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("column %d: cannot parse %q as time", i, text)
}

// UnixTime reads column i as a time stored as unix seconds.
func (c *Cursor) UnixTime(i int) time.Time {
	if t, ok := c.value(i).(time.Time); ok {
		return t
	}

	if c.IsNull(i) {
		return time.Time{}
	}

	return time.Unix(c.Int64(i), 0).UTC()
}

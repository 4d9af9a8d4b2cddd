// Package schema is the read-only table/column model consumed by converters.
package schema

import (
	"strconv"
	"strings"

	"dao-generator/primitive"
)

// Column describes one column of a table.
type Column struct {
	Name    string
	Kind    primitive.DataKind
	NotNull bool
	// Default is the SQL literal of the column default, empty when none.
	Default string
}

// Table is an ordered set of columns.
type Table struct {
	Name    string
	Columns []Column
}

// Column looks a column up by name, ignoring case.
func (t *Table) Column(name string) (Column, bool) {
	if t == nil {
		return Column{}, false
	}

	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}

	return Column{}, false
}

// HasDefault reports whether a non-NULL default is declared.
func (c Column) HasDefault() bool {
	d := strings.TrimSpace(c.Default)
	return d != "" && !strings.EqualFold(d, "NULL")
}

// DefaultValue converts the SQL default literal into a Go constant for a
// value of the given scalar kind. ok is false when no default is declared or
// the literal does not fit the kind.
func (c Column) DefaultValue(kind primitive.KindEnum) (any, bool) {
	if !c.HasDefault() {
		return nil, false
	}

	lit := strings.TrimSpace(c.Default)
	if len(lit) >= 2 && lit[0] == '(' && lit[len(lit)-1] == ')' {
		lit = strings.TrimSpace(lit[1 : len(lit)-1])
	}

	switch {
	case kind == primitive.KindString:
		if len(lit) >= 2 && lit[0] == '\'' && lit[len(lit)-1] == '\'' {
			return strings.ReplaceAll(lit[1:len(lit)-1], "''", "'"), true
		}

		return nil, false

	case kind == primitive.KindBool:
		switch strings.ToLower(lit) {
		case "1", "true":
			return true, true
		case "0", "false":
			return false, true
		}

		return nil, false

	case kind.IsInteger():
		v, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return nil, false
		}

		return v, true

	case kind.IsFloat():
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, false
		}

		return v, true

	default:
		return nil, false
	}
}

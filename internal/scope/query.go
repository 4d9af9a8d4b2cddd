package scope

import (
	"errors"
	"fmt"

	"dao-generator/internal/ir"
)

var (
	// ErrAlreadySet is returned when a once-settable field is written twice.
	ErrAlreadySet = errors.New("already set")
	// ErrNotSet is returned when an unset field is read.
	ErrNotSet = errors.New("not set")
)

// once is a write-once string.
type once struct {
	value string
	set   bool
}

func (o *once) put(field, v string) error {
	if o.set {
		return fmt.Errorf("%s %q: %w (current %q)", field, v, ErrAlreadySet, o.value)
	}

	o.value, o.set = v, true

	return nil
}

func (o *once) get(field string) (string, error) {
	if !o.set {
		return "", fmt.Errorf("%s: %w", field, ErrNotSet)
	}

	return o.value, nil
}

// QueryContext names the handles a query execution works with.
type QueryContext struct {
	// DataSource is the database handle, e.g. d.db.
	DataSource ir.Expr
	// Context is the context.Context passed to blocking runtime calls.
	Context ir.Expr
	// Statement is the local holding the acquired statement.
	Statement string

	cursor once
	output once

	// Releasable marks a statement that must be released on every exit path.
	Releasable bool
	// NeedsReturn marks a method that returns a value.
	NeedsReturn bool
	// InTransaction marks a statement executed inside a transaction bracket.
	InTransaction bool
}

// SetCursor names the cursor local. It can be set once.
func (q *QueryContext) SetCursor(name string) error {
	return q.cursor.put("cursor", name)
}

// Cursor returns the cursor local name.
func (q *QueryContext) Cursor() (string, error) {
	return q.cursor.get("cursor")
}

// SetOutput names the local receiving the converted value. It can be set once.
func (q *QueryContext) SetOutput(name string) error {
	return q.output.put("output", name)
}

// Output returns the output local name.
func (q *QueryContext) Output() (string, error) {
	return q.output.get("output")
}

// Fork copies q. Non-empty cursor and output names replace the copied ones,
// empty names keep them.
func (q *QueryContext) Fork(cursor, output string) *QueryContext {
	child := *q

	if cursor != "" {
		child.cursor = once{value: cursor, set: true}
	}

	if output != "" {
		child.output = once{value: output, set: true}
	}

	return &child
}

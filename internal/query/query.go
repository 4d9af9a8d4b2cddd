// Package query assembles statement execution, transaction bracketing,
// cursor lifetime and result conversion into a method body.
//
// Every execution ends with the same closing sequence, innermost first:
// the transaction-successful marker and the return inside the transaction
// bracket, the translation of data-access failures into the runtime error
// kind, and the release of the statement in a cleanup block that runs on
// every exit path.
package query

import (
	"errors"

	"dao-generator/internal/analyze"
	"dao-generator/internal/convert"
	"dao-generator/internal/ir"
	"dao-generator/internal/scope"
)

// ErrNoConverter is returned when a query must return a value but has no
// result converter.
var ErrNoConverter = errors.New("query needs a result converter")

// ExecutionBinder emits the execution part of a method body. The statement
// named by the query context must already be acquired and bound.
type ExecutionBinder interface {
	Emit(s *scope.Scope, q *scope.QueryContext) error

	sealed()
}

// UpdateDelete executes a statement for its row count, or for the last
// inserted row id when Insert is set.
type UpdateDelete struct {
	Insert bool
	// Result is the integer type returned by the method, nil without result.
	Result *analyze.TypeInfo
}

// InstantQuery opens a cursor for the statement and converts it.
type InstantQuery struct {
	// Converter is nil when the method returns nothing.
	Converter convert.ResultConverter
}

// TransactionWrapper runs Inner inside a transaction bracket.
type TransactionWrapper struct {
	// Inner is the wrapped call, fallible.
	Inner ir.Call
	// Result is the value type of Inner, nil without result.
	Result *analyze.TypeInfo
}

func (b *UpdateDelete) Emit(s *scope.Scope, q *scope.QueryContext) error {
	exec := ir.ExecuteUpdateDelete
	if b.Insert {
		exec = ir.ExecuteInsert
	}

	call := ir.Try(ir.Id(q.Statement), exec, q.Context)
	body := s.Fork()

	var value ir.Expr
	if q.NeedsReturn {
		out := s.TmpVar("_result")
		if err := q.SetOutput(out); err != nil {
			return err
		}

		rows := analyze.Basic("int64")
		body.Emit(ir.Declare{Name: out, Type: rows, Value: call})

		value = ir.Id(out)
		if b.Result != nil && !b.Result.Equal(rows) {
			value = ir.Convert{Type: b.Result, X: value}
		}
	} else {
		body.Emit(ir.Do{Call: call})
	}

	s.Emit(closing(q, body.Body(), value)...)

	return nil
}

func (b *InstantQuery) Emit(s *scope.Scope, q *scope.QueryContext) error {
	cursor := s.TmpVar("_cursor")
	if err := q.SetCursor(cursor); err != nil {
		return err
	}

	body := s.Fork()
	inner := s.Fork()

	var value ir.Expr
	if q.NeedsReturn {
		if b.Converter == nil {
			return ErrNoConverter
		}

		out := s.TmpVar("_result")
		if err := q.SetOutput(out); err != nil {
			return err
		}

		body.Emit(ir.Declare{Name: out, Type: b.Converter.Type()})
		if err := b.Converter.Convert(inner, q); err != nil {
			return err
		}

		value = ir.Id(out)
	}

	body.Emit(ir.Scoped{
		Name:    cursor,
		Type:    ir.CursorType(),
		Acquire: ir.Try(q.DataSource, ir.Query, q.Context, ir.Id(q.Statement)),
		Body:    inner.Body(),
	})

	s.Emit(closing(q, body.Body(), value)...)

	return nil
}

func (b *TransactionWrapper) Emit(s *scope.Scope, q *scope.QueryContext) error {
	body := s.Fork()

	var value ir.Expr
	if q.NeedsReturn {
		tmp := s.TmpVar("_result")
		if err := q.SetOutput(tmp); err != nil {
			return err
		}

		s.Emit(ir.Declare{Name: tmp, Type: b.Result})
		body.Emit(ir.Assign{LHS: ir.Id(tmp), Value: b.Inner})
		value = ir.Id(tmp)
	} else {
		body.Emit(ir.Do{Call: b.Inner})
	}

	body.Emit(successful(q))

	stmts := []ir.Stmt{bracket(q, body.Body())}
	if q.NeedsReturn {
		stmts = append(stmts, ir.Return{Value: value})
	}

	s.Emit(ir.Translate{Body: stmts})

	return nil
}

func (*UpdateDelete) sealed()       {}
func (*InstantQuery) sealed()       {}
func (*TransactionWrapper) sealed() {}

// closing wraps body into the shared closing sequence.
func closing(q *scope.QueryContext, body []ir.Stmt, value ir.Expr) []ir.Stmt {
	stmts := body
	if q.InTransaction {
		stmts = append(stmts, successful(q))
	}

	if q.NeedsReturn {
		stmts = append(stmts, ir.Return{Value: value})
	}

	if q.InTransaction {
		stmts = []ir.Stmt{bracket(q, stmts)}
	}

	stmts = []ir.Stmt{ir.Translate{Body: stmts}}

	if q.Releasable {
		stmts = []ir.Stmt{ir.Guard{
			Body:    stmts,
			Cleanup: []ir.Stmt{ir.Do{Call: ir.Method(ir.Id(q.Statement), ir.Release)}},
		}}
	}

	return stmts
}

func successful(q *scope.QueryContext) ir.Stmt {
	return ir.Do{Call: ir.Method(q.DataSource, ir.SetTransactionSuccessful, q.Context)}
}

func bracket(q *scope.QueryContext, body []ir.Stmt) ir.Bracket {
	b := ir.Bracket{
		Begin: ir.Try(q.DataSource, ir.BeginTransaction, q.Context),
		Body:  body,
		End:   ir.Try(q.DataSource, ir.EndTransaction, q.Context),
	}

	if id, ok := q.Context.(ir.Ident); ok {
		b.Bind = id.Name
	}

	return b
}

package dbrt

import (
	"context"
	"time"
)

// TextTimeLayout is the layout time values are stored with in text columns.
const TextTimeLayout = time.RFC3339Nano

// Statement is a query with positionally bound values. Placeholder indices
// start at 1; unbound placeholders are NULL.
type Statement struct {
	db       *DB
	query    string
	args     []any
	released bool
}

// SQL returns the statement text.
func (s *Statement) SQL() string {
	return s.query
}

// Args returns the bound values in placeholder order.
func (s *Statement) Args() []any {
	return s.args
}

func (s *Statement) bind(index int, v any) {
	for len(s.args) < index {
		s.args = append(s.args, nil)
	}

	s.args[index-1] = v
}

func (s *Statement) BindInt64(index int, v int64)     { s.bind(index, v) }
func (s *Statement) BindFloat64(index int, v float64) { s.bind(index, v) }
func (s *Statement) BindString(index int, v string)   { s.bind(index, v) }
func (s *Statement) BindBool(index int, v bool)       { s.bind(index, v) }
func (s *Statement) BindNull(index int)               { s.bind(index, nil) }

// BindBytes binds a copy of v; nil binds NULL.
func (s *Statement) BindBytes(index int, v []byte) {
	if v == nil {
		s.bind(index, nil)
		return
	}

	s.bind(index, append([]byte(nil), v...))
}

// BindTextTime binds v as UTC text in TextTimeLayout.
func (s *Statement) BindTextTime(index int, v time.Time) {
	s.bind(index, v.UTC().Format(TextTimeLayout))
}

// BindUnixTime binds v as unix seconds.
func (s *Statement) BindUnixTime(index int, v time.Time) {
	s.bind(index, v.Unix())
}

// ExecuteUpdateDelete executes the statement and returns the number of
// affected rows.
func (s *Statement) ExecuteUpdateDelete(ctx context.Context) (int64, error) {
	if s.released {
		return 0, ErrReleased
	}

	res, err := s.db.target(ctx).ExecContext(ctx, s.query, s.args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// ExecuteInsert executes the statement and returns the id of the last
// inserted row.
func (s *Statement) ExecuteInsert(ctx context.Context) (int64, error) {
	if s.released {
		return 0, ErrReleased
	}

	res, err := s.db.target(ctx).ExecContext(ctx, s.query, s.args...)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// Release gives the statement back to its DB. Statements are never reused,
// so releasing twice is a no-op.
func (s *Statement) Release() {
	if s.released || s.db == nil {
		return
	}

	s.released = true
	s.args = nil
	s.db.inUse.Add(-1)
}

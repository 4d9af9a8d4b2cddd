package dbrt

import (
	"context"
	"database/sql"
	"sync/atomic"
)

// DB is the data source generated code runs against.
type DB struct {
	db    *sql.DB
	inUse atomic.Int64
}

// New wraps db.
func New(db *sql.DB) *DB {
	return &DB{db: db}
}

// SQL returns the wrapped handle.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Acquire returns a statement for query. It must be released exactly once.
func (d *DB) Acquire(query string) *Statement {
	d.inUse.Add(1)

	return &Statement{db: d, query: query}
}

// InUse is the number of acquired statements not yet released.
func (d *DB) InUse() int64 {
	return d.inUse.Load()
}

// Query executes stmt and materializes its rows into a Cursor.
func (d *DB) Query(ctx context.Context, stmt *Statement) (*Cursor, error) {
	if stmt.released {
		return nil, ErrReleased
	}

	rows, err := d.target(ctx).QueryContext(ctx, stmt.query, stmt.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return newCursor(rows)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// target is the transaction begun on ctx, or the database.
func (d *DB) target(ctx context.Context) execer {
	if f := d.frame(ctx); f != nil && !f.ended {
		return f.root.tx
	}

	return d.db
}

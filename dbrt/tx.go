package dbrt

import (
	"context"
	"database/sql"
)

type txKey struct {
	db *DB
}

// txRoot is one database transaction shared by nested brackets.
type txRoot struct {
	tx     *sql.Tx
	depth  int
	failed bool
}

// txFrame is one begin/end bracket.
type txFrame struct {
	root       *txRoot
	successful bool
	ended      bool
}

// BeginTransaction starts a transaction bracket and returns the context the
// bracket's work must run with. A bracket begun inside another one joins
// its transaction; the transaction commits when the outermost bracket ends
// and every bracket was marked successful, and rolls back otherwise.
func (d *DB) BeginTransaction(ctx context.Context) (context.Context, error) {
	if parent := d.frame(ctx); parent != nil && !parent.ended {
		parent.root.depth++
		return context.WithValue(ctx, txKey{d}, &txFrame{root: parent.root}), nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return ctx, err
	}

	return context.WithValue(ctx, txKey{d}, &txFrame{root: &txRoot{tx: tx, depth: 1}}), nil
}

// SetTransactionSuccessful marks the innermost bracket of ctx as successful.
func (d *DB) SetTransactionSuccessful(ctx context.Context) {
	if f := d.frame(ctx); f != nil {
		f.successful = true
	}
}

// EndTransaction closes the innermost bracket of ctx.
func (d *DB) EndTransaction(ctx context.Context) error {
	f := d.frame(ctx)
	if f == nil || f.ended {
		return ErrNoTransaction
	}

	f.ended = true
	if !f.successful {
		f.root.failed = true
	}

	f.root.depth--
	if f.root.depth > 0 {
		return nil
	}

	if f.root.failed {
		return f.root.tx.Rollback()
	}

	return f.root.tx.Commit()
}

// InTransaction reports whether ctx carries an open bracket.
func (d *DB) InTransaction(ctx context.Context) bool {
	f := d.frame(ctx)
	return f != nil && !f.ended
}

func (d *DB) frame(ctx context.Context) *txFrame {
	f, _ := ctx.Value(txKey{d}).(*txFrame)
	return f
}

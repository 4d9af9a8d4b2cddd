// Package dbrt is the runtime vocabulary generated data-access code is
// written against.
//
// It wraps a database/sql handle with the small, fixed set of operations the
// generator emits: acquire a statement, bind values at 1-based placeholder
// indices, execute it, open a Cursor over the result, move the cursor and
// read columns by index, and bracket work in (nested) transactions. Every
// data-access failure leaving a generated method is an *Error.
package dbrt

// Package convert turns cursor rows into host values.
//
// A RowConverter produces one value from the current row; a ResultConverter
// drives a RowConverter over the whole cursor. Converters emit code through a
// scope.Scope and never own cursor handles: the cursor and output locals are
// named by the scope.QueryContext passed to each phase.
package convert

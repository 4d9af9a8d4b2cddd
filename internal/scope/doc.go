// Package scope holds the mutable state threaded through code generation of
// one method: the Scope that allocates local names and accumulates emitted
// instructions, and the QueryContext naming the handles of a query.
package scope

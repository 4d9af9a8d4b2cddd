// Package gen renders planned data-access methods as Go source.
//
// Every DAO becomes one file holding the DAO struct, its constructor and
// its methods. Method bodies are rendered with jennifer from the
// instruction sequence built by the planner; the result is run through
// goimports formatting before it is written.
//
// Rendering patterns:
//   - Fallible calls become "if x, err = call; err != nil { return }"
//   - Cleanup constructs become deferred calls, innermost deferred last
//   - Failure translation replaces the named error result in a defer
//   - Transaction end errors are reported only when nothing failed before
package gen

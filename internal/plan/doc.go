// Package plan turns declared data-access methods into instruction
// sequences ready for rendering.
//
// Planning pipeline, per method:
//  1. Classify the statement by its leading keyword (or a delegate call)
//  2. Tokenize the query and resolve every bound expression against the
//     method parameters
//  3. Pick a parameter binder per placeholder and a result converter for the
//     return type
//  4. Drive the execution binder to emit the method body
//  5. Emit diagnostics (unresolved expressions, unbindable types, bad return
//     types, unused parameters)
package plan

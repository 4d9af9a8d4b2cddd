// Package match ranks identifier names by similarity. It backs the
// "did you mean" hints of generation diagnostics.
//
// Key functions:
//   - Normalize: folds an identifier into comparable lowercase form
//   - Distance: edit distance between two strings
//   - Rank / Suggest: orders candidate names by similarity to a name
package match

package scope

import (
	"strconv"

	"dao-generator/internal/ir"
)

// namer allocates unique names for one method body.
type namer struct {
	next map[string]int
	used map[string]bool
}

func (n *namer) alloc(prefix string) string {
	for {
		c := n.next[prefix]
		n.next[prefix] = c + 1

		name := prefix
		if c > 0 {
			name += strconv.Itoa(c)
		}

		if !n.used[name] {
			n.used[name] = true
			return name
		}
	}
}

// Scope is one lexical scope of generated code. Forked scopes share the
// name allocator of their root, so no two names allocated within one method
// body are equal.
type Scope struct {
	names *namer
	body  []ir.Stmt
}

// New returns the root scope of a method body.
func New() *Scope {
	return &Scope{names: &namer{
		next: make(map[string]int),
		used: make(map[string]bool),
	}}
}

// TmpVar allocates a fresh local name. The first name for a prefix is the
// prefix itself, later ones carry a numeric suffix starting at 1.
func (s *Scope) TmpVar(prefix string) string {
	return s.names.alloc(prefix)
}

// Reserve marks names such as parameters as taken.
func (s *Scope) Reserve(names ...string) {
	for _, name := range names {
		s.names.used[name] = true
	}
}

// Fork returns a child scope with an empty body that continues the numbering
// of s.
func (s *Scope) Fork() *Scope {
	return &Scope{names: s.names}
}

// Emit appends instructions to the scope body.
func (s *Scope) Emit(stmts ...ir.Stmt) {
	s.body = append(s.body, stmts...)
}

// Body returns the instructions emitted so far.
func (s *Scope) Body() []ir.Stmt {
	return s.body
}

// Package boundexpr finds the expressions a query binds and resolves their
// types against the method parameters.
//
// A bound expression is a parameter name optionally followed by a dotted
// chain of field accesses and zero-argument method calls, written in the
// query as ":user.Profile.DisplayName()".
package boundexpr

import (
	"fmt"
	"strings"

	"dao-generator/internal/analyze"
	"dao-generator/internal/ir"
	"dao-generator/internal/match"
)

// Param is a declared method parameter.
type Param struct {
	Name string
	Type *analyze.TypeInfo
}

// UnresolvedError reports the segment at which resolution stopped.
type UnresolvedError struct {
	Expr    string
	Segment string
	// Candidates are the names that were available at the failing segment.
	Candidates []string
}

func (e *UnresolvedError) Error() string {
	msg := fmt.Sprintf("cannot resolve %q at %q", e.Expr, e.Segment)
	if hint := match.Suggest(e.Segment, e.Candidates); hint != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", hint)
	}

	return msg
}

// Resolve resolves every expression. Unresolved expressions map to nil.
func Resolve(exprs []string, params []Param) map[string]*analyze.TypeInfo {
	res := make(map[string]*analyze.TypeInfo, len(exprs))

	for _, expr := range exprs {
		t, _, err := ResolveExpr(expr, params)
		if err != nil {
			res[expr] = nil
			continue
		}

		res[expr] = t
	}

	return res
}

// ResolveExpr resolves one expression to its type and to the instruction
// reading its value.
func ResolveExpr(expr string, params []Param) (*analyze.TypeInfo, ir.Expr, error) {
	segments := strings.Split(expr, ".")

	head := segments[0]
	var cur *analyze.TypeInfo

	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
		if p.Name == head {
			cur = p.Type
		}
	}

	if head == "" || cur == nil {
		return nil, nil, &UnresolvedError{Expr: expr, Segment: head, Candidates: names}
	}

	var access ir.Expr = ir.Id(head)

	for _, seg := range segments[1:] {
		if seg == "" {
			return nil, nil, &UnresolvedError{Expr: expr, Segment: seg}
		}

		if name, ok := strings.CutSuffix(seg, "()"); ok {
			m, found := method(cur, name)
			if !found || m.NumParams != 0 || m.Result == nil {
				return nil, nil, &UnresolvedError{Expr: expr, Segment: seg, Candidates: methodNames(cur)}
			}

			cur = m.Result
			access = ir.Method(access, name)

			if cur.Struct() == nil {
				// A scalar result ends the chain.
				return cur, access, nil
			}

			continue
		}

		st := cur.Struct()
		if st == nil {
			return nil, nil, &UnresolvedError{Expr: expr, Segment: seg}
		}

		f, found := st.Field(seg)
		if !found || !f.Exported {
			return nil, nil, &UnresolvedError{Expr: expr, Segment: seg, Candidates: fieldNames(st)}
		}

		cur = f.Type
		access = ir.Select{X: access, Field: seg}
	}

	return cur, access, nil
}

// method looks name up on t and, for pointers, on the pointed-to type.
func method(t *analyze.TypeInfo, name string) (*analyze.MethodInfo, bool) {
	if m, ok := t.Method(name); ok {
		return m, true
	}

	if t.Kind == analyze.TypeKindPointer && t.ElemType != nil {
		return t.ElemType.Method(name)
	}

	return nil, false
}

func methodNames(t *analyze.TypeInfo) []string {
	var names []string

	for _, m := range t.Methods {
		names = append(names, m.Name+"()")
	}

	if t.Kind == analyze.TypeKindPointer && t.ElemType != nil {
		for _, m := range t.ElemType.Methods {
			names = append(names, m.Name+"()")
		}
	}

	return names
}

func fieldNames(t *analyze.TypeInfo) []string {
	var names []string

	for _, f := range t.Fields {
		if f.Exported {
			names = append(names, f.Name)
		}
	}

	return names
}

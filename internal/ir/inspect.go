package ir

// Inspect visits every statement and expression of body in depth-first
// order. Returning false from fn skips the children of the visited node.
func Inspect(body []Stmt, fn func(node any) bool) {
	for _, s := range body {
		inspectStmt(s, fn)
	}
}

func inspectStmt(s Stmt, fn func(node any) bool) {
	if s == nil || !fn(s) {
		return
	}

	switch s := s.(type) {
	case Declare:
		inspectExpr(s.Value, fn)
	case Assign:
		inspectExpr(s.LHS, fn)
		inspectExpr(s.Value, fn)
	case Do:
		inspectExpr(s.Call, fn)
	case If:
		inspectExpr(s.Cond, fn)
		Inspect(s.Then, fn)
		Inspect(s.Else, fn)
	case While:
		inspectExpr(s.Cond, fn)
		Inspect(s.Body, fn)
	case Range:
		inspectExpr(s.X, fn)
		Inspect(s.Body, fn)
	case Return:
		inspectExpr(s.Value, fn)
	case Guard:
		Inspect(s.Body, fn)
		Inspect(s.Cleanup, fn)
	case Bracket:
		inspectExpr(s.Begin, fn)
		Inspect(s.Body, fn)
		inspectExpr(s.End, fn)
	case Scoped:
		inspectExpr(s.Acquire, fn)
		Inspect(s.Body, fn)
	case Translate:
		Inspect(s.Body, fn)
	}
}

func inspectExpr(e Expr, fn func(node any) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch e := e.(type) {
	case Select:
		inspectExpr(e.X, fn)
	case Index:
		inspectExpr(e.X, fn)
		inspectExpr(e.Index, fn)
	case Deref:
		inspectExpr(e.X, fn)
	case AddrOf:
		inspectExpr(e.X, fn)
	case Convert:
		inspectExpr(e.X, fn)
	case Len:
		inspectExpr(e.X, fn)
	case Binary:
		inspectExpr(e.X, fn)
		inspectExpr(e.Y, fn)
	case Call:
		inspectExpr(e.Recv, fn)
		for _, a := range e.Args {
			inspectExpr(a, fn)
		}
	case MakeSlice:
		inspectExpr(e.Len, fn)
	case Append:
		inspectExpr(e.Slice, fn)
		inspectExpr(e.Elem, fn)
	case SliceLit:
		for _, el := range e.Elems {
			inspectExpr(el, fn)
		}
	}
}

// Calls returns the names of every call in body, in visiting order.
func Calls(body []Stmt) []string {
	var names []string

	Inspect(body, func(node any) bool {
		if c, ok := node.(Call); ok {
			names = append(names, c.Name)
		}

		return true
	})

	return names
}

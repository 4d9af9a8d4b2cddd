package gen

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"

	"dao-generator/internal/analyze"
	"dao-generator/internal/ir"
)

var (
	// ErrUnsupportedType is returned for types that have no Go rendering.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrNestedCleanup is returned when a cleanup construct appears inside
	// a condition or loop. Cleanups are rendered as deferred calls and are
	// only valid at method level.
	ErrNestedCleanup = errors.New("cleanup construct inside control flow")
	// ErrFallibleExpr is returned when a fallible call is used as an operand.
	ErrFallibleExpr = errors.New("fallible call in expression position")
	// ErrMissingReturn is returned when a method with a result can fall off
	// the end of its body.
	ErrMissingReturn = errors.New("method with a result does not end in a return")
)

// valuedCalls are the runtime methods returning a value besides the error.
var valuedCalls = map[string]bool{
	ir.ExecuteUpdateDelete: true,
	ir.ExecuteInsert:       true,
	ir.Query:               true,
	ir.BeginTransaction:    true,
	ir.GetTextTime:         true,
}

// funcWriter renders one generated method.
type funcWriter struct {
	fn    *ir.Func
	types *typeFormatter
}

func (w *funcWriter) errID() *jen.Statement {
	return jen.Id(ir.ErrResult)
}

// render returns the method declaration. The error result is always
// named so deferred cleanups can replace it.
func (w *funcWriter) render() (jen.Code, error) {
	fn := w.fn

	params := make([]jen.Code, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, jen.Id(p.Name).Add(w.types.typ(p.Type)))
	}

	results := []jen.Code{w.errID().Error()}
	if fn.HasResult() {
		results = append([]jen.Code{jen.Id("_").Add(w.types.typ(fn.Result))}, results...)
	}

	body, terminated, err := w.block(fn.Body, true)
	if err != nil {
		return nil, fmt.Errorf("method %s: %w", fn.Name, err)
	}

	if !terminated {
		if fn.HasResult() {
			return nil, fmt.Errorf("method %s: %w", fn.Name, ErrMissingReturn)
		}

		body = append(body, jen.Return(jen.Nil()))
	}

	if w.types.err != nil {
		return nil, fmt.Errorf("method %s: %w", fn.Name, w.types.err)
	}

	return jen.Func().
		Params(jen.Id(fn.Receiver.Name).Add(w.types.typ(fn.Receiver.Type))).
		Id(fn.Name).
		Params(params...).
		Params(results...).
		Block(body...), nil
}

// block renders a statement list. Cleanup constructs are allowed only when
// top is set; their bodies are flattened into the enclosing list after the
// deferred cleanup. terminated reports whether the list ends in a return.
func (w *funcWriter) block(list []ir.Stmt, top bool) (codes []jen.Code, terminated bool, err error) {
	for _, s := range list {
		out, term, err := w.stmt(s, top)
		if err != nil {
			return nil, false, err
		}

		codes = append(codes, out...)
		terminated = term
	}

	return codes, terminated, nil
}

func (w *funcWriter) stmt(s ir.Stmt, top bool) ([]jen.Code, bool, error) {
	switch s := s.(type) {
	case ir.Declare:
		codes, err := w.declare(s)
		return codes, false, err

	case ir.Assign:
		lhs, err := w.expr(s.LHS)
		if err != nil {
			return nil, false, err
		}

		if call, ok := s.Value.(ir.Call); ok && call.Fallible {
			code, err := w.try(call, lhs)
			return []jen.Code{code}, false, err
		}

		v, err := w.expr(s.Value)
		if err != nil {
			return nil, false, err
		}

		return []jen.Code{lhs.Op("=").Add(v)}, false, nil

	case ir.Inc:
		return []jen.Code{jen.Id(s.Name).Op("++")}, false, nil

	case ir.Do:
		if s.Call.Fallible {
			var lhs []jen.Code
			if w.valued(s.Call) {
				lhs = append(lhs, jen.Id("_"))
			}

			code, err := w.try(s.Call, lhs...)
			return []jen.Code{code}, false, err
		}

		call, err := w.call(s.Call)
		return []jen.Code{call}, false, err

	case ir.If:
		code, err := w.ifStmt(s)
		return []jen.Code{code}, false, err

	case ir.While:
		cond, err := w.expr(s.Cond)
		if err != nil {
			return nil, false, err
		}

		body, _, err := w.block(s.Body, false)
		if err != nil {
			return nil, false, err
		}

		return []jen.Code{jen.For(cond).Block(body...)}, false, nil

	case ir.Range:
		x, err := w.expr(s.X)
		if err != nil {
			return nil, false, err
		}

		body, _, err := w.block(s.Body, false)
		if err != nil {
			return nil, false, err
		}

		head := jen.List(jen.Id("_"), jen.Id(s.Value)).Op(":=").Range().Add(x)

		return []jen.Code{jen.For(head).Block(body...)}, false, nil

	case ir.Return:
		if s.Value == nil {
			return []jen.Code{jen.Return(jen.Nil())}, true, nil
		}

		v, err := w.expr(s.Value)
		if err != nil {
			return nil, false, err
		}

		return []jen.Code{jen.Return(v, jen.Nil())}, true, nil

	case ir.Guard, ir.Bracket, ir.Scoped, ir.Translate:
		if !top {
			return nil, false, fmt.Errorf("%w: %T", ErrNestedCleanup, s)
		}

		return w.cleanup(s)

	default:
		return nil, false, fmt.Errorf("unknown statement %T", s)
	}
}

func (w *funcWriter) ifStmt(s ir.If) (jen.Code, error) {
	cond, err := w.expr(s.Cond)
	if err != nil {
		return nil, err
	}

	then, _, err := w.block(s.Then, false)
	if err != nil {
		return nil, err
	}

	code := jen.If(cond).Block(then...)
	if len(s.Else) == 0 {
		return code, nil
	}

	els, _, err := w.block(s.Else, false)
	if err != nil {
		return nil, err
	}

	return code.Else().Block(els...), nil
}

// cleanup renders a cleanup construct as a deferred call followed by its
// flattened body. Deferred calls run in reverse order, so the innermost
// cleanup still runs first.
func (w *funcWriter) cleanup(s ir.Stmt) ([]jen.Code, bool, error) {
	var (
		codes []jen.Code
		body  []ir.Stmt
	)

	switch s := s.(type) {
	case ir.Translate:
		codes = append(codes, jen.Defer().Func().Params().Block(
			w.errID().Op("=").Qual(ir.RuntimePkg, ir.TranslateFn).Call(w.errID()),
		).Call())
		body = s.Body

	case ir.Guard:
		deferred, err := w.deferred(s.Cleanup)
		if err != nil {
			return nil, false, err
		}

		codes = append(codes, deferred)
		body = s.Body

	case ir.Bracket:
		var bind jen.Code = jen.Id("_")
		if s.Bind != "" {
			bind = jen.Id(s.Bind)
		}

		begin, err := w.try(s.Begin, bind)
		if err != nil {
			return nil, false, err
		}

		end, err := w.call(s.End)
		if err != nil {
			return nil, false, err
		}

		codes = append(codes, begin, jen.Defer().Func().Params().Block(
			jen.If(
				jen.Id("endErr").Op(":=").Add(end),
				jen.Id("endErr").Op("!=").Nil().Op("&&").Add(w.errID()).Op("==").Nil(),
			).Block(
				w.errID().Op("=").Id("endErr"),
			),
		).Call())
		body = s.Body

	case ir.Scoped:
		acquire, err := w.try(s.Acquire, jen.Id(s.Name))
		if err != nil {
			return nil, false, err
		}

		codes = append(codes,
			jen.Var().Id(s.Name).Add(w.types.typ(s.Type)),
			acquire,
			jen.Defer().Id(s.Name).Dot(ir.Close).Call(),
		)
		body = s.Body
	}

	inner, terminated, err := w.block(body, true)
	if err != nil {
		return nil, false, err
	}

	return append(codes, inner...), terminated, nil
}

// deferred renders guard cleanup statements. A single call is deferred
// directly, anything else through a closure.
func (w *funcWriter) deferred(list []ir.Stmt) (jen.Code, error) {
	if len(list) == 1 {
		if do, ok := list[0].(ir.Do); ok && !do.Call.Fallible {
			call, err := w.call(do.Call)
			if err != nil {
				return nil, err
			}

			return jen.Defer().Add(call), nil
		}
	}

	body, _, err := w.block(list, false)
	if err != nil {
		return nil, err
	}

	return jen.Defer().Func().Params().Block(body...).Call(), nil
}

// try renders a fallible call storing its results into lhs and leaving the
// method when it fails.
func (w *funcWriter) try(c ir.Call, lhs ...jen.Code) (jen.Code, error) {
	call, err := w.call(c)
	if err != nil {
		return nil, err
	}

	assign := jen.List(append(lhs, w.errID())...).Op("=").Add(call)

	return jen.If(assign, w.errID().Op("!=").Nil()).Block(jen.Return()), nil
}

// valued reports whether a fallible call returns a value besides the
// error. Calls on the receiver are delegates, which return a value only
// when assigned.
func (w *funcWriter) valued(c ir.Call) bool {
	if id, ok := c.Recv.(ir.Ident); ok && id.Name == w.fn.Receiver.Name {
		return false
	}

	return c.Pkg == "" && valuedCalls[c.Name]
}

func (w *funcWriter) declare(s ir.Declare) ([]jen.Code, error) {
	if s.Value == nil {
		return []jen.Code{jen.Var().Id(s.Name).Add(w.types.typ(s.Type))}, nil
	}

	if call, ok := s.Value.(ir.Call); ok && call.Fallible {
		if s.Type == nil {
			return nil, fmt.Errorf("declaration of %s: %w", s.Name, ErrFallibleExpr)
		}

		try, err := w.try(call, jen.Id(s.Name))
		if err != nil {
			return nil, err
		}

		return []jen.Code{jen.Var().Id(s.Name).Add(w.types.typ(s.Type)), try}, nil
	}

	v, err := w.expr(s.Value)
	if err != nil {
		return nil, err
	}

	if s.Type == nil || selfTyped(s.Type, s.Value) {
		return []jen.Code{jen.Id(s.Name).Op(":=").Add(v)}, nil
	}

	return []jen.Code{jen.Var().Id(s.Name).Add(w.types.typ(s.Type)).Op("=").Add(v)}, nil
}

// selfTyped reports whether v already has type t, so a short variable
// declaration keeps the declared type.
func selfTyped(t *analyze.TypeInfo, v ir.Expr) bool {
	switch v := v.(type) {
	case ir.Lit:
		switch v.Value.(type) {
		case int, int64:
			return t.Kind == analyze.TypeKindBasic && t.ID.Name == "int"
		case string:
			return t.Kind == analyze.TypeKindBasic && t.ID.Name == "string"
		case bool:
			return t.Kind == analyze.TypeKindBasic && t.ID.Name == "bool"
		case float64:
			return t.Kind == analyze.TypeKindBasic && t.ID.Name == "float64"
		}

		return false
	case ir.Len:
		return t.Kind == analyze.TypeKindBasic && t.ID.Name == "int"
	case ir.Convert:
		return t.Equal(v.Type)
	case ir.Composite:
		return t.Equal(v.Type)
	case ir.MakeSlice:
		return t.Equal(v.Type)
	case ir.Call, ir.SliceLit:
		return true
	default:
		return false
	}
}

func (w *funcWriter) call(c ir.Call) (*jen.Statement, error) {
	args, err := w.exprs(c.Args)
	if err != nil {
		return nil, err
	}

	if c.Recv == nil {
		return jen.Qual(c.Pkg, c.Name).Call(args...), nil
	}

	recv, err := w.expr(c.Recv)
	if err != nil {
		return nil, err
	}

	return recv.Dot(c.Name).Call(args...), nil
}

func (w *funcWriter) exprs(list []ir.Expr) ([]jen.Code, error) {
	codes := make([]jen.Code, 0, len(list))

	for _, e := range list {
		c, err := w.expr(e)
		if err != nil {
			return nil, err
		}

		codes = append(codes, c)
	}

	return codes, nil
}

func (w *funcWriter) expr(e ir.Expr) (*jen.Statement, error) {
	switch e := e.(type) {
	case ir.Ident:
		return jen.Id(e.Name), nil

	case ir.Lit:
		return lit(e.Value)

	case ir.Nil:
		return jen.Nil(), nil

	case ir.Zero:
		return w.types.zero(e.Type), nil

	case ir.Select:
		x, err := w.expr(e.X)
		if err != nil {
			return nil, err
		}

		return x.Dot(e.Field), nil

	case ir.Index:
		x, err := w.expr(e.X)
		if err != nil {
			return nil, err
		}

		i, err := w.expr(e.Index)
		if err != nil {
			return nil, err
		}

		return x.Index(i), nil

	case ir.Deref:
		x, err := w.expr(e.X)
		if err != nil {
			return nil, err
		}

		return jen.Op("*").Add(x), nil

	case ir.AddrOf:
		x, err := w.expr(e.X)
		if err != nil {
			return nil, err
		}

		return jen.Op("&").Add(x), nil

	case ir.Convert:
		x, err := w.expr(e.X)
		if err != nil {
			return nil, err
		}

		return w.types.conversion(e.Type).Call(x), nil

	case ir.Len:
		x, err := w.expr(e.X)
		if err != nil {
			return nil, err
		}

		return jen.Len(x), nil

	case ir.Binary:
		x, err := w.operand(e.X)
		if err != nil {
			return nil, err
		}

		y, err := w.operand(e.Y)
		if err != nil {
			return nil, err
		}

		return x.Op(e.Op).Add(y), nil

	case ir.Call:
		if e.Fallible {
			return nil, fmt.Errorf("%w: %s", ErrFallibleExpr, e.Name)
		}

		return w.call(e)

	case ir.Composite:
		return w.types.typ(e.Type).Values(), nil

	case ir.MakeSlice:
		n, err := w.expr(e.Len)
		if err != nil {
			return nil, err
		}

		return jen.Make(w.types.typ(e.Type), n), nil

	case ir.Append:
		s, err := w.expr(e.Slice)
		if err != nil {
			return nil, err
		}

		v, err := w.expr(e.Elem)
		if err != nil {
			return nil, err
		}

		return jen.Append(s, v), nil

	case ir.SliceLit:
		elems, err := w.exprs(e.Elems)
		if err != nil {
			return nil, err
		}

		return jen.Index().Add(w.types.typ(e.Elem)).Values(elems...), nil

	default:
		return nil, fmt.Errorf("unknown expression %T", e)
	}
}

// operand parenthesizes nested binary expressions.
func (w *funcWriter) operand(e ir.Expr) (*jen.Statement, error) {
	x, err := w.expr(e)
	if err != nil {
		return nil, err
	}

	if _, ok := e.(ir.Binary); ok {
		return jen.Parens(x), nil
	}

	return x, nil
}

// lit renders constants untyped so they adapt to the member they are
// assigned to.
func lit(v any) (*jen.Statement, error) {
	switch v := v.(type) {
	case int:
		return jen.Lit(v), nil
	case int64:
		return jen.Op(strconv.FormatInt(v, 10)), nil
	case float64:
		return jen.Op(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case string, bool:
		return jen.Lit(v), nil
	case []byte:
		return jen.Index().Byte().Parens(jen.Lit(string(v))), nil
	default:
		return nil, fmt.Errorf("unsupported literal %T", v)
	}
}

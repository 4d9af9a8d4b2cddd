package irtest

import (
	"fmt"
	"reflect"

	"dao-generator/internal/ir"
)

type flow int

const (
	flowNext flow = iota
	flowReturn
	flowFail
)

var errorType = reflect.TypeFor[error]()

type frame struct {
	env    *Env
	vars   map[string]reflect.Value
	result reflect.Value
	err    error
}

// Call runs fn with recv as receiver and returns its result and error the
// way the rendered Go method would.
func (e *Env) Call(fn *ir.Func, recv any, args ...any) (any, error) {
	if len(args) != len(fn.Params) {
		panic(fmt.Sprintf("irtest: %s takes %d arguments, got %d", fn.Name, len(fn.Params), len(args)))
	}

	f := &frame{env: e, vars: make(map[string]reflect.Value)}
	f.declare(fn.Receiver.Name, reflect.TypeOf(recv), reflect.ValueOf(recv))

	for i, p := range fn.Params {
		f.declare(p.Name, e.TypeOf(p.Type), reflect.ValueOf(args[i]))
	}

	f.exec(fn.Body)

	if !fn.HasResult() {
		return nil, f.err
	}

	// A failing body leaves the result unset, as a bare return would.
	if !f.result.IsValid() {
		return reflect.Zero(e.TypeOf(fn.Result)).Interface(), f.err
	}

	out := reflect.New(e.TypeOf(fn.Result)).Elem()
	assign(out, f.result)

	return out.Interface(), f.err
}

func (f *frame) declare(name string, t reflect.Type, v reflect.Value) reflect.Value {
	slot := reflect.New(t).Elem()
	assign(slot, v)

	f.vars[name] = slot

	return slot
}

func (f *frame) exec(body []ir.Stmt) flow {
	for _, s := range body {
		if fl := f.step(s); fl != flowNext {
			return fl
		}
	}

	return flowNext
}

//nolint:gocyclo // one case per instruction
func (f *frame) step(s ir.Stmt) flow {
	switch s := s.(type) {
	case ir.Declare:
		var v reflect.Value
		if s.Value != nil {
			var ok bool
			if v, ok = f.value(s.Value); !ok {
				return flowFail
			}
		}

		var t reflect.Type
		if s.Type != nil {
			t = f.env.TypeOf(s.Type)
		} else {
			t = v.Type()
		}

		f.declare(s.Name, t, v)

	case ir.Assign:
		v, ok := f.value(s.Value)
		if !ok {
			return flowFail
		}

		assign(f.lvalue(s.LHS), v)

	case ir.Inc:
		v := f.vars[s.Name]
		v.SetInt(v.Int() + 1)

	case ir.Do:
		if _, ok := f.call(s.Call); !ok {
			return flowFail
		}

	case ir.If:
		if f.eval(s.Cond).Bool() {
			return f.exec(s.Then)
		}

		return f.exec(s.Else)

	case ir.While:
		for f.eval(s.Cond).Bool() {
			if fl := f.exec(s.Body); fl != flowNext {
				return fl
			}
		}

	case ir.Range:
		x := f.eval(s.X)
		for i := range x.Len() {
			f.declare(s.Value, x.Type().Elem(), x.Index(i))
			if fl := f.exec(s.Body); fl != flowNext {
				return fl
			}
		}

	case ir.Return:
		if s.Value != nil {
			v, ok := f.value(s.Value)
			if !ok {
				return flowFail
			}

			f.result = v
		}

		return flowReturn

	case ir.Guard:
		fl := f.exec(s.Body)
		f.exec(s.Cleanup)

		return fl

	case ir.Bracket:
		results, ok := f.call(s.Begin)
		if !ok {
			return flowFail
		}

		if s.Bind != "" {
			assign(f.vars[s.Bind], results[0])
		}

		fl := f.exec(s.Body)

		if _, ok := f.call(s.End); !ok && fl != flowFail {
			fl = flowFail
		}

		return fl

	case ir.Scoped:
		results, ok := f.call(s.Acquire)
		if !ok {
			return flowFail
		}

		res := f.declare(s.Name, f.env.TypeOf(s.Type), results[0])
		fl := f.exec(s.Body)
		res.MethodByName(ir.Close).Call(nil)

		return fl

	case ir.Translate:
		fl := f.exec(s.Body)

		if f.err != nil {
			translate := reflect.ValueOf(f.env.Funcs[ir.RuntimePkg+"."+ir.TranslateFn])
			out := translate.Call([]reflect.Value{reflect.ValueOf(&f.err).Elem()})
			f.err, _ = out[0].Interface().(error)
		}

		return fl

	default:
		panic(fmt.Sprintf("irtest: unsupported statement %T", s))
	}

	return flowNext
}

// value evaluates e; a failing fallible call records the error and reports
// false.
func (f *frame) value(e ir.Expr) (reflect.Value, bool) {
	if c, ok := e.(ir.Call); ok {
		results, ok := f.call(c)
		if !ok {
			return reflect.Value{}, false
		}

		if len(results) == 0 {
			return reflect.Value{}, true
		}

		return results[0], true
	}

	return f.eval(e), true
}

func (f *frame) call(c ir.Call) ([]reflect.Value, bool) {
	fn := f.callee(c)

	ft := fn.Type()
	args := make([]reflect.Value, len(c.Args))

	for i, a := range c.Args {
		var pt reflect.Type
		switch {
		case ft.IsVariadic() && i >= ft.NumIn()-1:
			pt = ft.In(ft.NumIn() - 1).Elem()
		default:
			pt = ft.In(i)
		}

		v := reflect.New(pt).Elem()
		assign(v, f.eval(a))
		args[i] = v
	}

	out := fn.Call(args)
	if !c.Fallible {
		return out, true
	}

	last := out[len(out)-1]
	if !last.IsNil() {
		if f.err == nil {
			f.err = last.Interface().(error)
		}

		return nil, false
	}

	return out[:len(out)-1], true
}

func (f *frame) callee(c ir.Call) reflect.Value {
	if c.Recv == nil {
		fn, ok := f.env.Funcs[c.Pkg+"."+c.Name]
		if !ok {
			panic(fmt.Sprintf("irtest: no function %s.%s registered", c.Pkg, c.Name))
		}

		return reflect.ValueOf(fn)
	}

	recv := f.eval(c.Recv)
	if obj, ok := recv.Interface().(*Object); ok {
		m, ok := obj.Methods[c.Name]
		if !ok {
			panic(fmt.Sprintf("irtest: object has no method %s", c.Name))
		}

		return reflect.ValueOf(m)
	}

	if m := recv.MethodByName(c.Name); m.IsValid() {
		return m
	}

	if recv.CanAddr() {
		if m := recv.Addr().MethodByName(c.Name); m.IsValid() {
			return m
		}
	}

	panic(fmt.Sprintf("irtest: %s has no method %s", recv.Type(), c.Name))
}

// eval evaluates a non-failing expression. Nil evaluates to the invalid
// Value, which assigns as the zero value.
//
//nolint:gocyclo // one case per instruction
func (f *frame) eval(e ir.Expr) reflect.Value {
	switch e := e.(type) {
	case ir.Ident:
		v, ok := f.vars[e.Name]
		if !ok {
			panic(fmt.Sprintf("irtest: undeclared %s", e.Name))
		}

		return v

	case ir.Lit:
		return reflect.ValueOf(e.Value)

	case ir.Nil:
		return reflect.Value{}

	case ir.Zero:
		return reflect.Zero(f.env.TypeOf(e.Type))

	case ir.Select:
		x := f.eval(e.X)
		if obj, ok := x.Interface().(*Object); ok {
			return reflect.ValueOf(obj.Fields[e.Field])
		}

		for x.Kind() == reflect.Pointer {
			x = x.Elem()
		}

		return x.FieldByName(e.Field)

	case ir.Index:
		return f.eval(e.X).Index(int(f.eval(e.Index).Int()))

	case ir.Deref:
		return f.eval(e.X).Elem()

	case ir.AddrOf:
		x := f.eval(e.X)
		if x.CanAddr() {
			return x.Addr()
		}

		p := reflect.New(x.Type())
		p.Elem().Set(x)

		return p

	case ir.Convert:
		return f.eval(e.X).Convert(f.env.TypeOf(e.Type))

	case ir.Len:
		return reflect.ValueOf(f.eval(e.X).Len())

	case ir.Binary:
		return binary(e.Op, f.eval(e.X), f.eval(e.Y))

	case ir.Call:
		results, ok := f.call(e)
		if !ok {
			panic(fmt.Sprintf("irtest: fallible call %s used as a plain expression", e.Name))
		}

		return results[0]

	case ir.Composite:
		t := f.env.TypeOf(e.Type)
		if t.Kind() == reflect.Slice {
			return reflect.MakeSlice(t, 0, 0)
		}

		return reflect.New(t).Elem()

	case ir.MakeSlice:
		n := int(f.eval(e.Len).Int())
		return reflect.MakeSlice(f.env.TypeOf(e.Type), n, n)

	case ir.Append:
		s := f.eval(e.Slice)
		elem := reflect.New(s.Type().Elem()).Elem()
		assign(elem, f.eval(e.Elem))

		return reflect.Append(s, elem)

	case ir.SliceLit:
		t := reflect.SliceOf(f.env.TypeOf(e.Elem))
		s := reflect.MakeSlice(t, len(e.Elems), len(e.Elems))
		for i, el := range e.Elems {
			assign(s.Index(i), f.eval(el))
		}

		return s

	default:
		panic(fmt.Sprintf("irtest: unsupported expression %T", e))
	}
}

func (f *frame) lvalue(e ir.Expr) reflect.Value {
	v := f.eval(e)
	if !v.CanSet() {
		panic(fmt.Sprintf("irtest: %T is not assignable", e))
	}

	return v
}

func assign(dst, v reflect.Value) {
	switch {
	case !v.IsValid():
		dst.Set(reflect.Zero(dst.Type()))
	case v.Type().AssignableTo(dst.Type()):
		dst.Set(v)
	case v.Type().ConvertibleTo(dst.Type()):
		dst.Set(v.Convert(dst.Type()))
	default:
		panic(fmt.Sprintf("irtest: cannot assign %s to %s", v.Type(), dst.Type()))
	}
}

func binary(op string, x, y reflect.Value) reflect.Value {
	if !x.IsValid() || !y.IsValid() {
		isNil := func(v reflect.Value) bool { return !v.IsValid() || v.IsNil() }

		switch op {
		case "==":
			return reflect.ValueOf(isNil(x) && isNil(y))
		case "!=":
			return reflect.ValueOf(isNil(x) != isNil(y))
		}
	}

	a, b := x.Int(), y.Int()

	switch op {
	case "+":
		return reflect.ValueOf(int(a + b))
	case "-":
		return reflect.ValueOf(int(a - b))
	case "<":
		return reflect.ValueOf(a < b)
	case "<=":
		return reflect.ValueOf(a <= b)
	case ">":
		return reflect.ValueOf(a > b)
	case ">=":
		return reflect.ValueOf(a >= b)
	case "==":
		return reflect.ValueOf(a == b)
	case "!=":
		return reflect.ValueOf(a != b)
	}

	panic(fmt.Sprintf("irtest: unsupported operator %s", op))
}

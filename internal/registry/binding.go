package registry

import (
	"dao-generator/internal/analyze"
	"dao-generator/internal/ir"
	"dao-generator/internal/scope"
	"dao-generator/primitive"
)

// Binding is the common part of read and write capabilities.
type Binding interface {
	// Type is the host type the capability was resolved for.
	Type() *analyze.TypeInfo
	// DataKind is the storage class the value is read from or written as.
	DataKind() primitive.DataKind
}

// Reader emits code reading column index of cursor into out.
type Reader interface {
	Binding
	Read(s *scope.Scope, cursor, index, out ir.Expr)
}

// Writer emits code binding value at placeholder index of stmt.
type Writer interface {
	Binding
	Write(s *scope.Scope, stmt, index, value ir.Expr)
}

// column carries the read/write mechanics shared by scalar and enum bindings.
type column struct {
	typ      *analyze.TypeInfo // as queried, possibly a pointer
	value    *analyze.TypeInfo // typ without the pointer
	wire     *analyze.TypeInfo // type of the runtime getter/setter
	kind     primitive.DataKind
	getter   string
	setter   string
	fallible bool
	nullable bool
}

func (c *column) Type() *analyze.TypeInfo {
	return c.typ
}

func (c *column) DataKind() primitive.DataKind {
	return c.kind
}

// Nullable reports whether NULL maps to nil.
func (c *column) Nullable() bool {
	return c.nullable
}

func (c *column) Read(s *scope.Scope, cursor, index, out ir.Expr) {
	if !c.nullable {
		c.readValue(s, cursor, index, out)
		return
	}

	present := s.Fork()
	tmp := s.TmpVar("_tmp")
	present.Emit(ir.Declare{Name: tmp, Type: c.value})
	c.readValue(present, cursor, index, ir.Id(tmp))
	present.Emit(ir.Assign{LHS: out, Value: ir.AddrOf{X: ir.Id(tmp)}})

	s.Emit(ir.If{
		Cond: ir.Method(cursor, ir.IsNull, index),
		Then: []ir.Stmt{ir.Assign{LHS: out, Value: ir.Nil{}}},
		Else: present.Body(),
	})
}

func (c *column) readValue(s *scope.Scope, cursor, index, out ir.Expr) {
	get := ir.Call{Recv: cursor, Name: c.getter, Args: []ir.Expr{index}, Fallible: c.fallible}
	if c.value.Equal(c.wire) {
		s.Emit(ir.Assign{LHS: out, Value: get})
		return
	}

	var raw ir.Expr = get
	if c.fallible {
		tmp := s.TmpVar("_raw")
		s.Emit(ir.Declare{Name: tmp, Type: c.wire, Value: get})
		raw = ir.Id(tmp)
	}

	s.Emit(ir.Assign{LHS: out, Value: ir.Convert{Type: c.value, X: raw}})
}

func (c *column) Write(s *scope.Scope, stmt, index, value ir.Expr) {
	if !c.nullable {
		s.Emit(c.bind(stmt, index, value))
		return
	}

	s.Emit(ir.If{
		Cond: ir.Binary{Op: "==", X: value, Y: ir.Nil{}},
		Then: []ir.Stmt{ir.Do{Call: ir.Method(stmt, ir.BindNull, index)}},
		Else: []ir.Stmt{c.bind(stmt, index, ir.Deref{X: value})},
	})
}

func (c *column) bind(stmt, index, value ir.Expr) ir.Stmt {
	if !c.value.Equal(c.wire) {
		value = ir.Convert{Type: c.wire, X: value}
	}

	return ir.Do{Call: ir.Method(stmt, c.setter, index, value)}
}

// ScalarBinding is a table entry instantiated for a query type.
type ScalarBinding struct {
	column
	entry *Entry
}

// Entry returns the table entry the binding was built from.
func (b *ScalarBinding) Entry() *Entry {
	return b.entry
}

// EnumBinding stores integer-backed enumerations by value and string-backed
// ones by name. It is created per lookup and never stored in the table.
type EnumBinding struct {
	column
}

// NoopBinding handles the absence type: it binds NULL and reads nothing.
type NoopBinding struct{}

func (NoopBinding) Type() *analyze.TypeInfo {
	return analyze.Void()
}

func (NoopBinding) DataKind() primitive.DataKind {
	return primitive.DataKindAny
}

func (NoopBinding) Read(*scope.Scope, ir.Expr, ir.Expr, ir.Expr) {}

func (NoopBinding) Write(s *scope.Scope, stmt, index, _ ir.Expr) {
	s.Emit(ir.Do{Call: ir.Method(stmt, ir.BindNull, index)})
}

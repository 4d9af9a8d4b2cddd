// Package binder writes method parameters into statement placeholders.
//
// A parameter is either a single value (Scalar) or a homogeneous sequence
// (Collection for named list types, Array for plain slices and arrays) that
// expands into one placeholder per element.
package binder

import (
	"errors"

	"dao-generator/internal/analyze"
	"dao-generator/internal/ir"
	"dao-generator/internal/registry"
	"dao-generator/internal/scope"
	"dao-generator/primitive"
)

// ErrNotMultiple is returned when a single-valued binder is asked for its
// argument count.
var ErrNotMultiple = errors.New("binder is not multiple")

// Binder writes one parameter value into a statement.
type Binder interface {
	// Type is the parameter type.
	Type() *analyze.TypeInfo
	// Bind emits the binds of value starting at the placeholder held in the
	// integer local index and leaves index past the last consumed placeholder.
	Bind(s *scope.Scope, stmt ir.Expr, index string, value ir.Expr)
	// ArgCount declares a local holding the number of placeholders value
	// consumes and returns its name.
	ArgCount(s *scope.Scope, value ir.Expr) (string, error)
	// IsMultiple reports whether the binder consumes a runtime-dependent
	// number of placeholders.
	IsMultiple() bool

	sealed()
}

// Scalar binds a single value.
type Scalar struct {
	typ    *analyze.TypeInfo
	Writer registry.Writer
}

// Collection binds every element of a named list type.
type Collection struct {
	typ  *analyze.TypeInfo
	Elem registry.Writer
}

// Array binds every element of a slice or array.
type Array struct {
	typ  *analyze.TypeInfo
	Elem registry.Writer
}

// Resolve picks the binder for t, or nil when t cannot be bound.
func Resolve(reg *registry.Registry, t *analyze.TypeInfo) Binder {
	return ResolveOf(reg, t, primitive.DataKindAny)
}

// ResolveOf is Resolve with the scalar bindings restricted to a data kind.
func ResolveOf(reg *registry.Registry, t *analyze.TypeInfo, kind primitive.DataKind) Binder {
	switch {
	case t == nil:
		return nil

	case t.IsListShaped():
		elem := reg.FindParameterTypeOf(t.Elem(), kind)
		if elem == nil {
			return nil
		}

		return &Collection{typ: t, Elem: elem}

	case (t.Kind == analyze.TypeKindSlice || t.Kind == analyze.TypeKindArray) && !t.ElemType.IsByte():
		elem := reg.FindParameterTypeOf(t.ElemType, kind)
		if elem == nil {
			return nil
		}

		return &Array{typ: t, Elem: elem}

	default:
		w := reg.FindParameterTypeOf(t, kind)
		if w == nil {
			return nil
		}

		return &Scalar{typ: t, Writer: w}
	}
}

func (b *Scalar) Type() *analyze.TypeInfo { return b.typ }

func (b *Scalar) Bind(s *scope.Scope, stmt ir.Expr, index string, value ir.Expr) {
	b.Writer.Write(s, stmt, ir.Id(index), value)
	s.Emit(ir.Inc{Name: index})
}

func (b *Scalar) ArgCount(*scope.Scope, ir.Expr) (string, error) {
	return "", ErrNotMultiple
}

func (b *Scalar) IsMultiple() bool { return false }

func (b *Collection) Type() *analyze.TypeInfo { return b.typ }

func (b *Collection) Bind(s *scope.Scope, stmt ir.Expr, index string, value ir.Expr) {
	bindEach(s, b.Elem, stmt, index, value)
}

func (b *Collection) ArgCount(s *scope.Scope, value ir.Expr) (string, error) {
	return argCount(s, value), nil
}

func (b *Collection) IsMultiple() bool { return true }

func (b *Array) Type() *analyze.TypeInfo { return b.typ }

func (b *Array) Bind(s *scope.Scope, stmt ir.Expr, index string, value ir.Expr) {
	bindEach(s, b.Elem, stmt, index, value)
}

func (b *Array) ArgCount(s *scope.Scope, value ir.Expr) (string, error) {
	return argCount(s, value), nil
}

func (b *Array) IsMultiple() bool { return true }

func (*Scalar) sealed()     {}
func (*Collection) sealed() {}
func (*Array) sealed()      {}

func bindEach(s *scope.Scope, elem registry.Writer, stmt ir.Expr, index string, value ir.Expr) {
	item := s.TmpVar("_item")

	body := s.Fork()
	elem.Write(body, stmt, ir.Id(index), ir.Id(item))
	body.Emit(ir.Inc{Name: index})

	s.Emit(ir.Range{Value: item, ElemType: elem.Type(), X: value, Body: body.Body()})
}

func argCount(s *scope.Scope, value ir.Expr) string {
	name := s.TmpVar("_inputSize")
	s.Emit(ir.Declare{Name: name, Type: analyze.Basic("int"), Value: ir.Len{X: value}})

	return name
}

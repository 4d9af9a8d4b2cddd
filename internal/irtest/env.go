// Package irtest executes instruction sequences directly, without rendering
// them to Go, so tests can observe the behaviour of generated method bodies
// against a real database.
package irtest

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"dao-generator/dbrt"
	"dao-generator/internal/analyze"
	"dao-generator/internal/ir"
)

// Object stands in for a generated receiver: Fields are read by Select and
// Methods are called with Call.
type Object struct {
	Fields  map[string]any
	Methods map[string]any
}

// Env resolves the named types and package functions a body refers to.
type Env struct {
	Types map[analyze.TypeID]reflect.Type
	Funcs map[string]any
}

var basicTypes = map[string]reflect.Type{
	"int":     reflect.TypeFor[int](),
	"int8":    reflect.TypeFor[int8](),
	"int16":   reflect.TypeFor[int16](),
	"int32":   reflect.TypeFor[int32](),
	"int64":   reflect.TypeFor[int64](),
	"uint":    reflect.TypeFor[uint](),
	"uint8":   reflect.TypeFor[uint8](),
	"uint16":  reflect.TypeFor[uint16](),
	"uint32":  reflect.TypeFor[uint32](),
	"uint64":  reflect.TypeFor[uint64](),
	"float32": reflect.TypeFor[float32](),
	"float64": reflect.TypeFor[float64](),
	"bool":    reflect.TypeFor[bool](),
	"string":  reflect.TypeFor[string](),
}

// NewEnv returns an environment knowing the runtime vocabulary,
// context.Context and time.Time.
func NewEnv() *Env {
	e := &Env{
		Types: make(map[analyze.TypeID]reflect.Type),
		Funcs: make(map[string]any),
	}

	e.Types[analyze.TypeID{PkgPath: "context", Name: "Context"}] = reflect.TypeFor[context.Context]()
	e.Register(dbrt.DB{}, dbrt.Statement{}, dbrt.Cursor{}, time.Time{})
	e.RegisterFunc(ir.RuntimePkg, ir.ExpandQuery, dbrt.ExpandQuery)
	e.RegisterFunc(ir.RuntimePkg, ir.TranslateFn, dbrt.Translate)

	return e
}

// Register makes the named types of values known.
func (e *Env) Register(values ...any) *Env {
	for _, v := range values {
		t := reflect.TypeOf(v)
		e.Types[analyze.TypeID{PkgPath: t.PkgPath(), Name: t.Name()}] = t
	}

	return e
}

// RegisterFunc makes a package function known.
func (e *Env) RegisterFunc(pkgPath, name string, fn any) *Env {
	e.Funcs[pkgPath+"."+name] = fn
	return e
}

// TypeOf maps a type description onto its Go type.
func (e *Env) TypeOf(t *analyze.TypeInfo) reflect.Type {
	switch t.Kind {
	case analyze.TypeKindBasic:
		if rt, ok := basicTypes[t.ID.Name]; ok {
			return rt
		}
	case analyze.TypeKindPointer:
		return reflect.PointerTo(e.TypeOf(t.ElemType))
	case analyze.TypeKindSlice:
		return reflect.SliceOf(e.TypeOf(t.ElemType))
	case analyze.TypeKindArray:
		return reflect.ArrayOf(int(t.Len), e.TypeOf(t.ElemType))
	default:
		if rt, ok := e.Types[t.ID]; ok {
			return rt
		}
	}

	panic(fmt.Sprintf("irtest: no Go type registered for %s", t))
}

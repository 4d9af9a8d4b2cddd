package ir

import (
	"dao-generator/internal/analyze"
)

// Expr is a value-producing instruction.
type Expr interface {
	expr()
}

// Ident references a local, parameter or receiver by name.
type Ident struct {
	Name string
}

// Lit is a constant: string, bool, int, int64 or float64.
type Lit struct {
	Value any
}

// Nil is the absent value of pointer and slice types.
type Nil struct{}

// Zero is the zero value of Type.
type Zero struct {
	Type *analyze.TypeInfo
}

// Select is X.Field. It dereferences pointers transparently.
type Select struct {
	X     Expr
	Field string
}

// Index is X[Index].
type Index struct {
	X     Expr
	Index Expr
}

// Deref is *X.
type Deref struct {
	X Expr
}

// AddrOf is &X.
type AddrOf struct {
	X Expr
}

// Convert is Type(X).
type Convert struct {
	Type *analyze.TypeInfo
	X    Expr
}

// Len is len(X).
type Len struct {
	X Expr
}

// Binary is X Op Y for comparison and integer arithmetic operators.
type Binary struct {
	Op string
	X  Expr
	Y  Expr
}

// Call invokes Recv.Name(Args...) or, with a nil Recv, Pkg.Name(Args...).
// A Fallible call returns an error as its last result; a failure leaves the
// method through the failure edge.
type Call struct {
	Recv     Expr
	Pkg      string
	Name     string
	Args     []Expr
	Fallible bool
}

// Composite is the empty composite literal T{}.
type Composite struct {
	Type *analyze.TypeInfo
}

// MakeSlice is make(Type, Len) where Type is a slice type.
type MakeSlice struct {
	Type *analyze.TypeInfo
	Len  Expr
}

// Append is append(Slice, Elem).
type Append struct {
	Slice Expr
	Elem  Expr
}

// SliceLit is []Elem{Elems...}.
type SliceLit struct {
	Elem  *analyze.TypeInfo
	Elems []Expr
}

func (Ident) expr()     {}
func (Lit) expr()       {}
func (Nil) expr()       {}
func (Zero) expr()      {}
func (Select) expr()    {}
func (Index) expr()     {}
func (Deref) expr()     {}
func (AddrOf) expr()    {}
func (Convert) expr()   {}
func (Len) expr()       {}
func (Binary) expr()    {}
func (Call) expr()      {}
func (Composite) expr() {}
func (MakeSlice) expr() {}
func (Append) expr()    {}
func (SliceLit) expr()  {}

// Id is shorthand for Ident{Name: name}.
func Id(name string) Ident {
	return Ident{Name: name}
}

// Int is shorthand for an int literal.
func Int(v int) Lit {
	return Lit{Value: v}
}

// Str is shorthand for a string literal.
func Str(v string) Lit {
	return Lit{Value: v}
}

// Method builds a non-fallible method call.
func Method(recv Expr, name string, args ...Expr) Call {
	return Call{Recv: recv, Name: name, Args: args}
}

// Try builds a fallible method call.
func Try(recv Expr, name string, args ...Expr) Call {
	return Call{Recv: recv, Name: name, Args: args, Fallible: true}
}

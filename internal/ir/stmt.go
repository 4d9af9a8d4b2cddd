package ir

import (
	"dao-generator/internal/analyze"
)

// Stmt is an instruction without a value.
type Stmt interface {
	stmt()
}

// Declare introduces a local. Type may be nil when Value is set; Value may be
// nil to declare the zero value of Type. A fallible Value requires Type.
type Declare struct {
	Name  string
	Type  *analyze.TypeInfo
	Value Expr
}

// Assign stores Value into the addressable LHS.
type Assign struct {
	LHS   Expr
	Value Expr
}

// Inc increments an integer local by one.
type Inc struct {
	Name string
}

// Do evaluates a call for its side effects.
type Do struct {
	Call Call
}

// If runs Then when Cond holds, Else otherwise.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// While runs Body as long as Cond holds.
type While struct {
	Cond Expr
	Body []Stmt
}

// Range runs Body once per element of X, with the element bound to Value.
type Range struct {
	Value    string
	ElemType *analyze.TypeInfo
	X        Expr
	Body     []Stmt
}

// Return leaves the method successfully. Value is nil for methods without
// a result.
type Return struct {
	Value Expr
}

// Guard runs Body and then Cleanup on every exit path.
type Guard struct {
	Body    []Stmt
	Cleanup []Stmt
}

// Bracket runs Begin, then Body, then End on every exit path once Begin has
// succeeded. When Bind is set, the result of Begin replaces that local.
type Bracket struct {
	Begin Call
	Bind  string
	Body  []Stmt
	End   Call
}

// Scoped acquires a resource into a local of the given Type, runs Body and
// closes the resource on every exit path.
type Scoped struct {
	Name    string
	Type    *analyze.TypeInfo
	Acquire Call
	Body    []Stmt
}

// Translate converts any failure leaving Body into the runtime error kind.
type Translate struct {
	Body []Stmt
}

func (Declare) stmt()   {}
func (Assign) stmt()    {}
func (Inc) stmt()       {}
func (Do) stmt()        {}
func (If) stmt()        {}
func (While) stmt()     {}
func (Range) stmt()     {}
func (Return) stmt()    {}
func (Guard) stmt()     {}
func (Bracket) stmt()   {}
func (Scoped) stmt()    {}
func (Translate) stmt() {}

// Param is a method parameter.
type Param struct {
	Name string
	Type *analyze.TypeInfo
}

// Func is a generated method: Receiver.Name(Params...) Result.
type Func struct {
	Name     string
	Receiver Param
	Params   []Param
	// Result is analyze.Void() for methods without a value.
	Result *analyze.TypeInfo
	Body   []Stmt
}

// HasResult reports whether the method returns a value besides the error.
func (f *Func) HasResult() bool {
	return f.Result != nil && f.Result.Kind != analyze.TypeKindVoid
}

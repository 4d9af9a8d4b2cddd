package plan

import (
	"dao-generator/internal/analyze"
	"dao-generator/internal/common"
	"dao-generator/internal/diagnostic"
	"dao-generator/internal/ir"
	"dao-generator/primitive"
)

// Param is a declared method parameter.
type Param struct {
	Name string
	Type *analyze.TypeInfo
	// Kind restricts the binding of the parameter to one data kind.
	Kind primitive.DataKind
}

// Method is a declared data-access method.
type Method struct {
	Name   string
	Params []Param
	// Result is nil or void for methods returning only an error.
	Result *analyze.TypeInfo
	// Query is the statement text with ":expr" placeholders.
	Query string
	// Transaction runs the statement inside a transaction bracket.
	Transaction bool
	// Delegate names a method of the same DAO that is called inside a
	// transaction bracket. Only used when Query is empty.
	Delegate string
}

// HasResult reports whether the method returns a value.
func (m *Method) HasResult() bool {
	return m.Result != nil && m.Result.Kind != analyze.TypeKindVoid
}

// DAO is a named group of methods sharing one data source.
type DAO struct {
	Name    string
	Methods []Method
}

// Method returns the method with the given name.
func (d *DAO) Method(name string) (*Method, bool) {
	for i := range d.Methods {
		if d.Methods[i].Name == name {
			return &d.Methods[i], true
		}
	}

	return nil, false
}

// StatementKind is how a method executes.
type StatementKind int

const (
	// KindUnknown - the statement could not be classified.
	KindUnknown StatementKind = iota
	// KindQuery - the statement opens a cursor.
	KindQuery
	// KindUpdateDelete - the statement reports the affected row count.
	KindUpdateDelete
	// KindInsert - the statement reports the last inserted row id.
	KindInsert
	// KindTransaction - a delegate call inside a transaction bracket.
	KindTransaction
)

// String returns a human-readable kind name.
func (k StatementKind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindUpdateDelete:
		return "update/delete"
	case KindInsert:
		return "insert"
	case KindTransaction:
		return "transaction"
	default:
		return common.UnknownStr
	}
}

// Placeholder is one resolved bound expression, in query order.
type Placeholder struct {
	Expr string
	Type *analyze.TypeInfo
	// Multiple marks a placeholder expanding to one "?" per element.
	Multiple bool
}

// MethodPlan is the outcome of planning one method.
type MethodPlan struct {
	DAO    string
	Method *Method
	Kind   StatementKind
	// Placeholders lists the bound expressions in query order.
	Placeholders []Placeholder
	// Func is the generated method, nil when planning failed.
	Func *ir.Func
}

// DAOPlan holds the planned methods of one DAO, in declaration order.
type DAOPlan struct {
	Name    string
	Methods []*MethodPlan
}

// Funcs returns the successfully planned methods.
func (d *DAOPlan) Funcs() []*ir.Func {
	var funcs []*ir.Func

	for _, m := range d.Methods {
		if m.Func != nil {
			funcs = append(funcs, m.Func)
		}
	}

	return funcs
}

// GenerationPlan is the final output of planning, consumed by rendering.
type GenerationPlan struct {
	DAOs []*DAOPlan
	// Diagnostics contains all warnings and errors from planning.
	Diagnostics diagnostic.Diagnostics
}

package ir

import (
	"dao-generator/internal/analyze"
)

// RuntimePkg is the import path of the runtime vocabulary package.
const RuntimePkg = "dao-generator/dbrt"

// ErrResult is the named error result of every generated method.
const ErrResult = "err"

// Runtime vocabulary. Every name here is a method or function of RuntimePkg.
const (
	// *dbrt.DB
	Acquire                  = "Acquire"
	Query                    = "Query"
	BeginTransaction         = "BeginTransaction"
	SetTransactionSuccessful = "SetTransactionSuccessful"
	EndTransaction           = "EndTransaction"

	// *dbrt.Statement
	ExecuteUpdateDelete = "ExecuteUpdateDelete"
	ExecuteInsert       = "ExecuteInsert"
	Release             = "Release"
	BindInt64           = "BindInt64"
	BindFloat64         = "BindFloat64"
	BindString          = "BindString"
	BindBytes           = "BindBytes"
	BindBool            = "BindBool"
	BindNull            = "BindNull"
	BindTextTime        = "BindTextTime"
	BindUnixTime        = "BindUnixTime"

	// *dbrt.Cursor
	Close          = "Close"
	MoveToNext     = "MoveToNext"
	MoveToFirst    = "MoveToFirst"
	MoveToLast     = "MoveToLast"
	MoveToPosition = "MoveToPosition"
	Position       = "Position"
	ColumnIndex    = "ColumnIndex"
	IsNull         = "IsNull"
	GetInt64       = "Int64"
	GetFloat64     = "Float64"
	GetString      = "String"
	GetBytes       = "Bytes"
	GetBool        = "Bool"
	GetTextTime    = "TextTime"
	GetUnixTime    = "UnixTime"

	// package functions
	ExpandQuery = "ExpandQuery"
	TranslateFn = "Translate"
)

// DBType is *dbrt.DB.
func DBType() *analyze.TypeInfo {
	return analyze.PointerTo(analyze.External(RuntimePkg, "DB"))
}

// StatementType is *dbrt.Statement.
func StatementType() *analyze.TypeInfo {
	return analyze.PointerTo(analyze.External(RuntimePkg, "Statement"))
}

// CursorType is *dbrt.Cursor.
func CursorType() *analyze.TypeInfo {
	return analyze.PointerTo(analyze.External(RuntimePkg, "Cursor"))
}

// ContextType is context.Context.
func ContextType() *analyze.TypeInfo {
	return analyze.External("context", "Context")
}

// Runtime builds a call to a RuntimePkg function.
func Runtime(name string, args ...Expr) Call {
	return Call{Pkg: RuntimePkg, Name: name, Args: args}
}

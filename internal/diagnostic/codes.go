package diagnostic

// Error codes.
const (
	// CodeNoBinder: no parameter binder exists for a bound expression type.
	CodeNoBinder = "E_NO_BINDER"
	// CodeNoConverter: no row shape applies to the return type.
	CodeNoConverter = "E_NO_CONVERTER"
	// CodeUnresolvedExpr: a bound expression does not resolve.
	CodeUnresolvedExpr = "E_UNRESOLVED_EXPR"
	// CodeBadReturn: the return type does not fit the statement kind.
	CodeBadReturn = "E_BAD_RETURN"
	// CodeContext: a query context field was set twice or read unset.
	CodeContext = "E_CONTEXT"
	// CodeCycle: an entity type contains itself, or delegates form a loop.
	CodeCycle = "E_CYCLE"
	// CodeQuery: the query text or delegate is unusable.
	CodeQuery = "E_QUERY"
	// CodeType: a declared type does not resolve.
	CodeType = "E_TYPE"
	// CodeDeclaration: the declaration file is structurally invalid.
	CodeDeclaration = "E_DECLARATION"
)

// Warning and info codes.
const (
	// CodeUnusedParam: a parameter is not referenced by the query.
	CodeUnusedParam = "W_UNUSED_PARAM"
	// CodeMultiValued: a parameter expands into a variable number of placeholders.
	CodeMultiValued = "I_MULTI_VALUED"
)

package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dao-generator/internal/analyze"
	"dao-generator/internal/convert"
	"dao-generator/internal/diagnostic"
	"dao-generator/internal/ir"
	"dao-generator/internal/registry"
	"dao-generator/primitive"
)

const pkg = "example/store"

var (
	int64T  = analyze.Basic("int64")
	stringT = analyze.Basic("string")

	profile = &analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: pkg, Name: "Profile"},
		Kind: analyze.TypeKindStruct,
		Fields: []analyze.FieldInfo{
			analyze.Field("First", stringT, ""),
			analyze.Field("Last", stringT, ""),
		},
		Methods: []analyze.MethodInfo{{Name: "DisplayName", Result: stringT}},
	}

	user = analyze.Struct(analyze.TypeID{PkgPath: pkg, Name: "User"},
		analyze.Field("ID", int64T, `db:"id"`),
		analyze.Field("Email", stringT, `db:"email"`),
		analyze.Field("Profile", analyze.PointerTo(profile), `db:"-"`),
	)

	users = analyze.NamedSlice(analyze.TypeID{PkgPath: pkg, Name: "Users"}, user)
)

func newPlanner(config Config) *Planner {
	return NewPlanner(convert.NewResolver(registry.Default()), config)
}

func planOne(t *testing.T, m Method, others ...Method) (*MethodPlan, diagnostic.Diagnostics) {
	t.Helper()

	dao := &DAO{Name: "UserDAO", Methods: append([]Method{m}, others...)}

	return newPlanner(DefaultConfig()).PlanMethod(dao, &dao.Methods[0])
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  StatementKind
	}{
		{"SELECT 1", KindQuery},
		{"  with x AS (SELECT 1) SELECT * FROM x", KindQuery},
		{"(SELECT 1) UNION (SELECT 2)", KindQuery},
		{"-- leading comment\nUPDATE users SET x = 1", KindUpdateDelete},
		{"/* c */ delete FROM users", KindUpdateDelete},
		{"INSERT INTO users VALUES (1)", KindInsert},
		{"REPLACE INTO users VALUES (1)", KindInsert},
		{"CREATE TABLE t (x)", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestPlanMethod_StaticQuery(t *testing.T) {
	mp, diags := planOne(t, Method{
		Name:   "FindByID",
		Params: []Param{{Name: "id", Type: int64T}},
		Result: analyze.PointerTo(user),
		Query:  "SELECT * FROM users WHERE id = :id AND note <> ':skip'",
	})

	require.False(t, diags.HasErrors(), diags.Error())
	require.NotNil(t, mp.Func)
	assert.Equal(t, KindQuery, mp.Kind)
	assert.Equal(t, []Placeholder{{Expr: "id", Type: int64T}}, mp.Placeholders)

	fn := mp.Func
	assert.Equal(t, "d", fn.Receiver.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "ctx", fn.Params[0].Name)

	assert.Equal(t, ir.Declare{
		Name:  "_stmt",
		Type:  ir.StatementType(),
		Value: ir.Method(ir.Select{X: ir.Id("d"), Field: "db"}, ir.Acquire, ir.Str("SELECT * FROM users WHERE id = ? AND note <> ':skip'")),
	}, fn.Body[0])

	calls := ir.Calls(fn.Body)
	assert.Contains(t, calls, ir.BindInt64)
	assert.Contains(t, calls, ir.Query)
	assert.Contains(t, calls, ir.Release)
	assert.NotContains(t, calls, ir.BeginTransaction)
	assert.NotContains(t, calls, ir.ExpandQuery)
}

func TestPlanMethod_ExpandedQuery(t *testing.T) {
	mp, diags := planOne(t, Method{
		Name: "FindByIDs",
		Params: []Param{
			{Name: "ids", Type: analyze.SliceOf(int64T)},
			{Name: "email", Type: stringT},
		},
		Result: users,
		Query:  "SELECT * FROM users WHERE id IN (:ids) AND email = :email",
	})

	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, diags.ByCode(diagnostic.CodeMultiValued), 1)

	body := mp.Func.Body
	assert.Equal(t, ir.Declare{Name: "_inputSize", Type: analyze.Basic("int"), Value: ir.Len{X: ir.Id("ids")}}, body[0])
	assert.Equal(t, ir.Declare{
		Name: "_sql",
		Type: stringT,
		Value: ir.Runtime(ir.ExpandQuery,
			ir.SliceLit{Elem: stringT, Elems: []ir.Expr{
				ir.Str("SELECT * FROM users WHERE id IN ("), ir.Str(") AND email = "), ir.Str(""),
			}},
			ir.Id("_inputSize"), ir.Int(1),
		),
	}, body[1])
	assert.Equal(t, ir.Method(ir.Select{X: ir.Id("d"), Field: "db"}, ir.Acquire, ir.Id("_sql")), body[2].(ir.Declare).Value)
}

func TestPlanMethod_BoundExpressionChain(t *testing.T) {
	mp, diags := planOne(t, Method{
		Name:   "Rename",
		Params: []Param{{Name: "user", Type: user}},
		Query:  "UPDATE users SET email = :user.Profile.DisplayName() WHERE id = :user.ID",
	})

	require.False(t, diags.HasErrors(), diags.Error())
	assert.Equal(t, KindUpdateDelete, mp.Kind)
	require.Len(t, mp.Placeholders, 2)
	assert.Equal(t, stringT, mp.Placeholders[0].Type)
	assert.Equal(t, int64T, mp.Placeholders[1].Type)
	assert.Empty(t, diags.Warnings)
}

func TestPlanMethod_Diagnostics(t *testing.T) {
	tests := []struct {
		name    string
		method  Method
		code    string
		subject string
	}{
		{
			name:   "unclassifiable",
			method: Method{Name: "M", Query: "CREATE TABLE t (x)"},
			code:   diagnostic.CodeQuery,
		},
		{
			name:   "no query",
			method: Method{Name: "M"},
			code:   diagnostic.CodeQuery,
		},
		{
			name:    "unresolved",
			method:  Method{Name: "M", Params: []Param{{Name: "id", Type: int64T}}, Query: "DELETE FROM users WHERE id = :idd"},
			code:    diagnostic.CodeUnresolvedExpr,
			subject: ":idd",
		},
		{
			name: "no binder",
			method: Method{Name: "M", Params: []Param{{Name: "u", Type: user}},
				Query: "DELETE FROM users WHERE id = :u"},
			code:    diagnostic.CodeNoBinder,
			subject: ":u",
		},
		{
			name: "data kind mismatch",
			method: Method{Name: "M", Params: []Param{{Name: "id", Type: int64T, Kind: primitive.DataKindText}},
				Query: "DELETE FROM users WHERE id = :id"},
			code:    diagnostic.CodeNoBinder,
			subject: ":id",
		},
		{
			name:    "bad update return",
			method:  Method{Name: "M", Result: stringT, Query: "DELETE FROM users"},
			code:    diagnostic.CodeBadReturn,
			subject: "string",
		},
		{
			name:   "no converter",
			method: Method{Name: "M", Result: analyze.ArrayOf(2, int64T), Query: "SELECT id FROM users"},
			code:   diagnostic.CodeNoConverter,
		},
		{
			name: "context collision",
			method: Method{Name: "M", Params: []Param{{Name: "ctx", Type: int64T}},
				Query: "DELETE FROM users WHERE id = :ctx"},
			code:    diagnostic.CodeContext,
			subject: "ctx",
		},
		{
			name: "error result collision",
			method: Method{Name: "M", Params: []Param{{Name: "err", Type: int64T}},
				Query: "DELETE FROM users WHERE id = :err"},
			code:    diagnostic.CodeContext,
			subject: "err",
		},
		{
			name:   "invalid param type",
			method: Method{Name: "M", Params: []Param{{Name: "x", Type: analyze.Invalid()}}, Query: "SELECT :x"},
			code:   diagnostic.CodeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp, diags := planOne(t, tt.method)

			assert.Nil(t, mp.Func)
			found := diags.ByCode(tt.code)
			require.NotEmpty(t, found, diags.Error())
			assert.Equal(t, "UserDAO.M", found[0].Method)
			if tt.subject != "" {
				assert.Equal(t, tt.subject, found[0].Subject)
			}
		})
	}
}

func TestPlanMethod_UnresolvedSuggests(t *testing.T) {
	_, diags := planOne(t, Method{
		Name:   "M",
		Params: []Param{{Name: "user", Type: user}},
		Query:  "DELETE FROM users WHERE email = :user.Emial",
	})

	found := diags.ByCode(diagnostic.CodeUnresolvedExpr)
	require.Len(t, found, 1)
	assert.Equal(t, []string{"Email"}, found[0].Suggestions)
}

func TestPlanMethod_Cycle(t *testing.T) {
	node := analyze.Struct(analyze.TypeID{PkgPath: pkg, Name: "Node"},
		analyze.Field("ID", int64T, `db:"id"`),
	)
	node.Fields = append(node.Fields, analyze.Field("Parent", node, `db:",prefix=parent_"`))

	_, diags := planOne(t, Method{Name: "M", Result: node, Query: "SELECT * FROM nodes"})
	assert.NotEmpty(t, diags.ByCode(diagnostic.CodeCycle))
}

func TestPlanMethod_UnusedParam(t *testing.T) {
	m := Method{
		Name:   "M",
		Params: []Param{{Name: "id", Type: int64T}, {Name: "extra", Type: stringT}},
		Query:  "DELETE FROM users WHERE id = :id",
	}

	mp, diags := planOne(t, m)
	require.NotNil(t, mp.Func)
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeUnusedParam, diags.Warnings[0].Code)
	assert.Equal(t, "extra", diags.Warnings[0].Subject)

	config := DefaultConfig()
	config.StrictParams = true

	dao := &DAO{Name: "UserDAO", Methods: []Method{m}}
	mp, diags = newPlanner(config).PlanMethod(dao, &dao.Methods[0])
	assert.Nil(t, mp.Func)
	assert.NotEmpty(t, diags.ByCode(diagnostic.CodeUnusedParam))
}

func TestPlanMethod_TransactionalUpdate(t *testing.T) {
	mp, diags := planOne(t, Method{
		Name:        "Touch",
		Params:      []Param{{Name: "id", Type: int64T}},
		Result:      analyze.Basic("int"),
		Query:       "UPDATE users SET email = email WHERE id = :id",
		Transaction: true,
	})

	require.False(t, diags.HasErrors(), diags.Error())

	calls := ir.Calls(mp.Func.Body)
	assert.Subset(t, calls, []string{
		ir.Acquire, ir.BindInt64, ir.BeginTransaction, ir.ExecuteUpdateDelete,
		ir.SetTransactionSuccessful, ir.EndTransaction, ir.Release,
	})
}

func TestPlanMethod_Delegate(t *testing.T) {
	insert := Method{
		Name:   "Insert",
		Params: []Param{{Name: "email", Type: stringT}},
		Result: int64T,
		Query:  "INSERT INTO users (email) VALUES (:email)",
	}

	mp, diags := planOne(t, Method{
		Name:     "InsertInTx",
		Params:   []Param{{Name: "email", Type: stringT}},
		Result:   int64T,
		Delegate: "Insert",
	}, insert)

	require.False(t, diags.HasErrors(), diags.Error())
	assert.Equal(t, KindTransaction, mp.Kind)

	body := mp.Func.Body
	require.Len(t, body, 2)
	assert.Equal(t, ir.Declare{Name: "_result", Type: int64T}, body[0])

	tx := body[1].(ir.Translate).Body[0].(ir.Bracket)
	assert.Equal(t, ir.Assign{
		LHS:   ir.Id("_result"),
		Value: ir.Try(ir.Id("d"), "Insert", ir.Id("ctx"), ir.Id("email")),
	}, tx.Body[0])
}

func TestPlanMethod_DelegateDiagnostics(t *testing.T) {
	insert := Method{
		Name:   "Insert",
		Params: []Param{{Name: "email", Type: stringT}},
		Result: int64T,
		Query:  "INSERT INTO users (email) VALUES (:email)",
	}

	_, diags := planOne(t, Method{Name: "M", Delegate: "Insrt"}, insert)
	found := diags.ByCode(diagnostic.CodeQuery)
	require.Len(t, found, 1)
	assert.Equal(t, []string{"Insert"}, found[0].Suggestions)

	_, diags = planOne(t, Method{Name: "M", Delegate: "M"})
	assert.NotEmpty(t, diags.ByCode(diagnostic.CodeQuery))

	_, diags = planOne(t, Method{Name: "M", Params: []Param{{Name: "email", Type: stringT}}, Delegate: "Insert"}, insert)
	assert.NotEmpty(t, diags.ByCode(diagnostic.CodeBadReturn))

	_, diags = planOne(t, Method{Name: "M", Params: []Param{{Name: "email", Type: int64T}}, Result: int64T, Delegate: "Insert"}, insert)
	assert.NotEmpty(t, diags.ByCode(diagnostic.CodeQuery))
}

func TestPlan_CollectsEveryDAO(t *testing.T) {
	daos := []DAO{
		{Name: "UserDAO", Methods: []Method{
			{Name: "Count", Result: int64T, Query: "SELECT count(*) FROM users"},
			{Name: "Broken", Query: "SELECT :nope"},
		}},
		{Name: "AuditDAO", Methods: []Method{
			{Name: "Purge", Query: "DELETE FROM audit"},
		}},
	}

	plan := newPlanner(DefaultConfig()).Plan(daos)

	require.Len(t, plan.DAOs, 2)
	assert.Len(t, plan.DAOs[0].Funcs(), 1)
	assert.Len(t, plan.DAOs[1].Funcs(), 1)
	assert.Len(t, plan.Diagnostics.Errors, 1)
}

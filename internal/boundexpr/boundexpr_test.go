package boundexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dao-generator/internal/analyze"
	"dao-generator/internal/ir"
)

const pkg = "example/store"

func fixtures() []Param {
	text := analyze.Basic("string")

	profile := analyze.Struct(analyze.TypeID{PkgPath: pkg, Name: "Profile"},
		analyze.Field("First", text, ""),
	)
	profile.Methods = []analyze.MethodInfo{
		{Name: "DisplayName", Result: text},
		{Name: "Initial", NumParams: 1, Result: text},
	}

	address := analyze.Struct(analyze.TypeID{PkgPath: pkg, Name: "Address"},
		analyze.Field("City", text, ""),
	)

	user := analyze.Struct(analyze.TypeID{PkgPath: pkg, Name: "User"},
		analyze.Field("ID", analyze.Basic("int64"), ""),
		analyze.Field("Profile", profile, ""),
		analyze.Field("Ref", analyze.PointerTo(profile), ""),
		analyze.Field("secret", text, ""),
	)
	user.Methods = []analyze.MethodInfo{
		{Name: "Home", Result: address},
		{Name: "Touch"},
	}

	return []Param{
		{Name: "user", Type: user},
		{Name: "ids", Type: analyze.SliceOf(analyze.Basic("int64"))},
	}
}

func TestResolveExpr_ChainedAccess(t *testing.T) {
	typ, access, err := ResolveExpr("user.Profile.DisplayName()", fixtures())
	require.NoError(t, err)
	assert.Equal(t, "string", typ.ID.Name)
	assert.Equal(t,
		ir.Method(ir.Select{X: ir.Id("user"), Field: "Profile"}, "DisplayName"),
		access)
}

func TestResolve(t *testing.T) {
	params := fixtures()

	tests := []struct {
		expr string
		want string
	}{
		{"user", "example/store.User"},
		{"ids", "[]int64"},
		{"user.ID", "int64"},
		{"user.Profile.DisplayName()", "string"},
		{"user.Ref.First", "string"},
		{"user.Ref.DisplayName()", "string"},
		{"user.Home().City", "string"},
		// a scalar method result ends the chain
		{"user.Profile.DisplayName().Length", "string"},
	}

	got := Resolve(func() []string {
		exprs := make([]string, len(tests))
		for i, tt := range tests {
			exprs[i] = tt.expr
		}

		return exprs
	}(), params)

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			require.NotNil(t, got[tt.expr])
			assert.Equal(t, tt.want, got[tt.expr].String())
		})
	}
}

func TestResolve_Unresolved(t *testing.T) {
	exprs := []string{
		"user.unknownField",
		"nobody",
		"user.",
		"",
		"user.secret",
		"user.ID.Value",
		"user.Profile.Initial()",
		"user.Touch()",
		"user.Missing()",
	}

	got := Resolve(exprs, fixtures())
	require.Len(t, got, len(exprs))

	for _, expr := range exprs {
		assert.Contains(t, got, expr)
		assert.Nil(t, got[expr], expr)
	}
}

func TestResolveExpr_ErrorSuggests(t *testing.T) {
	_, _, err := ResolveExpr("user.Profil.First", fixtures())

	var unresolved *UnresolvedError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Profil", unresolved.Segment)
	assert.Contains(t, err.Error(), `did you mean "Profile"`)

	_, _, err = ResolveExpr("usr.ID", fixtures())
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"user", "ids"}, unresolved.Candidates)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		segments []string
		exprs    []string
	}{
		{
			name:     "no placeholders",
			query:    "SELECT 1",
			segments: []string{"SELECT 1"},
		},
		{
			name:     "plain and chained",
			query:    "SELECT * FROM users WHERE id = :id AND name = :user.Profile.DisplayName()",
			segments: []string{"SELECT * FROM users WHERE id = ", " AND name = ", ""},
			exprs:    []string{"id", "user.Profile.DisplayName()"},
		},
		{
			name:     "in list",
			query:    "DELETE FROM users WHERE id IN (:ids)",
			segments: []string{"DELETE FROM users WHERE id IN (", ")"},
			exprs:    []string{"ids"},
		},
		{
			name:     "literals and casts",
			query:    "SELECT ':no', \"a:b\", x::text FROM t WHERE y = 'it''s :x' AND z = :z",
			segments: []string{"SELECT ':no', \"a:b\", x::text FROM t WHERE y = 'it''s :x' AND z = ", ""},
			exprs:    []string{"z"},
		},
		{
			name:     "comments",
			query:    "SELECT a -- :skip\nFROM t /* :skip */ WHERE b = :b",
			segments: []string{"SELECT a -- :skip\nFROM t /* :skip */ WHERE b = ", ""},
			exprs:    []string{"b"},
		},
		{
			name:     "trailing dot is not part of the expression",
			query:    "SELECT :a.",
			segments: []string{"SELECT ", "."},
			exprs:    []string{"a"},
		},
		{
			name:     "unterminated literal",
			query:    "SELECT 'abc :x",
			segments: []string{"SELECT 'abc :x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, exprs := Tokenize(tt.query)
			assert.Equal(t, tt.segments, segments)
			assert.Equal(t, tt.exprs, exprs)
			assert.Len(t, segments, len(exprs)+1)
		})
	}
}

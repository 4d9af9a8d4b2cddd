package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storePkg = "dao-generator/store"

func loadStore(t *testing.T) *TypeGraph {
	t.Helper()

	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages(storePkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func findField(t *testing.T, info *TypeInfo, name string) *FieldInfo {
	t.Helper()

	f, ok := info.Field(name)
	require.True(t, ok, "field %s not found on %s", name, info.ID)

	return f
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadStore(t)

	assert.Contains(t, graph.Packages, storePkg)
	assert.Contains(t, graph.Types, TypeID{PkgPath: storePkg, Name: "User"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: storePkg, Name: "Profile"})
}

func TestAnalyzer_UserFields(t *testing.T) {
	graph := loadStore(t)

	user := graph.GetType(TypeID{PkgPath: storePkg, Name: "User"})
	require.NotNil(t, user)
	assert.Equal(t, TypeKindStruct, user.Kind)

	id := findField(t, user, "ID")
	assert.Equal(t, TypeKindBasic, id.Type.Kind)
	assert.Equal(t, "int64", id.Type.ID.Name)
	assert.Equal(t, "id", id.ColumnName())

	createdAt := findField(t, user, "CreatedAt")
	assert.Equal(t, TypeKindExternal, createdAt.Type.Kind)
	assert.Equal(t, TypeID{PkgPath: "time", Name: "Time"}, createdAt.Type.ID)

	avatar := findField(t, user, "Avatar")
	assert.True(t, avatar.Type.IsByteSequence())

	score := findField(t, user, "Score")
	assert.Equal(t, TypeKindPointer, score.Type.Kind)
	assert.Equal(t, "float64", score.Type.ElemType.ID.Name)

	profile := findField(t, user, "Profile")
	assert.False(t, profile.IsPersisted())

	note := findField(t, user, "note")
	assert.False(t, note.Exported)
	assert.False(t, note.IsPersisted())

	home := findField(t, user, "Home")
	assert.Equal(t, "home_", home.DB().Prefix)
	assert.Equal(t, "Home", home.ColumnName())
}

func TestAnalyzer_Enums(t *testing.T) {
	graph := loadStore(t)

	status := graph.GetType(TypeID{PkgPath: storePkg, Name: "Status"})
	require.NotNil(t, status)
	assert.Equal(t, TypeKindEnum, status.Kind)
	assert.ElementsMatch(t, []string{"StatusActive", "StatusSuspended", "StatusDeleted"}, status.EnumValues)
	assert.Equal(t, "int", status.Underlying.ID.Name)

	plan := graph.GetType(TypeID{PkgPath: storePkg, Name: "Plan"})
	require.NotNil(t, plan)
	assert.Equal(t, TypeKindEnum, plan.Kind)

	cents := graph.GetType(TypeID{PkgPath: storePkg, Name: "Cents"})
	require.NotNil(t, cents)
	assert.Equal(t, TypeKindAlias, cents.Kind)
}

func TestAnalyzer_MethodsAndListShapes(t *testing.T) {
	graph := loadStore(t)

	profile := graph.GetType(TypeID{PkgPath: storePkg, Name: "Profile"})
	require.NotNil(t, profile)

	m, ok := profile.Method("DisplayName")
	require.True(t, ok)
	assert.Equal(t, 0, m.NumParams)
	require.NotNil(t, m.Result)
	assert.Equal(t, "string", m.Result.ID.Name)

	users := graph.GetType(TypeID{PkgPath: storePkg, Name: "Users"})
	require.NotNil(t, users)
	assert.True(t, users.IsListShaped())
	assert.Equal(t, "User", users.Elem().ID.Name)

	owner := findField(t, profile, "Owner")
	assert.Same(t, graph.GetType(TypeID{PkgPath: storePkg, Name: "User"}), owner.Type.Struct())
}

func TestTypeID_String(t *testing.T) {
	id := TypeID{PkgPath: storePkg, Name: "User"}
	assert.Equal(t, "dao-generator/store.User", id.String())

	// Empty package path
	idNoPkg := TypeID{Name: "int"}
	assert.Equal(t, "int", idNoPkg.String())
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "basic", TypeKindBasic.String())
	assert.Equal(t, "struct", TypeKindStruct.String())
	assert.Equal(t, "pointer", TypeKindPointer.String())
	assert.Equal(t, "slice", TypeKindSlice.String())
	assert.Equal(t, "array", TypeKindArray.String())
	assert.Equal(t, "alias", TypeKindAlias.String())
	assert.Equal(t, "enum", TypeKindEnum.String())
	assert.Equal(t, "external", TypeKindExternal.String())
	assert.Equal(t, "unknown", TypeKindUnknown.String())
}

func TestAnalyzer_Funcs(t *testing.T) {
	graph := loadStore(t)

	scan := graph.GetFunc(TypeID{PkgPath: storePkg, Name: "ScanUserSummary"})
	require.NotNil(t, scan)
	assert.Contains(t, graph.Packages[storePkg].Funcs, scan.ID)

	require.Len(t, scan.Params, 1)
	assert.Equal(t, TypeKindPointer, scan.Params[0].Kind)
	assert.Equal(t, TypeID{PkgPath: "dao-generator/dbrt", Name: "Cursor"}, scan.Params[0].ElemType.ID)
	assert.Equal(t, TypeKindExternal, scan.Params[0].ElemType.Kind)

	require.Len(t, scan.Results, 2)
	assert.Same(t, graph.GetType(TypeID{PkgPath: storePkg, Name: "UserSummary"}), scan.Results[0])
	assert.Equal(t, TypeID{Name: "error"}, scan.Results[1].ID)
}

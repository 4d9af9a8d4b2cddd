package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dao-generator/internal/analyze"
	"dao-generator/internal/ir"
	"dao-generator/internal/scope"
	"dao-generator/primitive"
)

var (
	statusEnum = analyze.Enum(analyze.TypeID{PkgPath: "example/store", Name: "Status"},
		analyze.Basic("int"), "StatusActive", "StatusDeleted")
	planEnum = analyze.Enum(analyze.TypeID{PkgPath: "example/store", Name: "Plan"},
		analyze.Basic("string"), "PlanFree", "PlanPro")
	cents = &analyze.TypeInfo{
		ID:         analyze.TypeID{PkgPath: "example/store", Name: "Cents"},
		Kind:       analyze.TypeKindAlias,
		Underlying: analyze.Basic("int64"),
	}
)

func TestDefault_ReaderAndWriterShareDeclaredType(t *testing.T) {
	reg := Default()

	for _, e := range reg.Entries() {
		for _, typ := range []*analyze.TypeInfo{e.Type, analyze.PointerTo(e.Type)} {
			w := reg.FindParameterTypeOf(typ, e.DataKind)
			r := reg.FindReaderTypeOf(typ, e.DataKind)
			require.NotNil(t, w, "writer for %s", typ)
			require.NotNil(t, r, "reader for %s", typ)

			assert.True(t, w.Type().Equal(typ), "writer type %s != %s", w.Type(), typ)
			assert.True(t, r.Type().Equal(typ), "reader type %s != %s", r.Type(), typ)
			assert.Equal(t, e.DataKind, w.DataKind())
		}
	}
}

func TestDefault_IsBuiltOnce(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestNew_RejectsDuplicates(t *testing.T) {
	entries := DefaultEntries()
	_, err := New(append(entries, entries[0])...)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestFind_DataKindDisambiguation(t *testing.T) {
	reg := Default()

	text := reg.FindReaderType(analyze.Time())
	require.NotNil(t, text)
	assert.Equal(t, primitive.DataKindText, text.DataKind())

	unix := reg.FindReaderTypeOf(analyze.Time(), primitive.DataKindInteger)
	require.NotNil(t, unix)
	assert.Equal(t, primitive.DataKindInteger, unix.DataKind())

	assert.Nil(t, reg.FindReaderTypeOf(analyze.Time(), primitive.DataKindBlob))
	assert.Nil(t, reg.FindParameterTypeOf(analyze.Basic("string"), primitive.DataKindInteger))
}

func TestFind_Unbindable(t *testing.T) {
	reg := Default()

	tests := []struct {
		name string
		typ  *analyze.TypeInfo
	}{
		{"nil", nil},
		{"invalid", analyze.Invalid()},
		{"struct", analyze.Struct(analyze.TypeID{PkgPath: "example/store", Name: "User"})},
		{"slice of int", analyze.SliceOf(analyze.Basic("int"))},
		{"pointer to pointer", analyze.PointerTo(analyze.PointerTo(analyze.Basic("int")))},
		{"unknown", &analyze.TypeInfo{Kind: analyze.TypeKindUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, reg.FindParameterType(tt.typ))
			assert.Nil(t, reg.FindReaderType(tt.typ))
		})
	}
}

func TestFind_Void(t *testing.T) {
	reg := Default()

	w := reg.FindParameterType(analyze.Void())
	require.IsType(t, NoopBinding{}, w)

	s := scope.New()
	w.Write(s, ir.Id("_stmt"), ir.Id("_argIndex"), ir.Nil{})
	assert.Equal(t, []string{ir.BindNull}, ir.Calls(s.Body()))

	r := reg.FindReaderType(analyze.Void())
	require.NotNil(t, r)
	r.Read(s.Fork(), ir.Id("_cursor"), ir.Int(0), ir.Id("_result"))
}

func TestFind_EnumBypassesTable(t *testing.T) {
	reg, err := New()
	require.NoError(t, err)

	a := reg.FindParameterType(statusEnum)
	b := reg.FindParameterType(statusEnum)
	require.IsType(t, &EnumBinding{}, a)
	assert.NotSame(t, a, b)
	assert.Equal(t, primitive.DataKindInteger, a.DataKind())

	p := reg.FindReaderType(planEnum)
	require.IsType(t, &EnumBinding{}, p)
	assert.Equal(t, primitive.DataKindText, p.DataKind())

	nullable := reg.FindReaderType(analyze.PointerTo(planEnum))
	require.IsType(t, &EnumBinding{}, nullable)
	assert.True(t, nullable.(*EnumBinding).Nullable())
}

func TestScalarBinding_ReadConverts(t *testing.T) {
	s := scope.New()
	r := Default().FindReaderType(cents)
	require.NotNil(t, r)

	r.Read(s, ir.Id("_cursor"), ir.Id("_idx"), ir.Id("_out"))

	require.Len(t, s.Body(), 1)
	assign, ok := s.Body()[0].(ir.Assign)
	require.True(t, ok)

	conv, ok := assign.Value.(ir.Convert)
	require.True(t, ok)
	assert.Same(t, cents, conv.Type)
	assert.Equal(t, ir.GetInt64, conv.X.(ir.Call).Name)
}

func TestScalarBinding_ReadExactNeedsNoConversion(t *testing.T) {
	s := scope.New()
	Default().FindReaderType(analyze.Basic("string")).Read(s, ir.Id("c"), ir.Int(0), ir.Id("out"))

	assign := s.Body()[0].(ir.Assign)
	assert.Equal(t, ir.Method(ir.Id("c"), ir.GetString, ir.Int(0)), assign.Value)
}

func TestScalarBinding_NullableRead(t *testing.T) {
	s := scope.New()
	r := Default().FindReaderType(analyze.PointerTo(analyze.Basic("float64")))
	require.NotNil(t, r)

	r.Read(s, ir.Id("_cursor"), ir.Id("_idx"), ir.Id("_out"))

	require.Len(t, s.Body(), 1)
	branch, ok := s.Body()[0].(ir.If)
	require.True(t, ok)
	assert.Equal(t, ir.IsNull, branch.Cond.(ir.Call).Name)
	assert.Equal(t, []ir.Stmt{ir.Assign{LHS: ir.Id("_out"), Value: ir.Nil{}}}, branch.Then)

	require.Len(t, branch.Else, 3)
	assert.Equal(t, ir.Declare{Name: "_tmp", Type: analyze.Basic("float64")}, branch.Else[0])
	assert.Equal(t, ir.Assign{LHS: ir.Id("_out"), Value: ir.AddrOf{X: ir.Id("_tmp")}}, branch.Else[2])
}

func TestScalarBinding_FallibleConvertedRead(t *testing.T) {
	stamp := &analyze.TypeInfo{
		ID:         analyze.TypeID{PkgPath: "example/store", Name: "Stamp"},
		Kind:       analyze.TypeKindAlias,
		Underlying: analyze.Time(),
	}

	s := scope.New()
	Default().FindReaderType(stamp).Read(s, ir.Id("c"), ir.Int(0), ir.Id("out"))

	require.Len(t, s.Body(), 2)
	decl := s.Body()[0].(ir.Declare)
	assert.Equal(t, "_raw", decl.Name)
	assert.True(t, decl.Value.(ir.Call).Fallible)
	assert.Equal(t, ir.Assign{LHS: ir.Id("out"), Value: ir.Convert{Type: stamp, X: ir.Id("_raw")}}, s.Body()[1])
}

func TestScalarBinding_NullableWrite(t *testing.T) {
	s := scope.New()
	Default().FindParameterType(analyze.PointerTo(cents)).Write(s, ir.Id("_stmt"), ir.Id("_i"), ir.Id("v"))

	branch := s.Body()[0].(ir.If)
	assert.Equal(t, ir.Binary{Op: "==", X: ir.Id("v"), Y: ir.Nil{}}, branch.Cond)
	assert.Equal(t, []string{ir.BindNull}, ir.Calls(branch.Then))

	bind := branch.Else[0].(ir.Do).Call
	assert.Equal(t, ir.BindInt64, bind.Name)
	assert.Equal(t, ir.Convert{Type: analyze.Basic("int64"), X: ir.Deref{X: ir.Id("v")}}, bind.Args[1])
}

func TestEnumBinding_WriteByName(t *testing.T) {
	s := scope.New()
	Default().FindParameterType(planEnum).Write(s, ir.Id("_stmt"), ir.Int(1), ir.Id("plan"))

	bind := s.Body()[0].(ir.Do).Call
	assert.Equal(t, ir.BindString, bind.Name)
	assert.Equal(t, ir.Convert{Type: analyze.Basic("string"), X: ir.Id("plan")}, bind.Args[1])
}

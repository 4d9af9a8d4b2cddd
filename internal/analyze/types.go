package analyze

import (
	"go/types"
	"reflect"
	"strings"

	"dao-generator/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "dao-generator/store"
	Name    string // e.g., "User"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindArray             // fixed-length array of another type
	TypeKindAlias             // named type wrapping a non-struct type
	TypeKindExternal          // external/opaque type (e.g., time.Time)
	TypeKindEnum              // named basic type with declared constants
	TypeKindVoid              // absence of a value
	TypeKindInvalid           // unresolved or erroneous type
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	case TypeKindEnum:
		return "enum"
	case TypeKindVoid:
		return "void"
	case TypeKindInvalid:
		return "invalid"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID       // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind     // Kind of type
	Underlying *TypeInfo    // For named types, the underlying type
	ElemType   *TypeInfo    // For pointers, slices and arrays, the element type
	Len        int64        // For arrays, the length
	Fields     []FieldInfo  // For structs, the list of fields
	Methods    []MethodInfo // Declared methods (value and pointer receivers)
	EnumValues []string     // For enums, the names of the declared constants
	GoType     types.Type   // The original go/types.Type, nil for hand-built types
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// IsByte reports whether t is byte (uint8).
func (t *TypeInfo) IsByte() bool {
	return t != nil && t.Kind == TypeKindBasic && t.ID.Name == "uint8"
}

// IsByteSequence reports whether t is a slice or array of bytes.
func (t *TypeInfo) IsByteSequence() bool {
	return t != nil && (t.Kind == TypeKindSlice || t.Kind == TypeKindArray) && t.ElemType.IsByte()
}

// IsListShaped reports whether t is a named type whose underlying type is a
// slice of non-byte elements, e.g. "type Users []User".
func (t *TypeInfo) IsListShaped() bool {
	return t != nil && t.Kind == TypeKindAlias && t.Underlying != nil &&
		t.Underlying.Kind == TypeKindSlice && !t.Underlying.ElemType.IsByte()
}

// Elem returns the element type of slices, arrays, pointers and list-shaped types.
func (t *TypeInfo) Elem() *TypeInfo {
	if t == nil {
		return nil
	}

	if t.IsListShaped() {
		return t.Underlying.ElemType
	}

	return t.ElemType
}

// Struct returns the struct type behind t, dereferencing a single pointer.
// It returns nil when t is not a struct or pointer to struct.
func (t *TypeInfo) Struct() *TypeInfo {
	switch {
	case t == nil:
		return nil
	case t.Kind == TypeKindStruct:
		return t
	case t.Kind == TypeKindPointer && t.ElemType != nil && t.ElemType.Kind == TypeKindStruct:
		return t.ElemType
	default:
		return nil
	}
}

// Field returns the field with the exact given name.
func (t *TypeInfo) Field(name string) (*FieldInfo, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}

	return nil, false
}

// Method returns the method with the exact given name.
func (t *TypeInfo) Method(name string) (*MethodInfo, bool) {
	for i := range t.Methods {
		if t.Methods[i].Name == name {
			return &t.Methods[i], true
		}
	}

	return nil, false
}

// Equal reports structural equality: named types compare by identity,
// unnamed composite types compare element-wise.
func (t *TypeInfo) Equal(o *TypeInfo) bool {
	if t == nil || o == nil {
		return t == o
	}

	if t == o {
		return true
	}

	if t.Kind != o.Kind {
		return false
	}

	switch t.Kind {
	case TypeKindPointer, TypeKindSlice:
		return t.ElemType.Equal(o.ElemType)
	case TypeKindArray:
		return t.Len == o.Len && t.ElemType.Equal(o.ElemType)
	case TypeKindVoid:
		return true
	case TypeKindInvalid:
		return false
	default:
		return t.ID == o.ID && t.IsNamed()
	}
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// DBTag is the parsed `db` struct tag of a field.
type DBTag struct {
	Column string
	Skip   bool
	Prefix string
}

// DB parses the `db` tag. The first element names the column, "-" skips the
// field; "prefix=xyz" sets the column prefix of a nested struct.
func (f *FieldInfo) DB() DBTag {
	tag, ok := f.Tag.Lookup("db")
	if !ok {
		return DBTag{}
	}

	if tag == "-" {
		return DBTag{Skip: true}
	}

	parts := strings.Split(tag, ",")

	res := DBTag{Column: strings.TrimSpace(parts[0])}
	for _, opt := range parts[1:] {
		if v, ok := strings.CutPrefix(strings.TrimSpace(opt), "prefix="); ok {
			res.Prefix = v
		}
	}

	return res
}

// IsPersisted reports whether the field maps to a column.
func (f *FieldInfo) IsPersisted() bool {
	return f.Exported && !f.DB().Skip
}

// ColumnName returns the `db` tag column name if present, otherwise the field name.
func (f *FieldInfo) ColumnName() string {
	if col := f.DB().Column; col != "" {
		return col
	}

	return f.Name
}

// MethodInfo describes a method declared on a named type.
type MethodInfo struct {
	Name      string
	NumParams int
	// Result is the first result type, nil when the method returns nothing.
	Result *TypeInfo
}

// FuncInfo describes an exported package-level function.
type FuncInfo struct {
	ID      TypeID
	Params  []*TypeInfo
	Results []*TypeInfo
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Funcs maps function identifiers to their signatures.
	Funcs map[TypeID]*FuncInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Funcs:    make(map[TypeID]*FuncInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// GetFunc returns the function with the given identifier, or nil if not found.
func (g *TypeGraph) GetFunc(id TypeID) *FuncInfo {
	return g.Funcs[id]
}

// Add registers a named type in the graph.
func (g *TypeGraph) Add(t *TypeInfo) {
	g.Types[t.ID] = t
	g.pkg(t.ID.PkgPath).Types = append(g.pkg(t.ID.PkgPath).Types, t.ID)
}

// AddFunc registers a package-level function in the graph.
func (g *TypeGraph) AddFunc(f *FuncInfo) {
	g.Funcs[f.ID] = f
	g.pkg(f.ID.PkgPath).Funcs = append(g.pkg(f.ID.PkgPath).Funcs, f.ID)
}

func (g *TypeGraph) pkg(path string) *PackageInfo {
	pkg, ok := g.Packages[path]
	if !ok {
		pkg = &PackageInfo{Path: path, Name: common.PkgAlias(path)}
		g.Packages[path] = pkg
	}

	return pkg
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
	Funcs []TypeID // Exported functions defined in this package
}

package analyze

import (
	"strconv"
	"strings"
)

// TypePath builds a readable path string through struct members.
// Examples:
//   - "User" for a simple struct
//   - "User.Profile" for a nested field
//   - "User.Profile.DisplayName()" for a method at the end of a chain
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Method appends a zero-argument method call to the path.
func (p *TypePath) Method(name string) *TypePath {
	return p.Field(name + "()")
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// String returns the Go spelling of the type, qualified by package path for
// named types outside the universe scope.
func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindPointer:
		return "*" + t.ElemType.String()
	case TypeKindSlice:
		return "[]" + t.ElemType.String()
	case TypeKindArray:
		return "[" + strconv.FormatInt(t.Len, 10) + "]" + t.ElemType.String()
	case TypeKindVoid:
		return "void"
	case TypeKindInvalid:
		return "<invalid>"
	}

	if t.IsNamed() {
		return t.ID.String()
	}

	if t.GoType != nil {
		return t.GoType.String()
	}

	return "<" + t.Kind.String() + ">"
}

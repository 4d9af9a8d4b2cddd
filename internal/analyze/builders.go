package analyze

import (
	"go/token"
	"go/types"
	"reflect"
)

// Basic returns the TypeInfo of a predeclared basic type such as "int64".
// "byte" and "rune" are normalized to "uint8" and "int32".
func Basic(name string) *TypeInfo {
	switch name {
	case "byte":
		name = "uint8"
	case "rune":
		name = "int32"
	}

	info := &TypeInfo{ID: TypeID{Name: name}, Kind: TypeKindBasic}
	if obj := types.Universe.Lookup(name); obj != nil {
		if b, ok := obj.Type().(*types.Basic); ok {
			info.GoType = b
		}
	}

	return info
}

// External returns an opaque named type such as time.Time.
func External(pkgPath, name string) *TypeInfo {
	return &TypeInfo{ID: TypeID{PkgPath: pkgPath, Name: name}, Kind: TypeKindExternal}
}

// Time is time.Time.
func Time() *TypeInfo {
	return External("time", "Time")
}

// Bytes is []byte.
func Bytes() *TypeInfo {
	return SliceOf(Basic("byte"))
}

// PointerTo returns *elem.
func PointerTo(elem *TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: TypeKindPointer, ElemType: elem}
}

// SliceOf returns []elem.
func SliceOf(elem *TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: TypeKindSlice, ElemType: elem}
}

// ArrayOf returns [n]elem.
func ArrayOf(n int64, elem *TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: TypeKindArray, ElemType: elem, Len: n}
}

// NamedSlice returns a list-shaped named type "type name []elem".
func NamedSlice(id TypeID, elem *TypeInfo) *TypeInfo {
	return &TypeInfo{ID: id, Kind: TypeKindAlias, Underlying: SliceOf(elem)}
}

// Struct returns a named struct type with the given fields.
func Struct(id TypeID, fields ...FieldInfo) *TypeInfo {
	for i := range fields {
		fields[i].Index = i
	}

	return &TypeInfo{ID: id, Kind: TypeKindStruct, Fields: fields}
}

// Enum returns a named basic type with declared constants.
func Enum(id TypeID, underlying *TypeInfo, values ...string) *TypeInfo {
	return &TypeInfo{ID: id, Kind: TypeKindEnum, Underlying: underlying, EnumValues: values}
}

// Field builds an exported-aware FieldInfo; tag is the raw struct tag.
func Field(name string, t *TypeInfo, tag string) FieldInfo {
	return FieldInfo{
		Name:     name,
		Exported: token.IsExported(name),
		Type:     t,
		Tag:      reflect.StructTag(tag),
	}
}

// Void is the absence of a value.
func Void() *TypeInfo {
	return &TypeInfo{Kind: TypeKindVoid}
}

// Invalid is an unresolved type.
func Invalid() *TypeInfo {
	return &TypeInfo{Kind: TypeKindInvalid}
}

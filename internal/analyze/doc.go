// Package analyze provides package loading and the host type model.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build a canonical in-memory model of structs, their fields and methods.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/enum/pointer/slice/array/external/void/invalid)
//   - FieldInfo: describes field name, type, tags, and embedding
//   - MethodInfo: describes a method's arity and first result
//
// Types can also be assembled by hand with the constructors in builders.go,
// which is how declarations that never went through the loader are modeled.
package analyze

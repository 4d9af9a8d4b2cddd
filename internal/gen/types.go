package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"dao-generator/internal/analyze"
)

// typeFormatter renders analyzed types as Go type expressions. The first
// unsupported type is kept in err; later calls render a placeholder.
type typeFormatter struct {
	err error
}

func (f *typeFormatter) fail(t *analyze.TypeInfo) *jen.Statement {
	if f.err == nil {
		f.err = fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	return jen.Id("_")
}

// typ returns the type expression of t. Named types are package-qualified;
// jen drops the qualifier for the package being generated.
func (f *typeFormatter) typ(t *analyze.TypeInfo) *jen.Statement {
	if t == nil {
		return f.fail(analyze.Invalid())
	}

	switch t.Kind {
	case analyze.TypeKindBasic:
		if t.IsByte() {
			return jen.Byte()
		}

		return jen.Id(t.ID.Name)

	case analyze.TypeKindPointer:
		return jen.Op("*").Add(f.typ(t.ElemType))

	case analyze.TypeKindSlice:
		return jen.Index().Add(f.typ(t.ElemType))

	case analyze.TypeKindArray:
		return jen.Index(jen.Lit(int(t.Len))).Add(f.typ(t.ElemType))

	case analyze.TypeKindStruct, analyze.TypeKindAlias, analyze.TypeKindEnum, analyze.TypeKindExternal:
		if !t.IsNamed() {
			return f.fail(t)
		}

		if t.ID.PkgPath == "" {
			return jen.Id(t.ID.Name)
		}

		return jen.Qual(t.ID.PkgPath, t.ID.Name)

	default:
		return f.fail(t)
	}
}

// zero returns the zero value of t.
func (f *typeFormatter) zero(t *analyze.TypeInfo) *jen.Statement {
	if t == nil {
		return f.fail(analyze.Invalid())
	}

	switch t.Kind {
	case analyze.TypeKindPointer, analyze.TypeKindSlice:
		return jen.Nil()

	case analyze.TypeKindBasic:
		return zeroBasic(t.ID.Name)

	case analyze.TypeKindAlias, analyze.TypeKindEnum:
		if t.Underlying != nil && t.Underlying.Kind == analyze.TypeKindBasic {
			return f.typ(t).Call(zeroBasic(t.Underlying.ID.Name))
		}

		if t.Underlying != nil && t.Underlying.Kind == analyze.TypeKindSlice {
			return jen.Nil()
		}

		return f.typ(t).Values()

	default:
		return f.typ(t).Values()
	}
}

func zeroBasic(name string) *jen.Statement {
	switch name {
	case "string":
		return jen.Lit("")
	case "bool":
		return jen.False()
	default:
		return jen.Lit(0)
	}
}

// conversion wraps pointer types in parentheses so they can be used in a
// conversion.
func (f *typeFormatter) conversion(t *analyze.TypeInfo) *jen.Statement {
	if t != nil && t.Kind == analyze.TypeKindPointer {
		return jen.Parens(f.typ(t))
	}

	return f.typ(t)
}

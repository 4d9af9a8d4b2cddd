package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph *TypeGraph
	// seen maps every visited go/types type to its TypeInfo, so recursive
	// types share one node.
	seen   map[types.Type]*TypeInfo
	loaded map[string]bool
	enums  map[*types.TypeName][]string
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:  NewTypeGraph(),
		seen:   make(map[types.Type]*TypeInfo),
		loaded: make(map[string]bool),
		enums:  make(map[*types.TypeName][]string),
	}
}

// LoadPackages loads the packages matching patterns (e.g. "./store") and
// adds their exported types and functions to the graph. Types from other
// packages are opaque.
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: LoadMode}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		a.loaded[pkg.PkgPath] = true
		a.collectEnums(pkg.Types.Scope())
	}

	for _, pkg := range pkgs {
		a.declare(pkg)
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// collectEnums records, for every named basic type, the package-level
// constants declared with it.
func (a *Analyzer) collectEnums(scope *types.Scope) {
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}

		named, ok := types.Unalias(c.Type()).(*types.Named)
		if !ok {
			continue
		}

		if _, ok := named.Underlying().(*types.Basic); ok {
			a.enums[named.Obj()] = append(a.enums[named.Obj()], name)
		}
	}
}

// declare adds the exported type and function declarations of pkg.
func (a *Analyzer) declare(pkg *packages.Package) {
	if _, ok := a.graph.Packages[pkg.PkgPath]; !ok {
		a.graph.Packages[pkg.PkgPath] = &PackageInfo{Path: pkg.PkgPath, Name: pkg.Name}
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.TypeName:
			// Aliases share the node of the type they stand for.
			if obj.Exported() && !obj.IsAlias() {
				a.graph.Add(a.typeOf(obj.Type()))
			}

		case *types.Func:
			if obj.Exported() {
				a.graph.AddFunc(a.function(pkg.PkgPath, obj))
			}
		}
	}
}

func (a *Analyzer) function(pkgPath string, fn *types.Func) *FuncInfo {
	info := &FuncInfo{ID: TypeID{PkgPath: pkgPath, Name: fn.Name()}}

	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return info
	}

	for v := range sig.Params().Variables() {
		info.Params = append(info.Params, a.typeOf(v.Type()))
	}

	for v := range sig.Results().Variables() {
		info.Results = append(info.Results, a.typeOf(v.Type()))
	}

	return info
}

// typeOf converts a go/types type into a TypeInfo.
func (a *Analyzer) typeOf(t types.Type) *TypeInfo {
	t = types.Unalias(t)

	if info, ok := a.seen[t]; ok {
		return info
	}

	info := &TypeInfo{GoType: t}
	a.seen[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.named(tt, info)

	case *types.Basic:
		if tt.Kind() == types.Invalid {
			info.Kind = TypeKindInvalid
		} else {
			info.Kind = TypeKindBasic
			info.ID = Basic(tt.Name()).ID
		}

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.typeOf(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.typeOf(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.Len = tt.Len()
		info.ElemType = a.typeOf(tt.Elem())

	case *types.Struct:
		info.Kind = TypeKindStruct
		info.Fields = a.fields(tt)

	default:
		// Maps, interfaces, channels and funcs have no column shape.
		info.Kind = TypeKindUnknown
	}

	return info
}

func (a *Analyzer) named(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	if obj.Pkg() == nil {
		// Universe types such as error.
		info.ID = TypeID{Name: obj.Name()}
		info.Kind = TypeKindUnknown

		return
	}

	info.ID = TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}

	if !a.loaded[obj.Pkg().Path()] {
		// time.Time, dbrt.Cursor and other types of packages outside the
		// load set are known by name only.
		info.Kind = TypeKindExternal

		if basic, ok := named.Underlying().(*types.Basic); ok {
			info.Kind = TypeKindAlias
			info.Underlying = a.typeOf(basic)
		}

		return
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		info.Fields = a.fields(ut)

	case *types.Basic:
		info.Kind = TypeKindAlias
		info.Underlying = a.typeOf(ut)

		if values := a.enums[obj]; len(values) > 0 {
			info.Kind = TypeKindEnum
			info.EnumValues = values
		}

	default:
		info.Kind = TypeKindAlias
		info.Underlying = a.typeOf(ut)
	}

	info.Methods = a.methods(named)
}

// methods returns the exported methods declared on named.
func (a *Analyzer) methods(named *types.Named) []MethodInfo {
	var methods []MethodInfo

	for fn := range named.Methods() {
		sig, ok := fn.Type().(*types.Signature)
		if !ok || !fn.Exported() {
			continue
		}

		m := MethodInfo{Name: fn.Name(), NumParams: sig.Params().Len()}
		if sig.Results().Len() > 0 {
			m.Result = a.typeOf(sig.Results().At(0).Type())
		}

		methods = append(methods, m)
	}

	return methods
}

func (a *Analyzer) fields(st *types.Struct) []FieldInfo {
	fields := make([]FieldInfo, 0, st.NumFields())

	for i := range st.NumFields() {
		f := st.Field(i)

		fields = append(fields, FieldInfo{
			Name:     f.Name(),
			Exported: f.Exported(),
			Type:     a.typeOf(f.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: f.Embedded(),
			Index:    i,
		})
	}

	return fields
}

package daofile

import (
	"errors"
	"fmt"
	"strings"

	"dao-generator/internal/analyze"
	"dao-generator/internal/convert"
	"dao-generator/internal/diagnostic"
	"dao-generator/internal/ir"
	"dao-generator/internal/match"
	"dao-generator/internal/plan"
	"dao-generator/internal/schema"
	"dao-generator/primitive"
)

// Declarations is a declaration file resolved against a type graph.
type Declarations struct {
	Package string
	Output  string
	DAOs    []plan.DAO
}

// Resolve resolves every type of f against graph, registers entity tables
// and routines with resolver and returns the planner input.
func Resolve(f *File, graph *analyze.TypeGraph, resolver *convert.Resolver) (*Declarations, *diagnostic.Diagnostics) {
	r := &fileResolver{graph: graph, names: TypeNames(graph), res: &diagnostic.Diagnostics{}}

	tables := make(map[string]*schema.Table, len(f.Tables))
	for _, t := range f.Tables {
		tables[t.Name] = toTable(t)
	}

	for _, e := range f.Entities {
		r.entity(e, tables, resolver)
	}

	decl := &Declarations{Package: f.Package, Output: f.Output}

	writeTx := f.Defaults.WriteTransaction == nil || *f.Defaults.WriteTransaction

	for _, d := range f.DAOs {
		dao := plan.DAO{Name: d.Name}

		for _, m := range d.Methods {
			dao.Methods = append(dao.Methods, r.method(d.Name, m, writeTx))
		}

		decl.DAOs = append(decl.DAOs, dao)
	}

	return decl, r.res
}

type fileResolver struct {
	graph *analyze.TypeGraph
	names []string
	res   *diagnostic.Diagnostics
}

func (r *fileResolver) typ(expr, label, subject string) *analyze.TypeInfo {
	t, err := ResolveType(expr, r.graph)
	if err == nil {
		return t
	}

	var unknown *UnknownTypeError
	if errors.As(err, &unknown) {
		var suggestions []string
		if hint := match.Suggest(unknown.Name, r.names); hint != "" {
			suggestions = append(suggestions, hint)
		}

		r.res.AddError(diagnostic.CodeType, err.Error(), label, subject, suggestions...)
	} else {
		r.res.AddError(diagnostic.CodeType, err.Error(), label, subject)
	}

	return analyze.Invalid()
}

func (r *fileResolver) entity(e Entity, tables map[string]*schema.Table, resolver *convert.Resolver) {
	t := r.typ(e.Type, "", e.Type)
	if t.Kind == analyze.TypeKindInvalid {
		return
	}

	if !t.IsNamed() {
		r.res.AddError(diagnostic.CodeType, fmt.Sprintf("entity type %s is not a named type", t), "", e.Type)
		return
	}

	if e.Table != "" {
		if t.Kind != analyze.TypeKindStruct {
			r.res.AddError(diagnostic.CodeType, fmt.Sprintf("entity type %s is not a struct", t), "", e.Type)
			return
		}

		if table, ok := tables[e.Table]; ok {
			resolver.Tables[t.ID] = table
		}
	}

	if e.Routine != "" {
		dot := strings.LastIndex(e.Routine, ".")
		if dot <= 0 {
			r.res.AddError(diagnostic.CodeType, fmt.Sprintf("routine %q is not of the form pkg.Func", e.Routine), "", e.Type)
			return
		}

		pkgPath, ok := ResolvePackage(e.Routine[:dot], r.graph)
		if !ok {
			r.res.AddError(diagnostic.CodeType, fmt.Sprintf("package of routine %q is not loaded", e.Routine), "", e.Type)
			return
		}

		fn := r.graph.GetFunc(analyze.TypeID{PkgPath: pkgPath, Name: e.Routine[dot+1:]})
		if fn == nil {
			r.res.AddError(diagnostic.CodeType, fmt.Sprintf("routine %q not found", e.Routine), "", e.Type)
			return
		}

		if !isRowRoutine(fn, t) {
			r.res.AddError(diagnostic.CodeType,
				fmt.Sprintf("routine %q is not a func(*dbrt.Cursor) (%s, error)", e.Routine, t), "", e.Type)

			return
		}

		resolver.Routines[t.ID] = convert.Routine{PkgPath: pkgPath, Name: fn.ID.Name}
	}
}

// isRowRoutine reports whether fn materializes a t from a cursor row.
func isRowRoutine(fn *analyze.FuncInfo, t *analyze.TypeInfo) bool {
	return len(fn.Params) == 1 && ir.CursorType().Equal(fn.Params[0]) &&
		len(fn.Results) == 2 && t.Equal(fn.Results[0]) &&
		fn.Results[1].ID == analyze.TypeID{Name: "error"}
}

func (r *fileResolver) method(dao string, m Method, writeTx bool) plan.Method {
	label := dao + "." + m.Name

	pm := plan.Method{
		Name:     m.Name,
		Result:   r.typ(m.Returns, label, m.Returns),
		Query:    m.Query,
		Delegate: m.Delegate,
	}

	for _, p := range m.Params {
		kind, _ := primitive.ParseDataKind(p.Kind)
		pm.Params = append(pm.Params, plan.Param{
			Name: p.Name,
			Type: r.typ(p.Type, label, p.Name),
			Kind: kind,
		})
	}

	switch {
	case m.Transaction != nil:
		pm.Transaction = *m.Transaction
	case m.Query != "":
		kind := plan.Classify(m.Query)
		pm.Transaction = writeTx && (kind == plan.KindUpdateDelete || kind == plan.KindInsert)
	}

	return pm
}

func toTable(t Table) *schema.Table {
	table := &schema.Table{Name: t.Name}

	for _, c := range t.Columns {
		kind, _ := primitive.ParseDataKind(c.Kind)
		table.Columns = append(table.Columns, schema.Column{
			Name:    c.Name,
			Kind:    kind,
			NotNull: c.NotNull,
			Default: c.Default,
		})
	}

	return table
}

package daofile

import (
	"fmt"
	"go/token"

	"dao-generator/internal/diagnostic"
	"dao-generator/primitive"
)

// Validate checks the structure of a declaration file. Types are checked
// later, by Resolve, against the loaded type graph.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeDeclaration, "declaration file is nil", "", "")
		return res
	}

	if f.Version != DefaultVersion {
		res.AddError(diagnostic.CodeDeclaration, fmt.Sprintf("unsupported version %q", f.Version), "", f.Version)
	}

	if !token.IsIdentifier(f.Package) {
		res.AddError(diagnostic.CodeDeclaration, fmt.Sprintf("package %q is not a Go identifier", f.Package), "", f.Package)
	}

	if len(f.Load) == 0 {
		res.AddWarning(diagnostic.CodeDeclaration, "no packages to load; only predeclared types resolve", "", "")
	}

	tables := validateTables(res, f.Tables)
	validateEntities(res, f.Entities, tables)

	daos := make(map[string]bool, len(f.DAOs))
	for i := range f.DAOs {
		dao := &f.DAOs[i]

		switch {
		case !token.IsExported(dao.Name) || !token.IsIdentifier(dao.Name):
			res.AddError(diagnostic.CodeDeclaration,
				fmt.Sprintf("DAO name %q is not an exported Go identifier", dao.Name), dao.Name, "")
		case daos[dao.Name]:
			res.AddError(diagnostic.CodeDeclaration, fmt.Sprintf("duplicate DAO %q", dao.Name), dao.Name, "")
		}

		daos[dao.Name] = true

		validateMethods(res, dao)
	}

	return res
}

func validateTables(res *diagnostic.Diagnostics, tables []Table) map[string]bool {
	seen := make(map[string]bool, len(tables))

	for _, t := range tables {
		if seen[t.Name] {
			res.AddError(diagnostic.CodeDeclaration, fmt.Sprintf("duplicate table %q", t.Name), "", t.Name)
		}

		seen[t.Name] = true

		columns := make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			if columns[c.Name] {
				res.AddError(diagnostic.CodeDeclaration,
					fmt.Sprintf("duplicate column %q in table %q", c.Name, t.Name), "", t.Name+"."+c.Name)
			}

			columns[c.Name] = true

			if _, err := primitive.ParseDataKind(c.Kind); err != nil {
				res.AddError(diagnostic.CodeDeclaration, err.Error(), "", t.Name+"."+c.Name)
			}
		}
	}

	return seen
}

func validateEntities(res *diagnostic.Diagnostics, entities []Entity, tables map[string]bool) {
	for _, e := range entities {
		switch {
		case e.Type == "":
			res.AddError(diagnostic.CodeDeclaration, "entity without type", "", "")
		case (e.Table == "") == (e.Routine == ""):
			res.AddError(diagnostic.CodeDeclaration, "entity needs exactly one of table or routine", "", e.Type)
		case e.Table != "" && !tables[e.Table]:
			res.AddError(diagnostic.CodeDeclaration, fmt.Sprintf("unknown table %q", e.Table), "", e.Type)
		}
	}
}

func validateMethods(res *diagnostic.Diagnostics, dao *DAO) {
	seen := make(map[string]bool, len(dao.Methods))

	for _, m := range dao.Methods {
		label := dao.Name + "." + m.Name

		switch {
		case !token.IsExported(m.Name) || !token.IsIdentifier(m.Name):
			res.AddError(diagnostic.CodeDeclaration,
				fmt.Sprintf("method name %q is not an exported Go identifier", m.Name), label, "")
		case seen[m.Name]:
			res.AddError(diagnostic.CodeDeclaration, fmt.Sprintf("duplicate method %q", m.Name), label, "")
		}

		seen[m.Name] = true

		if (m.Query == "") == (m.Delegate == "") {
			res.AddError(diagnostic.CodeDeclaration, "method needs exactly one of query or delegate", label, "")
		}

		for _, p := range m.Params {
			if !token.IsIdentifier(p.Name) {
				res.AddError(diagnostic.CodeDeclaration,
					fmt.Sprintf("parameter name %q is not a Go identifier", p.Name), label, p.Name)
			}

			if _, err := primitive.ParseDataKind(p.Kind); err != nil {
				res.AddError(diagnostic.CodeDeclaration, err.Error(), label, p.Name)
			}
		}
	}
}

package daofile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"dao-generator/internal/analyze"
	"dao-generator/internal/common"
)

var basicNames = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true,
}

// UnknownTypeError reports a named type missing from the type graph.
type UnknownTypeError struct {
	Expr string
	Name string
}

func (e *UnknownTypeError) Error() string {
	if e.Expr == e.Name {
		return fmt.Sprintf("type %q not found", e.Name)
	}

	return fmt.Sprintf("type %q not found in %q", e.Name, e.Expr)
}

// ResolveType resolves a type expression against graph. The empty
// expression is the absence of a value.
func ResolveType(expr string, graph *analyze.TypeGraph) (*analyze.TypeInfo, error) {
	return resolveType(expr, strings.TrimSpace(expr), graph)
}

func resolveType(expr, s string, graph *analyze.TypeGraph) (*analyze.TypeInfo, error) {
	switch {
	case s == "":
		if expr == s {
			return analyze.Void(), nil
		}

		return nil, fmt.Errorf("type %q: missing element type", expr)

	case strings.HasPrefix(s, "*"):
		elem, err := resolveType(expr, s[1:], graph)
		if err != nil {
			return nil, err
		}

		return analyze.PointerTo(elem), nil

	case strings.HasPrefix(s, "[]"):
		elem, err := resolveType(expr, s[2:], graph)
		if err != nil {
			return nil, err
		}

		return analyze.SliceOf(elem), nil

	case strings.HasPrefix(s, "["):
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, fmt.Errorf("type %q: unterminated array length", expr)
		}

		n, err := strconv.ParseInt(s[1:end], 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("type %q: invalid array length %q", expr, s[1:end])
		}

		elem, err := resolveType(expr, s[end+1:], graph)
		if err != nil {
			return nil, err
		}

		return analyze.ArrayOf(n, elem), nil
	}

	if basicNames[s] {
		return analyze.Basic(s), nil
	}

	if t := ResolveTypeID(s, graph); t != nil {
		return t, nil
	}

	if s == "time.Time" {
		return analyze.Time(), nil
	}

	return nil, &UnknownTypeError{Expr: expr, Name: s}
}

// ResolveTypeID resolves a type ID string like:
// - "store.User" (short)
// - "dao-generator/store.User" (full)
// - "User" (name only, when unambiguous).
func ResolveTypeID(typeIDStr string, graph *analyze.TypeGraph) *analyze.TypeInfo {
	if graph == nil || typeIDStr == "" {
		return nil
	}

	lastDot := strings.LastIndex(typeIDStr, ".")
	if lastDot < 0 {
		var found *analyze.TypeInfo

		for id, t := range graph.Types {
			if id.Name != typeIDStr {
				continue
			}

			if found != nil {
				return nil
			}

			found = t
		}

		return found
	}

	pkgStr := typeIDStr[:lastDot]

	name := typeIDStr[lastDot+1:]
	if pkgStr == "" || name == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := graph.GetType(analyze.TypeID{PkgPath: pkgStr, Name: name}); t != nil {
		return t
	}

	// 2) suffix match (for short forms like "store.User" vs "dao-generator/store.User")
	for id, t := range graph.Types {
		if id.Name != name {
			continue
		}

		if strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			return t
		}
	}

	return nil
}

// ResolvePackage resolves a short or full package reference to the import
// path of a loaded package.
func ResolvePackage(pkgStr string, graph *analyze.TypeGraph) (string, bool) {
	if graph == nil {
		return "", false
	}

	if _, ok := graph.Packages[pkgStr]; ok {
		return pkgStr, true
	}

	for path := range graph.Packages {
		if strings.HasSuffix(path, "/"+pkgStr) {
			return path, true
		}
	}

	return "", false
}

// TypeNames returns the short names ("pkg.Name") of every graph type,
// sorted, for suggestions.
func TypeNames(graph *analyze.TypeGraph) []string {
	if graph == nil {
		return nil
	}

	names := make([]string, 0, len(graph.Types))
	for id := range graph.Types {
		names = append(names, common.PkgAlias(id.PkgPath)+"."+id.Name)
	}

	sort.Strings(names)

	return names
}

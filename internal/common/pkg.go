package common

import "path"

// PkgAlias is the name generated code refers to an import by: the last
// element of pkgPath, so "dao-generator/dbrt" is "dbrt". An empty path has
// no alias.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

package primitive

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=DataKind -linecomment -output=datakind_string.go

// DataKind is the storage class of a column. It disambiguates bindings when
// one host type can be stored in more than one way.
type DataKind int

const (
	DataKindAny     DataKind = iota // any
	DataKindInteger                 // integer
	DataKindReal                    // real
	DataKindText                    // text
	DataKindBlob                    // blob
)

// ParseDataKind accepts the lowercase names as well as the common SQL type
// spellings that map onto a storage class.
func ParseDataKind(s string) (DataKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return DataKindAny, nil
	case "integer", "int", "bigint", "smallint", "boolean", "bool":
		return DataKindInteger, nil
	case "real", "float", "double", "numeric":
		return DataKindReal, nil
	case "text", "varchar", "char", "clob", "string":
		return DataKindText, nil
	case "blob", "bytes", "binary":
		return DataKindBlob, nil
	default:
		return DataKindAny, fmt.Errorf("unknown data kind %q", s)
	}
}

// Accepts reports whether a binding stored as k satisfies a lookup filtered by want.
func (k DataKind) Accepts(want DataKind) bool {
	return want == DataKindAny || k == want
}

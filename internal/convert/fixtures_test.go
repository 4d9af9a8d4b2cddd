package convert

import (
	"dao-generator/internal/analyze"
	"dao-generator/internal/registry"
	"dao-generator/internal/schema"
	"dao-generator/primitive"
)

const pkg = "example/store"

var (
	address = analyze.Struct(analyze.TypeID{PkgPath: pkg, Name: "Address"},
		analyze.Field("Street", analyze.Basic("string"), `db:"street"`),
		analyze.Field("City", analyze.Basic("string"), `db:"city"`),
	)

	status = analyze.Enum(analyze.TypeID{PkgPath: pkg, Name: "Status"}, analyze.Basic("int"), "StatusActive")

	user = analyze.Struct(analyze.TypeID{PkgPath: pkg, Name: "User"},
		analyze.Field("ID", analyze.Basic("int64"), `db:"id"`),
		analyze.Field("Email", analyze.Basic("string"), `db:"email"`),
		analyze.Field("Status", status, `db:"status"`),
		analyze.Field("Score", analyze.PointerTo(analyze.Basic("float64")), `db:"score"`),
		analyze.Field("Home", address, `db:",prefix=home_"`),
		analyze.Field("Secret", analyze.Basic("string"), `db:"-"`),
		analyze.Field("note", analyze.Basic("string"), ""),
	)

	users = analyze.NamedSlice(analyze.TypeID{PkgPath: pkg, Name: "Users"}, user)

	usersTable = &schema.Table{Name: "users", Columns: []schema.Column{
		{Name: "id", Kind: primitive.DataKindInteger, NotNull: true},
		{Name: "email", Kind: primitive.DataKindText, Default: "'nobody'"},
		{Name: "status", Kind: primitive.DataKindInteger, Default: "1"},
		{Name: "score", Kind: primitive.DataKindReal},
		{Name: "home_street", Kind: primitive.DataKindText},
		{Name: "home_city", Kind: primitive.DataKindText},
	}}
)

func newResolver() *Resolver {
	r := NewResolver(registry.Default())
	r.Tables[user.ID] = usersTable

	return r
}

package daofile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dao-generator/internal/diagnostic"
)

func TestValidate_Sample(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	res := Validate(f)
	assert.False(t, res.HasErrors(), res.Error())
	assert.Empty(t, res.Warnings)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{"version", `version: "2"`, "unsupported version"},
		{"package", `package: my-dao`, "is not a Go identifier"},
		{"duplicate table", `tables: [{name: t}, {name: t}]`, "duplicate table"},
		{"column kind", `tables: [{name: t, columns: [{name: c, kind: money}]}]`, "unknown data kind"},
		{"entity both", `entities: [{type: store.User, table: t, routine: store.Scan}]`, "exactly one of table or routine"},
		{"entity table", `entities: [{type: store.User, table: nope}]`, "unknown table"},
		{"dao name", `daos: [{name: userDAO}]`, "not an exported Go identifier"},
		{"duplicate dao", `daos: [{name: A}, {name: A}]`, "duplicate DAO"},
		{"method body", `daos: [{name: A, methods: [{name: M}]}]`, "exactly one of query or delegate"},
		{"duplicate method", `daos: [{name: A, methods: [{name: M, query: x}, {name: M, query: y}]}]`, "duplicate method"},
		{"param name", `daos: [{name: A, methods: [{name: M, query: x, params: [{"a-b": int}]}]}]`, "not a Go identifier"},
		{"param kind", `daos: [{name: A, methods: [{name: M, query: x, params: [{name: a, type: int, kind: nope}]}]}]`, "unknown data kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte("load: [x]\n" + tt.yaml))
			require.NoError(t, err)

			res := Validate(f)
			require.True(t, res.HasErrors())
			assert.Equal(t, diagnostic.CodeDeclaration, res.Errors[0].Code)
			assert.Contains(t, res.Errors[0].Message, tt.message)
		})
	}
}

func TestValidate_NoLoadWarns(t *testing.T) {
	f, err := Parse([]byte("daos: []"))
	require.NoError(t, err)

	res := Validate(f)
	assert.False(t, res.HasErrors())
	assert.Len(t, res.Warnings, 1)
}

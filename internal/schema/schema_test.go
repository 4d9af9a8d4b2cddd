package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dao-generator/primitive"
)

func TestTable_Column(t *testing.T) {
	tbl := &Table{Name: "users", Columns: []Column{
		{Name: "id", Kind: primitive.DataKindInteger, NotNull: true},
		{Name: "Email", Kind: primitive.DataKindText},
	}}

	c, ok := tbl.Column("email")
	assert.True(t, ok)
	assert.Equal(t, primitive.DataKindText, c.Kind)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)

	var nilTable *Table
	_, ok = nilTable.Column("id")
	assert.False(t, ok)
}

func TestColumn_DefaultValue(t *testing.T) {
	tests := []struct {
		name   string
		def    string
		kind   primitive.KindEnum
		want   any
		wantOK bool
	}{
		{"no default", "", primitive.KindInt64, nil, false},
		{"null default", "NULL", primitive.KindString, nil, false},
		{"integer", "42", primitive.KindInt32, int64(42), true},
		{"parenthesized", "(7)", primitive.KindInt64, int64(7), true},
		{"float", "0.5", primitive.KindFloat64, 0.5, true},
		{"text", "'it''s'", primitive.KindString, "it's", true},
		{"unquoted text", "abc", primitive.KindString, nil, false},
		{"bool", "1", primitive.KindBool, true, true},
		{"bad integer", "'x'", primitive.KindInt64, nil, false},
		{"unsupported kind", "'2020-01-01'", primitive.KindTime, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Column{Name: "c", Default: tt.def}.DefaultValue(tt.kind)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

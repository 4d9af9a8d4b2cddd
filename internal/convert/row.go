package convert

import (
	"fmt"

	"dao-generator/internal/analyze"
	"dao-generator/internal/common"
	"dao-generator/internal/ir"
	"dao-generator/internal/registry"
	"dao-generator/internal/schema"
	"dao-generator/internal/scope"
	"dao-generator/primitive"
)

// RowConverter produces one value from the current cursor row.
//
// Prepare runs once per query before the row loop, ConvertOne once per row
// and Finish once after the loop.
type RowConverter interface {
	Type() *analyze.TypeInfo
	Prepare(s *scope.Scope, q *scope.QueryContext) error
	ConvertOne(s *scope.Scope, q *scope.QueryContext) error
	Finish(s *scope.Scope, q *scope.QueryContext) error

	sealed()
}

// SingleColumn reads the first column of the row.
type SingleColumn struct {
	typ    *analyze.TypeInfo
	Reader registry.Reader
}

func (c *SingleColumn) Type() *analyze.TypeInfo { return c.typ }

func (c *SingleColumn) Prepare(*scope.Scope, *scope.QueryContext) error { return nil }

func (c *SingleColumn) ConvertOne(s *scope.Scope, q *scope.QueryContext) error {
	cursor, out, err := handles(q)
	if err != nil {
		return err
	}

	c.Reader.Read(s, cursor, ir.Int(0), out)

	return nil
}

func (c *SingleColumn) Finish(*scope.Scope, *scope.QueryContext) error { return nil }

// TableRow delegates the row to a registered routine.
type TableRow struct {
	typ     *analyze.TypeInfo
	Routine Routine
}

func (c *TableRow) Type() *analyze.TypeInfo { return c.typ }

func (c *TableRow) Prepare(*scope.Scope, *scope.QueryContext) error { return nil }

func (c *TableRow) ConvertOne(s *scope.Scope, q *scope.QueryContext) error {
	cursor, out, err := handles(q)
	if err != nil {
		return err
	}

	s.Emit(ir.Assign{LHS: out, Value: ir.Call{
		Pkg:      c.Routine.PkgPath,
		Name:     c.Routine.Name,
		Args:     []ir.Expr{cursor},
		Fallible: true,
	}})

	return nil
}

func (c *TableRow) Finish(*scope.Scope, *scope.QueryContext) error { return nil }

// Entity fills a struct member by member. Column positions are looked up by
// name once in Prepare; a column missing from the result leaves the member
// at its zero value or the column default declared by the schema.
type Entity struct {
	typ      *analyze.TypeInfo
	members  []*member
	prepared bool
}

type member struct {
	field  *analyze.FieldInfo
	column string
	reader registry.Reader
	nested *Entity
	def    *schema.Column
	index  string
}

func (c *Entity) Type() *analyze.TypeInfo { return c.typ }

// Columns returns the column names the entity reads, nested ones included.
func (c *Entity) Columns() []string {
	var cols []string

	for _, m := range c.members {
		if m.nested != nil {
			cols = append(cols, m.nested.Columns()...)
			continue
		}

		cols = append(cols, m.column)
	}

	return cols
}

func (c *Entity) Prepare(s *scope.Scope, q *scope.QueryContext) error {
	cursor, err := q.Cursor()
	if err != nil {
		return err
	}

	c.prepare(s, ir.Id(cursor))

	return nil
}

func (c *Entity) prepare(s *scope.Scope, cursor ir.Expr) {
	for _, m := range c.members {
		if m.nested != nil {
			m.nested.prepare(s, cursor)
			continue
		}

		m.index = s.TmpVar("_cursorIndexOf" + common.Camel(m.column))
		s.Emit(ir.Declare{
			Name:  m.index,
			Type:  analyze.Basic("int"),
			Value: ir.Method(cursor, ir.ColumnIndex, ir.Str(m.column)),
		})
	}

	c.prepared = true
}

func (c *Entity) ConvertOne(s *scope.Scope, q *scope.QueryContext) error {
	if !c.prepared {
		return fmt.Errorf("%s: %w", c.typ, ErrNotPrepared)
	}

	cursor, out, err := handles(q)
	if err != nil {
		return err
	}

	c.fill(s, cursor, out)

	return nil
}

func (c *Entity) fill(s *scope.Scope, cursor, target ir.Expr) {
	if c.typ.Kind == analyze.TypeKindPointer {
		s.Emit(ir.Assign{LHS: target, Value: ir.AddrOf{X: ir.Composite{Type: c.typ.ElemType}}})
	} else {
		s.Emit(ir.Assign{LHS: target, Value: ir.Composite{Type: c.typ}})
	}

	for _, m := range c.members {
		dst := ir.Select{X: target, Field: m.field.Name}

		if m.nested != nil {
			m.nested.fill(s, cursor, dst)
			continue
		}

		read := s.Fork()
		m.reader.Read(read, cursor, ir.Id(m.index), dst)

		var fallback []ir.Stmt
		if v, ok := defaultValue(m); ok {
			fallback = []ir.Stmt{ir.Assign{LHS: dst, Value: v}}
		}

		s.Emit(ir.If{
			Cond: ir.Binary{Op: ">=", X: ir.Id(m.index), Y: ir.Int(0)},
			Then: read.Body(),
			Else: fallback,
		})
	}
}

func (c *Entity) Finish(*scope.Scope, *scope.QueryContext) error { return nil }

func (*SingleColumn) sealed() {}
func (*TableRow) sealed()     {}
func (*Entity) sealed()       {}

// defaultValue builds the schema default of a member as a constant of the
// member type.
func defaultValue(m *member) (ir.Expr, bool) {
	if m.def == nil {
		return nil, false
	}

	t := m.field.Type
	base := t
	if t.Kind == analyze.TypeKindAlias || t.Kind == analyze.TypeKindEnum {
		base = t.Underlying
	}

	if base == nil || base.Kind != analyze.TypeKindBasic {
		return nil, false
	}

	v, ok := m.def.DefaultValue(primitive.FromName(base.ID.Name))
	if !ok {
		return nil, false
	}

	if t != base {
		return ir.Convert{Type: t, X: ir.Lit{Value: v}}, true
	}

	return ir.Lit{Value: v}, true
}

func handles(q *scope.QueryContext) (cursor, out ir.Expr, err error) {
	c, err := q.Cursor()
	if err != nil {
		return nil, nil, err
	}

	o, err := q.Output()
	if err != nil {
		return nil, nil, err
	}

	return ir.Id(c), ir.Id(o), nil
}

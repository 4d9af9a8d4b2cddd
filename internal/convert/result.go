package convert

import (
	"dao-generator/internal/analyze"
	"dao-generator/internal/ir"
	"dao-generator/internal/scope"
)

// ResultConverter converts a whole cursor into the output local of the query
// context. The output local must already be declared.
type ResultConverter interface {
	Type() *analyze.TypeInfo
	Row() RowConverter
	Convert(s *scope.Scope, q *scope.QueryContext) error

	sealed()
}

// Single converts the first row, or assigns the zero value when there is none.
type Single struct {
	typ *analyze.TypeInfo
	row RowConverter
}

// List appends every row to a named list type.
type List struct {
	typ *analyze.TypeInfo
	row RowConverter
}

// Array sizes a slice by the row count and fills it slot by slot.
type Array struct {
	typ *analyze.TypeInfo
	row RowConverter
}

func (c *Single) Type() *analyze.TypeInfo { return c.typ }
func (c *Single) Row() RowConverter       { return c.row }

func (c *Single) Convert(s *scope.Scope, q *scope.QueryContext) error {
	cursor, out, err := handles(q)
	if err != nil {
		return err
	}

	if err := c.row.Prepare(s, q); err != nil {
		return err
	}

	first := s.Fork()
	if err := c.row.ConvertOne(first, q); err != nil {
		return err
	}

	s.Emit(ir.If{
		Cond: ir.Method(cursor, ir.MoveToFirst),
		Then: first.Body(),
		Else: []ir.Stmt{ir.Assign{LHS: out, Value: ir.Zero{Type: c.typ}}},
	})

	return c.row.Finish(s, q)
}

func (c *List) Type() *analyze.TypeInfo { return c.typ }
func (c *List) Row() RowConverter       { return c.row }

func (c *List) Convert(s *scope.Scope, q *scope.QueryContext) error {
	cursor, out, err := handles(q)
	if err != nil {
		return err
	}

	s.Emit(ir.Assign{LHS: out, Value: ir.Composite{Type: c.typ}})

	if err := c.row.Prepare(s, q); err != nil {
		return err
	}

	body, item := itemScope(s, c.row.Type())
	if err := c.row.ConvertOne(body, q.Fork("", item)); err != nil {
		return err
	}

	body.Emit(ir.Assign{LHS: out, Value: ir.Append{Slice: out, Elem: ir.Id(item)}})
	s.Emit(ir.While{Cond: ir.Method(cursor, ir.MoveToNext), Body: body.Body()})

	return c.row.Finish(s, q)
}

func (c *Array) Type() *analyze.TypeInfo { return c.typ }
func (c *Array) Row() RowConverter       { return c.row }

func (c *Array) Convert(s *scope.Scope, q *scope.QueryContext) error {
	cursor, out, err := handles(q)
	if err != nil {
		return err
	}

	if err := c.row.Prepare(s, q); err != nil {
		return err
	}

	count := s.TmpVar("_count")
	s.Emit(
		ir.Declare{Name: count, Type: analyze.Basic("int"), Value: ir.Int(0)},
		ir.If{
			Cond: ir.Method(cursor, ir.MoveToLast),
			Then: []ir.Stmt{ir.Assign{
				LHS:   ir.Id(count),
				Value: ir.Binary{Op: "+", X: ir.Method(cursor, ir.Position), Y: ir.Int(1)},
			}},
		},
		ir.Do{Call: ir.Method(cursor, ir.MoveToPosition, ir.Int(-1))},
		ir.Assign{LHS: out, Value: ir.MakeSlice{Type: c.typ, Len: ir.Id(count)}},
	)

	index := s.TmpVar("_index")
	s.Emit(ir.Declare{Name: index, Type: analyze.Basic("int"), Value: ir.Int(0)})

	body, item := itemScope(s, c.row.Type())
	if err := c.row.ConvertOne(body, q.Fork("", item)); err != nil {
		return err
	}

	body.Emit(
		ir.Assign{LHS: ir.Index{X: out, Index: ir.Id(index)}, Value: ir.Id(item)},
		ir.Inc{Name: index},
	)
	s.Emit(ir.While{Cond: ir.Method(cursor, ir.MoveToNext), Body: body.Body()})

	return c.row.Finish(s, q)
}

func (*Single) sealed() {}
func (*List) sealed()   {}
func (*Array) sealed()  {}

func itemScope(s *scope.Scope, elem *analyze.TypeInfo) (*scope.Scope, string) {
	item := s.TmpVar("_item")
	body := s.Fork()
	body.Emit(ir.Declare{Name: item, Type: elem})

	return body, item
}

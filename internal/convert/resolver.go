package convert

import (
	"errors"
	"fmt"

	"dao-generator/internal/analyze"
	"dao-generator/internal/registry"
	"dao-generator/internal/schema"
	"dao-generator/primitive"
)

var (
	// ErrNoConverter is returned when no row shape applies to a type.
	ErrNoConverter = errors.New("no converter")
	// ErrCycle is returned when a structural type contains itself.
	ErrCycle = errors.New("structural cycle")
	// ErrNotPrepared is returned when ConvertOne runs before Prepare.
	ErrNotPrepared = errors.New("converter not prepared")
)

// Routine names a function materializing one row:
// func(*dbrt.Cursor) (T, error).
type Routine struct {
	PkgPath string
	Name    string
}

// Resolver picks row and result converters.
type Resolver struct {
	Registry *registry.Registry
	// Tables maps entity types to their schema table, used for column data
	// kinds and defaults.
	Tables map[analyze.TypeID]*schema.Table
	// Routines maps types to their row-materialization routines.
	Routines map[analyze.TypeID]Routine
}

// NewResolver returns a resolver over reg without schema information.
func NewResolver(reg *registry.Registry) *Resolver {
	return &Resolver{
		Registry: reg,
		Tables:   make(map[analyze.TypeID]*schema.Table),
		Routines: make(map[analyze.TypeID]Routine),
	}
}

// ResolveRow picks the row converter for t: a column reader, then a
// registered routine, then the entity shape of a struct.
func (r *Resolver) ResolveRow(t *analyze.TypeInfo) (RowConverter, error) {
	if t == nil || t.Kind == analyze.TypeKindInvalid {
		return nil, fmt.Errorf("%w for unresolved type", ErrNoConverter)
	}

	if reader := r.Registry.FindReaderType(t); reader != nil {
		return &SingleColumn{typ: t, Reader: reader}, nil
	}

	if routine, ok := r.Routines[t.ID]; ok && t.IsNamed() {
		return &TableRow{typ: t, Routine: routine}, nil
	}

	if st := t.Struct(); st != nil {
		return r.entity(t, "", r.Tables[st.ID], make(map[analyze.TypeID]bool))
	}

	return nil, fmt.Errorf("%w for %s", ErrNoConverter, t)
}

// ResolveResult picks the result converter for a method returning t.
func (r *Resolver) ResolveResult(t *analyze.TypeInfo) (ResultConverter, error) {
	switch {
	case t == nil:
		return nil, fmt.Errorf("%w for unresolved type", ErrNoConverter)

	case t.Kind == analyze.TypeKindSlice && !t.ElemType.IsByte():
		row, err := r.ResolveRow(t.ElemType)
		if err != nil {
			return nil, err
		}

		return &Array{typ: t, row: row}, nil

	case t.IsListShaped():
		row, err := r.ResolveRow(t.Elem())
		if err != nil {
			return nil, err
		}

		return &List{typ: t, row: row}, nil

	case t.Kind == analyze.TypeKindArray && !t.ElemType.IsByte():
		return nil, fmt.Errorf("%w for fixed-length array %s", ErrNoConverter, t)

	default:
		row, err := r.ResolveRow(t)
		if err != nil {
			return nil, err
		}

		return &Single{typ: t, row: row}, nil
	}
}

func (r *Resolver) entity(
	t *analyze.TypeInfo,
	prefix string,
	table *schema.Table,
	visiting map[analyze.TypeID]bool,
) (*Entity, error) {
	st := t.Struct()
	if visiting[st.ID] {
		return nil, fmt.Errorf("%w through %s", ErrCycle, st.ID)
	}

	visiting[st.ID] = true
	defer delete(visiting, st.ID)

	e := &Entity{typ: t}

	for i := range st.Fields {
		field := &st.Fields[i]
		if !field.IsPersisted() {
			continue
		}

		name := prefix + field.ColumnName()
		col, known := table.Column(name)

		kind := primitive.DataKindAny
		if known {
			kind = col.Kind
		}

		if reader := r.Registry.FindReaderTypeOf(field.Type, kind); reader != nil {
			m := &member{field: field, column: name, reader: reader}
			if known && col.HasDefault() {
				m.def = &col
			}

			e.members = append(e.members, m)

			continue
		}

		if field.Type.Struct() != nil && !field.Type.IsListShaped() {
			nested, err := r.entity(field.Type, prefix+field.DB().Prefix, table, visiting)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", st.ID.Name, field.Name, err)
			}

			e.members = append(e.members, &member{field: field, column: name, nested: nested})

			continue
		}

		return nil, fmt.Errorf("%w for field %s.%s (%s, column %q as %s)",
			ErrNoConverter, st.ID.Name, field.Name, field.Type, name, kind)
	}

	return e, nil
}

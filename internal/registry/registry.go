package registry

import (
	"errors"
	"fmt"
	"sync"

	"dao-generator/internal/analyze"
	"dao-generator/internal/ir"
	"dao-generator/primitive"
)

// ErrDuplicate is returned when two entries share a type and data kind.
var ErrDuplicate = errors.New("duplicate binding")

// Entry is one scalar binding record.
type Entry struct {
	// Type is the declared host type.
	Type *analyze.TypeInfo
	// DataKind is the storage class the value is kept in.
	DataKind primitive.DataKind
	// Wire is the type the runtime getter returns and the setter accepts.
	Wire *analyze.TypeInfo
	// Getter is the cursor method reading a column.
	Getter string
	// Setter is the statement method binding a placeholder.
	Setter string
	// Fallible marks getters returning an error.
	Fallible bool
}

// Registry is an immutable table of scalar bindings.
type Registry struct {
	entries []Entry
}

// New builds a registry. At most one entry may exist per type and data kind.
func New(entries ...Entry) (*Registry, error) {
	for i := range entries {
		for j := range i {
			if entries[i].DataKind == entries[j].DataKind && entries[i].Type.Equal(entries[j].Type) {
				return nil, fmt.Errorf("%w: %s as %s", ErrDuplicate, entries[i].Type, entries[i].DataKind)
			}
		}
	}

	return &Registry{entries: append([]Entry(nil), entries...)}, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry of built-in bindings.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := New(DefaultEntries()...)
		if err != nil {
			panic(err)
		}

		defaultRegistry = reg
	})

	return defaultRegistry
}

// DefaultEntries lists the built-in bindings. time.Time is stored as text
// unless an integer column asks for unix seconds.
func DefaultEntries() []Entry {
	var entries []Entry

	for _, name := range []string{
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
	} {
		entries = append(entries, Entry{
			Type:     analyze.Basic(name),
			DataKind: primitive.DataKindInteger,
			Wire:     analyze.Basic("int64"),
			Getter:   ir.GetInt64,
			Setter:   ir.BindInt64,
		})
	}

	for _, name := range []string{"float32", "float64"} {
		entries = append(entries, Entry{
			Type:     analyze.Basic(name),
			DataKind: primitive.DataKindReal,
			Wire:     analyze.Basic("float64"),
			Getter:   ir.GetFloat64,
			Setter:   ir.BindFloat64,
		})
	}

	return append(entries,
		Entry{
			Type:     analyze.Basic("bool"),
			DataKind: primitive.DataKindInteger,
			Wire:     analyze.Basic("bool"),
			Getter:   ir.GetBool,
			Setter:   ir.BindBool,
		},
		Entry{
			Type:     analyze.Basic("string"),
			DataKind: primitive.DataKindText,
			Wire:     analyze.Basic("string"),
			Getter:   ir.GetString,
			Setter:   ir.BindString,
		},
		Entry{
			Type:     analyze.Bytes(),
			DataKind: primitive.DataKindBlob,
			Wire:     analyze.Bytes(),
			Getter:   ir.GetBytes,
			Setter:   ir.BindBytes,
		},
		Entry{
			Type:     analyze.Time(),
			DataKind: primitive.DataKindText,
			Wire:     analyze.Time(),
			Getter:   ir.GetTextTime,
			Setter:   ir.BindTextTime,
			Fallible: true,
		},
		Entry{
			Type:     analyze.Time(),
			DataKind: primitive.DataKindInteger,
			Wire:     analyze.Time(),
			Getter:   ir.GetUnixTime,
			Setter:   ir.BindUnixTime,
		},
	)
}

// Entries returns a copy of the table.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// FindParameterType returns a capability binding t to a statement, or nil.
func (r *Registry) FindParameterType(t *analyze.TypeInfo) Writer {
	return r.FindParameterTypeOf(t, primitive.DataKindAny)
}

// FindParameterTypeOf is FindParameterType restricted to a data kind.
func (r *Registry) FindParameterTypeOf(t *analyze.TypeInfo, kind primitive.DataKind) Writer {
	switch b := r.find(t, kind).(type) {
	case nil:
		return nil
	case Writer:
		return b
	default:
		return nil
	}
}

// FindReaderType returns a capability reading a column into t, or nil.
func (r *Registry) FindReaderType(t *analyze.TypeInfo) Reader {
	return r.FindReaderTypeOf(t, primitive.DataKindAny)
}

// FindReaderTypeOf is FindReaderType restricted to a data kind.
func (r *Registry) FindReaderTypeOf(t *analyze.TypeInfo, kind primitive.DataKind) Reader {
	switch b := r.find(t, kind).(type) {
	case nil:
		return nil
	case Reader:
		return b
	default:
		return nil
	}
}

func (r *Registry) find(t *analyze.TypeInfo, kind primitive.DataKind) Binding {
	if t == nil || t.Kind == analyze.TypeKindInvalid {
		return nil
	}

	if t.Kind == analyze.TypeKindVoid {
		return NoopBinding{}
	}

	value, nullable := t, false
	if t.Kind == analyze.TypeKindPointer {
		value, nullable = t.ElemType, true
		if value == nil || value.Kind == analyze.TypeKindPointer || value.Kind == analyze.TypeKindVoid {
			return nil
		}
	}

	if value.Kind == analyze.TypeKindEnum {
		return newEnumBinding(t, value, nullable)
	}

	for i := range r.entries {
		e := &r.entries[i]
		if !e.DataKind.Accepts(kind) || !matches(e.Type, value) {
			continue
		}

		return &ScalarBinding{
			column: column{
				typ:      t,
				value:    value,
				wire:     e.Wire,
				kind:     e.DataKind,
				getter:   e.Getter,
				setter:   e.Setter,
				fallible: e.Fallible,
				nullable: nullable,
			},
			entry: e,
		}
	}

	return nil
}

// matches compares an entry type with a query type. Named types defined over
// a basic type or []byte bind through their underlying type.
func matches(entry, t *analyze.TypeInfo) bool {
	if entry.Equal(t) {
		return true
	}

	return t.Kind == analyze.TypeKindAlias && t.Underlying != nil && entry.Equal(t.Underlying)
}

func newEnumBinding(t, value *analyze.TypeInfo, nullable bool) *EnumBinding {
	c := column{
		typ:      t,
		value:    value,
		kind:     primitive.DataKindInteger,
		wire:     analyze.Basic("int64"),
		getter:   ir.GetInt64,
		setter:   ir.BindInt64,
		nullable: nullable,
	}

	if value.Underlying != nil && value.Underlying.ID.Name == "string" {
		c.kind = primitive.DataKindText
		c.wire = analyze.Basic("string")
		c.getter = ir.GetString
		c.setter = ir.BindString
	}

	return &EnumBinding{column: c}
}

package daofile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the root of a declaration file.
type File struct {
	// Version of the file format.
	Version string `yaml:"version"`
	// Package is the Go package name of generated files.
	Package string `yaml:"package"`
	// Output is the directory receiving generated files.
	Output string `yaml:"output,omitempty"`
	// Load lists the Go package patterns declaring the host types.
	Load []string `yaml:"load"`
	// Defaults change the defaults applied to every method.
	Defaults Defaults `yaml:"defaults,omitempty"`
	// Tables describe the schema used for column data kinds and defaults.
	Tables []Table `yaml:"tables,omitempty"`
	// Entities bind host types to tables or to row routines.
	Entities []Entity `yaml:"entities,omitempty"`
	// DAOs are the data-access objects to generate.
	DAOs []DAO `yaml:"daos"`
}

// Defaults holds file-wide method defaults.
type Defaults struct {
	// WriteTransaction runs write statements in a transaction when a method
	// does not say otherwise. Nil means true.
	WriteTransaction *bool `yaml:"write_transaction,omitempty"`
}

// Table is a schema table.
type Table struct {
	Name    string   `yaml:"name"`
	Columns []Column `yaml:"columns"`
}

// Column is a schema column.
type Column struct {
	Name string `yaml:"name"`
	// Kind is the data kind: any, integer, real, text or blob.
	Kind    string `yaml:"kind,omitempty"`
	NotNull bool   `yaml:"not_null,omitempty"`
	// Default is the SQL default expression, e.g. "'nobody'" or "0".
	Default string `yaml:"default,omitempty"`
}

// Entity binds a struct type to a table, or any type to a row routine
// "pkg.Func" of signature func(*dbrt.Cursor) (T, error).
type Entity struct {
	Type    string `yaml:"type"`
	Table   string `yaml:"table,omitempty"`
	Routine string `yaml:"routine,omitempty"`
}

// DAO is a declared data-access object.
type DAO struct {
	Name    string   `yaml:"name"`
	Methods []Method `yaml:"methods"`
}

// Method is a declared data-access method.
type Method struct {
	Name   string `yaml:"name"`
	Params Params `yaml:"params,omitempty"`
	// Returns is a type expression, empty for methods returning only an error.
	Returns string `yaml:"returns,omitempty"`
	Query   string `yaml:"query,omitempty"`
	// Delegate names a method of the same DAO to call inside a transaction.
	Delegate string `yaml:"delegate,omitempty"`
	// Transaction overrides the transaction default of the statement kind.
	Transaction *bool `yaml:"transaction,omitempty"`
}

// Param is a declared method parameter.
type Param struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	// Kind restricts the binding to one data kind.
	Kind string `yaml:"kind,omitempty"`
}

// Params is an ordered parameter list.
type Params []Param

// UnmarshalYAML implements custom YAML unmarshaling for Param.
// Accepts:
//   - Shorthand: {id: int64}
//   - Full form: {name: id, type: int64, kind: integer}
func (p *Param) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected parameter mapping, got %v", node.Line, node.Kind)
	}

	if len(node.Content) == 2 && !isParamKey(node.Content[0].Value) {
		p.Name = node.Content[0].Value
		return node.Content[1].Decode(&p.Type)
	}

	type plain Param

	return node.Decode((*plain)(p))
}

// MarshalYAML outputs the shorthand form when no data kind is set.
func (p Param) MarshalYAML() (any, error) {
	if p.Kind == "" {
		return map[string]string{p.Name: p.Type}, nil
	}

	type plain Param

	return plain(p), nil
}

func isParamKey(key string) bool {
	switch key {
	case "name", "type", "kind":
		return true
	default:
		return false
	}
}

// UnmarshalYAML implements custom YAML unmarshaling for Params.
// Accepts a sequence of parameters or an ordered mapping of name to type.
func (ps *Params) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []Param
		if err := node.Decode(&list); err != nil {
			return err
		}

		*ps = list

		return nil

	case yaml.MappingNode:
		list := make([]Param, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var typ string
			if err := node.Content[i+1].Decode(&typ); err != nil {
				return err
			}

			list = append(list, Param{Name: node.Content[i].Value, Type: typ})
		}

		*ps = list

		return nil

	default:
		return fmt.Errorf("line %d: expected parameter list or mapping, got %v", node.Line, node.Kind)
	}
}

// Copyright (C) 2017 ScyllaDB

// Package cqlschema models CQL table layouts structurally. Text is a boundary
// concern: the restricted CREATE TABLE form used by system schema definitions
// can be parsed into a Table and a Table can be rendered back to normalized
// DDL. This is not a CQL parser, anything outside the restricted form is
// rejected.
package cqlschema

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/scylladb/gocqlx/v2/table"
)

// Column is a single table column with its CQL type.
type Column struct {
	Name string
	Type string
}

// Table is a structural description of a CQL table, typed columns plus
// partition and clustering key. Key field naming follows gocqlx
// table.Metadata.
type Table struct {
	Name    string
	Columns []Column
	PartKey []string
	SortKey []string
}

// Validate checks structural integrity, a table must have a name, at least
// one column, a primary key, and every key column must be declared.
func (t Table) Validate() error {
	if t.Name == "" {
		return invalidSchemaf("missing table name")
	}
	if len(t.Columns) == 0 {
		return invalidSchemaf("%s: no columns", t.Name)
	}
	if len(t.PartKey) == 0 {
		return invalidSchemaf("%s: missing primary key", t.Name)
	}

	cols := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" || c.Type == "" {
			return invalidSchemaf("%s: column %q has no type", t.Name, c.Name)
		}
		if _, ok := cols[c.Name]; ok {
			return invalidSchemaf("%s: duplicate column %q", t.Name, c.Name)
		}
		cols[c.Name] = struct{}{}
	}
	for _, k := range append(append([]string{}, t.PartKey...), t.SortKey...) {
		if _, ok := cols[k]; !ok {
			return invalidSchemaf("%s: key column %q not declared", t.Name, k)
		}
	}

	return nil
}

// CreateStatement renders normalized DDL for the table. Creation is always
// idempotent regardless of how the source text spelled it. An empty keyspace
// renders an unqualified table name.
func (t Table) CreateStatement(keyspace string) string {
	b := &strings.Builder{}

	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	if keyspace != "" {
		b.WriteString(keyspace)
		b.WriteByte('.')
	}
	b.WriteString(t.Name)
	b.WriteString(" (")
	for _, c := range t.Columns {
		fmt.Fprintf(b, "%s %s, ", c.Name, c.Type)
	}
	b.WriteString("PRIMARY KEY (")
	if len(t.PartKey) > 1 {
		fmt.Fprintf(b, "(%s)", strings.Join(t.PartKey, ", "))
	} else {
		b.WriteString(t.PartKey[0])
	}
	if len(t.SortKey) > 0 {
		fmt.Fprintf(b, ", %s", strings.Join(t.SortKey, ", "))
	}
	b.WriteString("))")

	return b.String()
}

// Metadata returns gocqlx query builder metadata for the table.
func (t Table) Metadata() table.Metadata {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, c.Name)
	}
	return table.Metadata{
		Name:    t.Name,
		Columns: cols,
		PartKey: append([]string{}, t.PartKey...),
		SortKey: append([]string{}, t.SortKey...),
	}
}

type invalidSchemaError struct {
	msg string
}

func (e invalidSchemaError) Error() string {
	return e.msg
}

func invalidSchemaf(format string, a ...interface{}) error {
	return invalidSchemaError{msg: fmt.Sprintf(format, a...)}
}

// IsInvalidSchema reports whether err, possibly wrapped, is a schema
// definition error. Such errors are fatal to node startup, there is no
// fallback schema.
func IsInvalidSchema(err error) bool {
	_, ok := errors.Cause(err).(invalidSchemaError)
	return ok
}

// Copyright (C) 2017 ScyllaDB

package authschema

import (
	"crypto/md5" //nolint:gosec
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/scylladb/auth-schema/pkg/cqlschema"
)

// TableDescriptor describes a single auth table, its structural schema, the
// comment stored as table metadata, the tombstone retention window and a
// deterministic id.
type TableDescriptor struct {
	Name        string
	Description string
	ID          uuid.UUID
	Schema      cqlschema.Table
	GCGrace     time.Duration
}

// buildTable parses the schema text into a descriptor. The id is derived from
// the keyspace and table name only, never from the layout, editing columns
// keeps the id stable and is surfaced through Generation instead, renaming a
// table changes the id and the migration engine treats it as drop and create.
func buildTable(name, description, schemaText string) (TableDescriptor, error) {
	text := schemaText
	if text != "" {
		text = fmt.Sprintf(text, name)
	}
	t, err := cqlschema.ParseCreateTable(text)
	if err != nil {
		return TableDescriptor{}, errors.Wrapf(err, "table %s", name)
	}

	return TableDescriptor{
		Name:        name,
		Description: description,
		ID:          TableID(Keyspace, name),
		Schema:      t,
		GCGrace:     GCGrace,
	}, nil
}

// TableID derives the deterministic id of a table, a type 3 (MD5) name-based
// UUID over the keyspace and table name, bit-compatible with the id scheme
// the cluster already uses for system tables. Identical (keyspace, name)
// yields the identical id across restarts and schema edits.
func TableID(keyspace, table string) uuid.UUID {
	sum := md5.Sum([]byte(keyspace + table)) //nolint:gosec
	sum[6] = sum[6]&0x0f | 0x30              // version 3
	sum[8] = sum[8]&0x3f | 0x80              // variant RFC 4122

	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		panic(err) // md5.Sum is always 16 bytes
	}
	return id
}

// CreateStatement renders the full table DDL including the comment and the
// gc grace window.
func (d TableDescriptor) CreateStatement(keyspace string) string {
	return fmt.Sprintf("%s WITH comment = '%s' AND gc_grace_seconds = %d",
		d.Schema.CreateStatement(keyspace),
		d.Description,
		int64(d.GCGrace/time.Second),
	)
}

// Copyright (C) 2017 ScyllaDB

package cqlschema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/scylladb/gocqlx/v2/table"
)

func TestCreateStatement(t *testing.T) {
	t.Parallel()

	table := []struct {
		Name     string
		Table    Table
		Keyspace string
		Golden   string
	}{
		{
			Name: "unqualified",
			Table: Table{
				Name:    "role_members",
				Columns: []Column{{Name: "role", Type: "text"}, {Name: "member", Type: "text"}},
				PartKey: []string{"role"},
				SortKey: []string{"member"},
			},
			Golden: "CREATE TABLE IF NOT EXISTS role_members (role text, member text, PRIMARY KEY (role, member))",
		},
		{
			Name: "qualified",
			Table: Table{
				Name:    "roles",
				Columns: []Column{{Name: "role", Type: "text"}},
				PartKey: []string{"role"},
			},
			Keyspace: "system_auth",
			Golden:   "CREATE TABLE IF NOT EXISTS system_auth.roles (role text, PRIMARY KEY (role))",
		},
		{
			Name: "composite partition key",
			Table: Table{
				Name:    "t",
				Columns: []Column{{Name: "a", Type: "text"}, {Name: "b", Type: "text"}, {Name: "c", Type: "text"}},
				PartKey: []string{"a", "b"},
				SortKey: []string{"c"},
			},
			Golden: "CREATE TABLE IF NOT EXISTS t (a text, b text, c text, PRIMARY KEY ((a, b), c))",
		},
	}

	for i := range table {
		test := table[i]
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			if got := test.Table.CreateStatement(test.Keyspace); got != test.Golden {
				t.Fatalf("CreateStatement() = %s, expected %s", got, test.Golden)
			}
		})
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	table := []struct {
		Name  string
		Table Table
	}{
		{Name: "missing name", Table: Table{Columns: []Column{{Name: "a", Type: "text"}}, PartKey: []string{"a"}}},
		{Name: "no columns", Table: Table{Name: "t", PartKey: []string{"a"}}},
		{Name: "no primary key", Table: Table{Name: "t", Columns: []Column{{Name: "a", Type: "text"}}}},
		{Name: "untyped column", Table: Table{Name: "t", Columns: []Column{{Name: "a"}}, PartKey: []string{"a"}}},
		{
			Name: "sort key not declared",
			Table: Table{
				Name:    "t",
				Columns: []Column{{Name: "a", Type: "text"}},
				PartKey: []string{"a"},
				SortKey: []string{"b"},
			},
		},
	}

	for i := range table {
		test := table[i]
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			err := test.Table.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsInvalidSchema(err) {
				t.Fatalf("expected invalid schema error, got %s", err)
			}
		})
	}
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	in := Table{
		Name: "role_permissions",
		Columns: []Column{
			{Name: "role", Type: "text"},
			{Name: "resource", Type: "text"},
			{Name: "permissions", Type: "set<text>"},
		},
		PartKey: []string{"role"},
		SortKey: []string{"resource"},
	}
	golden := table.Metadata{
		Name:    "role_permissions",
		Columns: []string{"role", "resource", "permissions"},
		PartKey: []string{"role"},
		SortKey: []string{"resource"},
	}

	if diff := cmp.Diff(in.Metadata(), golden); diff != "" {
		t.Fatal(diff)
	}
}

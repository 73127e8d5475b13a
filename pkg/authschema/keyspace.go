// Copyright (C) 2017 ScyllaDB

package authschema

import (
	"bytes"
	"text/template"

	"github.com/scylladb/go-set/strset"
)

// KeyspaceDefinition is the assembled authorization keyspace, the reserved
// name, the effective replication policy and the full ordered collection of
// table descriptors.
type KeyspaceDefinition struct {
	Name              string
	ReplicationFactor int
	Tables            []TableDescriptor
}

// Table looks up a table descriptor by name.
func (k KeyspaceDefinition) Table(name string) (TableDescriptor, bool) {
	for _, t := range k.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableDescriptor{}, false
}

// TableNames returns the set of table names present in the keyspace.
func (k KeyspaceDefinition) TableNames() *strset.Set {
	s := strset.NewWithSize(len(k.Tables))
	for _, t := range k.Tables {
		s.Add(t.Name)
	}
	return s
}

const createKeyspaceStmt = "CREATE KEYSPACE IF NOT EXISTS {{.Name}} " +
	"WITH replication = {'class': 'SimpleStrategy', 'replication_factor': {{.ReplicationFactor}}}"

// CreateStatements renders the DDL at the textual boundary with the migration
// engine, the keyspace statement followed by table statements in declaration
// order.
func (k KeyspaceDefinition) CreateStatements() []string {
	stmts := make([]string, 0, len(k.Tables)+1)
	stmts = append(stmts, mustEvaluateCreateKeyspaceStmt(k))
	for _, t := range k.Tables {
		stmts = append(stmts, t.CreateStatement(k.Name))
	}
	return stmts
}

func mustEvaluateCreateKeyspaceStmt(k KeyspaceDefinition) string {
	t := template.Must(template.New("").Parse(createKeyspaceStmt))

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, k); err != nil {
		panic(err)
	}

	return buf.String()
}

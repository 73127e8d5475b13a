// Copyright (C) 2017 ScyllaDB

package authschema

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/scylladb/auth-schema/pkg/cqlschema"
)

func TestNewKeyspaceContainsDeclaredTables(t *testing.T) {
	t.Parallel()

	r, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	ks := r.Keyspace()

	if ks.Name != Keyspace {
		t.Fatalf("keyspace name %s, expected %s", ks.Name, Keyspace)
	}
	if !ks.TableNames().IsEqual(TableNames()) {
		t.Fatalf("table names %s, expected %s", ks.TableNames(), TableNames())
	}
	if len(ks.Tables) != TableNames().Size() {
		t.Fatalf("%d tables, expected %d", len(ks.Tables), TableNames().Size())
	}
}

func TestNewEveryTableCarriesRetention(t *testing.T) {
	t.Parallel()

	r, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	for _, d := range r.Keyspace().Tables {
		if d.GCGrace != 90*24*time.Hour {
			t.Errorf("%s: gc grace %s, expected 90 days", d.Name, d.GCGrace)
		}
	}
}

func TestReplicationFactorFloor(t *testing.T) {
	t.Parallel()

	table := []struct {
		Name       string
		Floor      int
		Configured int
		Golden     int
	}{
		{Name: "configured above floor", Floor: 1, Configured: 3, Golden: 3},
		{Name: "configured zero", Floor: 1, Configured: 0, Golden: 1},
		{Name: "configured below floor", Floor: 3, Configured: 1, Golden: 3},
		{Name: "equal", Floor: 3, Configured: 3, Golden: 3},
	}

	for i := range table {
		test := table[i]
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			if got := replicationFactor(test.Floor, test.Configured); got != test.Golden {
				t.Fatalf("replicationFactor(%d, %d) = %d, expected %d",
					test.Floor, test.Configured, got, test.Golden)
			}
		})
	}
}

func TestNewAppliesConfiguredReplicationFactor(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	c.ReplicationFactor = 3

	r, err := New(c)
	if err != nil {
		t.Fatal(err)
	}
	if rf := r.Keyspace().ReplicationFactor; rf != 3 {
		t.Fatalf("replication factor %d, expected 3", rf)
	}

	c.ReplicationFactor = 0
	r, err = New(c)
	if err != nil {
		t.Fatal(err)
	}
	if rf := r.Keyspace().ReplicationFactor; rf != MinReplicationFactor {
		t.Fatalf("replication factor %d, expected floor %d", rf, MinReplicationFactor)
	}
}

func TestNewIsReferentiallyTransparent(t *testing.T) {
	t.Parallel()

	a, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(a.Keyspace(), b.Keyspace()); diff != "" {
		t.Fatal(diff)
	}
	if a.Digest() != b.Digest() {
		t.Fatalf("digest %x != %x", a.Digest(), b.Digest())
	}
}

func TestDigestIgnoresReplicationFactor(t *testing.T) {
	t.Parallel()

	a, err := New(Config{ReplicationFactor: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(Config{ReplicationFactor: 5})
	if err != nil {
		t.Fatal(err)
	}
	if a.Digest() != b.Digest() {
		t.Fatalf("digest %x != %x", a.Digest(), b.Digest())
	}
}

func TestKeyspaceScenario(t *testing.T) {
	t.Parallel()

	// A deployment configured with fewer replicas than the floor keeps the
	// floor and the canonical key layouts.
	ks := KeyspaceDefinition{
		Name:              Keyspace,
		ReplicationFactor: replicationFactor(3, 1),
	}
	if ks.ReplicationFactor != 3 {
		t.Fatalf("replication factor %d, expected 3", ks.ReplicationFactor)
	}

	r, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	roles, ok := r.Table(TableRoles)
	if !ok {
		t.Fatal("roles table missing")
	}
	if diff := cmp.Diff(roles.Schema.PartKey, []string{"role"}); diff != "" {
		t.Fatal(diff)
	}

	groups, ok := r.Table(TableCIDRGroups)
	if !ok {
		t.Fatal("cidr_groups table missing")
	}
	if diff := cmp.Diff(groups.Schema.PartKey, []string{"cidr_group"}); diff != "" {
		t.Fatal(diff)
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	t.Parallel()

	r, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	for _, d := range r.Keyspace().Tables {
		d := d
		t.Run(d.Name, func(t *testing.T) {
			t.Parallel()

			parsed, err := cqlschema.ParseCreateTable(d.Schema.CreateStatement(""))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(parsed, d.Schema); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestCreateStatements(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	c.ReplicationFactor = 3
	r, err := New(c)
	if err != nil {
		t.Fatal(err)
	}

	stmts := r.Keyspace().CreateStatements()
	if len(stmts) != len(r.Keyspace().Tables)+1 {
		t.Fatalf("%d statements, expected %d", len(stmts), len(r.Keyspace().Tables)+1)
	}

	golden := "CREATE KEYSPACE IF NOT EXISTS system_auth " +
		"WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 3}"
	if stmts[0] != golden {
		t.Fatalf("keyspace statement %s, expected %s", stmts[0], golden)
	}

	for _, s := range stmts[1:] {
		if !strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS system_auth.") {
			t.Fatalf("table statement not normalized: %s", s)
		}
		if !strings.Contains(s, "gc_grace_seconds = 7776000") {
			t.Fatalf("table statement misses gc grace: %s", s)
		}
	}
}

func TestNewInvalidConfig(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{ReplicationFactor: -1}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := New(Config{SuperuserSetupDelay: -time.Second}); err == nil {
		t.Fatal("expected error")
	}
}

func TestGenerationExposed(t *testing.T) {
	t.Parallel()

	r, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if r.Generation() != Generation {
		t.Fatalf("generation %d, expected %d", r.Generation(), Generation)
	}
}

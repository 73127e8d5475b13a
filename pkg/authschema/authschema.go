// Copyright (C) 2017 ScyllaDB

// Package authschema is the authoritative definition of the authorization
// keyspace, the tables holding roles, role memberships, permissions,
// network/CIDR restrictions and external identity mappings. It assembles the
// table definitions into a single keyspace definition that the schema
// migration engine applies on node startup, gated by Generation.
package authschema

import (
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/scylladb/go-set/strset"
)

// Keyspace is the reserved name of the authorization keyspace. It is managed
// by the cluster itself and cannot be created or dropped by regular clients.
const Keyspace = "system_auth"

// MinReplicationFactor is the hard floor for the auth keyspace replication
// factor. Deployment configuration may raise the factor, never lower it,
// durability of authorization data must not fall below this floor.
const MinReplicationFactor = 1

// Generation is used as a timestamp for automatic table creation on startup.
// If you make any changes to the tables below, make sure to increment the
// generation and document your change here.
//
// gen 0: original definition
// gen 1: compression chunk length reduced to 16KiB, memtable_flush_period_in_ms now unset on all tables
const Generation int64 = 1

// GCGrace is the tombstone retention window applied to every auth table. It
// is deliberately long so that deleted grants and revocations stay visible to
// anti-entropy repair and are not resurrected across the cluster.
const GCGrace = 90 * 24 * time.Hour

// Auth table names.
const (
	TableRoles              = "roles"
	TableRoleMembers        = "role_members"
	TableRolePermissions    = "role_permissions"
	TableResourceRoleIndex  = "resource_role_permissons_index"
	TableNetworkPermissions = "network_permissions"
	TableCIDRPermissions    = "cidr_permissions"
	TableCIDRGroups         = "cidr_groups"
	TableIdentityToRole     = "identity_to_role"
)

// TableNames returns the full declared set of auth table names. The assembled
// keyspace contains exactly this set.
func TableNames() *strset.Set {
	return strset.New(
		TableRoles,
		TableRoleMembers,
		TableRolePermissions,
		TableResourceRoleIndex,
		TableNetworkPermissions,
		TableCIDRPermissions,
		TableCIDRGroups,
		TableIdentityToRole,
	)
}

// Schema texts are kept bit-exact with the textual contract of the migration
// engine, including the two statements that historically omit IF NOT EXISTS.
// The %s placeholder is substituted with the table name on build, rendering
// normalizes idempotency.
const (
	rolesCQL = "CREATE TABLE IF NOT EXISTS %s (" +
		"role text," +
		"is_superuser boolean," +
		"can_login boolean," +
		"salted_hash text," +
		"member_of set<text>," +
		"password_set_date date," +
		"PRIMARY KEY(role))"

	roleMembersCQL = "CREATE TABLE IF NOT EXISTS %s (" +
		"role text," +
		"member text," +
		"PRIMARY KEY(role, member))"

	rolePermissionsCQL = "CREATE TABLE IF NOT EXISTS %s (" +
		"role text," +
		"resource text," +
		"permissions set<text>," +
		"PRIMARY KEY(role, resource))"

	resourceRoleIndexCQL = "CREATE TABLE IF NOT EXISTS %s (" +
		"resource text," +
		"role text," +
		"PRIMARY KEY(resource, role))"

	networkPermissionsCQL = "CREATE TABLE IF NOT EXISTS %s (" +
		"role text, " +
		"dcs frozen<set<text>>, " +
		"PRIMARY KEY(role))"

	cidrPermissionsCQL = "CREATE TABLE %s (" +
		"role text, " +
		"cidr_groups frozen<set<text>>, " +
		"PRIMARY KEY(role))"

	cidrGroupsCQL = "CREATE TABLE %s (" +
		"cidr_group text, " +
		"cidrs frozen<set<tuple<inet, smallint>>>, " +
		"PRIMARY KEY(cidr_group))"

	identityToRoleCQL = "CREATE TABLE IF NOT EXISTS %s (" +
		"identity text," +
		"role text," +
		"PRIMARY KEY(identity))"
)

// Config specifies the deployment-dependent inputs of the auth schema.
type Config struct {
	// ReplicationFactor is the configured default keyspace replication
	// factor. Values below MinReplicationFactor are clamped to the floor,
	// never an error.
	ReplicationFactor int `yaml:"replication_factor"`
	// SuperuserSetupDelay defers creation of the default superuser role
	// until the auth tables had time to become consistently readable
	// cluster wide.
	SuperuserSetupDelay time.Duration `yaml:"superuser_setup_delay"`
}

func DefaultConfig() Config {
	return Config{
		ReplicationFactor:   MinReplicationFactor,
		SuperuserSetupDelay: 10 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.ReplicationFactor < 0 {
		return errors.New("invalid replication_factor < 0")
	}
	if c.SuperuserSetupDelay < 0 {
		return errors.New("invalid superuser_setup_delay < 0")
	}
	return nil
}

// Registry is the assembled auth schema. It is built once on the node
// startup path and immutable afterwards, safe for unsynchronized concurrent
// reads. It is passed explicitly to whatever needs it, there is no package
// level instance.
type Registry struct {
	keyspace KeyspaceDefinition
	delay    time.Duration
	digest   uint64
}

// New builds the registry from the compile time schema texts and the given
// configuration. A schema text that fails to parse fails the whole call, a
// node must never start with a malformed auth schema.
func New(c Config) (*Registry, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}

	defs := []struct {
		name        string
		description string
		schema      string
	}{
		{TableRoles, "role definitions", rolesCQL},
		{TableRoleMembers, "role memberships lookup table", roleMembersCQL},
		{TableRolePermissions, "permissions granted to db roles", rolePermissionsCQL},
		{TableResourceRoleIndex, "index of db roles with permissions granted on a resource", resourceRoleIndexCQL},
		{TableNetworkPermissions, "user network permissions", networkPermissionsCQL},
		{TableCIDRPermissions, "user cidr permissions", cidrPermissionsCQL},
		{TableCIDRGroups, "cidr groups to cidrs mapping", cidrGroupsCQL},
		{TableIdentityToRole, "mtls authorized identities lookup table", identityToRoleCQL},
	}

	tables := make([]TableDescriptor, 0, len(defs))
	for _, d := range defs {
		t, err := buildTable(d.name, d.description, d.schema)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	ks := KeyspaceDefinition{
		Name:              Keyspace,
		ReplicationFactor: replicationFactor(MinReplicationFactor, c.ReplicationFactor),
		Tables:            tables,
	}

	return &Registry{
		keyspace: ks,
		delay:    c.SuperuserSetupDelay,
		digest:   digest(tables),
	}, nil
}

// Keyspace returns the assembled keyspace definition. Together with
// Generation it is the pair handed to the migration engine during startup
// reconciliation.
func (r *Registry) Keyspace() KeyspaceDefinition {
	return r.keyspace
}

// Generation returns the logical version of the schema set.
func (r *Registry) Generation() int64 {
	return Generation
}

// SuperuserSetupDelay returns the configured bootstrap delay.
func (r *Registry) SuperuserSetupDelay() time.Duration {
	return r.delay
}

// Digest is an xxhash over the normalized table DDL. It detects drift between
// a schema dump and the binary, Generation remains the authoritative version
// marker. The digest does not cover the replication factor.
func (r *Registry) Digest() uint64 {
	return r.digest
}

// Table looks up a table descriptor by name.
func (r *Registry) Table(name string) (TableDescriptor, bool) {
	return r.keyspace.Table(name)
}

// replicationFactor applies the floor to the configured value.
func replicationFactor(floor, configured int) int {
	if configured > floor {
		return configured
	}
	return floor
}

func digest(tables []TableDescriptor) uint64 {
	h := xxhash.New()
	for _, t := range tables {
		_, _ = h.WriteString(t.CreateStatement(""))
		_, _ = h.WriteString("\n")
	}
	return h.Sum64()
}

// Copyright (C) 2017 ScyllaDB

package cfgutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testConfig struct {
	Keyspace          string `yaml:"keyspace"`
	ReplicationFactor int    `yaml:"replication_factor"`
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	table := []struct {
		Name   string
		Files  []string
		Golden testConfig
	}{
		{
			Name:   "single file",
			Files:  []string{"testdata/base.yaml"},
			Golden: testConfig{Keyspace: "system_auth", ReplicationFactor: 1},
		},
		{
			Name:   "later file overrides",
			Files:  []string{"testdata/base.yaml", "testdata/override.yaml"},
			Golden: testConfig{Keyspace: "system_auth", ReplicationFactor: 3},
		},
		{
			Name:   "missing file skipped",
			Files:  []string{"testdata/base.yaml", "testdata/missing.yaml"},
			Golden: testConfig{Keyspace: "system_auth", ReplicationFactor: 1},
		},
	}

	for i := range table {
		test := table[i]
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			var c testConfig
			if err := ParseYAML(&c, test.Files...); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(c, test.Golden); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

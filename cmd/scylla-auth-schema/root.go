// Copyright (C) 2017 ScyllaDB

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scylladb/auth-schema/pkg/authschema"
	"github.com/scylladb/auth-schema/pkg/config/node"
)

var cfgConfigFiles []string

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&cfgConfigFiles, "config-file", "c",
		[]string{"/etc/scylla-auth-schema/scylla-auth-schema.yaml"},
		"repeatable argument to supply parts of configuration `path`")
}

var rootCmd = &cobra.Command{
	Use:          "scylla-auth-schema",
	Short:        "Auth keyspace schema tool",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

// obtainRegistry loads the configuration and builds the schema registry,
// this is the same construction path a node runs during startup.
func obtainRegistry() (*authschema.Registry, node.Config, error) {
	c, err := node.ParseConfigFiles(cfgConfigFiles)
	if err != nil {
		return nil, c, errors.Wrap(err, "configuration")
	}
	if err := c.Validate(); err != nil {
		return nil, c, errors.Wrap(err, "configuration")
	}

	r, err := authschema.New(c.Auth)
	if err != nil {
		return nil, c, errors.Wrap(err, "auth schema")
	}
	return r, c, nil
}

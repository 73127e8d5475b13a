// Copyright (C) 2017 ScyllaDB

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

type tableInfo struct {
	Name    string `yaml:"name"`
	ID      string `yaml:"id"`
	Comment string `yaml:"comment"`
}

type schemaInfo struct {
	Keyspace            string      `yaml:"keyspace"`
	Generation          int64       `yaml:"generation"`
	ReplicationFactor   int         `yaml:"replication_factor"`
	Digest              string      `yaml:"digest"`
	SuperuserSetupDelay string      `yaml:"superuser_setup_delay"`
	Tables              []tableInfo `yaml:"tables"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print generation, digest and table identities of the auth schema",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := obtainRegistry()
		if err != nil {
			return err
		}

		ks := r.Keyspace()
		info := schemaInfo{
			Keyspace:            ks.Name,
			Generation:          r.Generation(),
			ReplicationFactor:   ks.ReplicationFactor,
			Digest:              fmt.Sprintf("%016x", r.Digest()),
			SuperuserSetupDelay: r.SuperuserSetupDelay().String(),
		}
		for _, t := range ks.Tables {
			info.Tables = append(info.Tables, tableInfo{
				Name:    t.Name,
				ID:      t.ID.String(),
				Comment: t.Description,
			})
		}

		b, err := yaml.Marshal(info)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

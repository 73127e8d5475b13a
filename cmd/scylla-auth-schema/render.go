// Copyright (C) 2017 ScyllaDB

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the auth keyspace DDL for the configured replication factor",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := obtainRegistry()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, stmt := range r.Keyspace().CreateStatements() {
			fmt.Fprintf(w, "%s;\n\n", stmt)
		}
		return nil
	},
}

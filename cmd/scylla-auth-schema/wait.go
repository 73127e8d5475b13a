// Copyright (C) 2017 ScyllaDB

package main

import (
	"context"
	"strconv"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/scylladb/go-log"
	"github.com/scylladb/gocqlx/v2"
	"github.com/spf13/cobra"

	"github.com/scylladb/auth-schema/pkg/bootstrap"
)

func init() {
	rootCmd.AddCommand(waitCmd)
}

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait until the auth tables are visible, then sit out the superuser setup delay",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		r, c, err := obtainRegistry()
		if err != nil {
			return err
		}

		logger, err := c.MakeLogger()
		if err != nil {
			return errors.Wrap(err, "logger")
		}
		defer logger.Sync() // nolint:errcheck

		ctx := log.WithNewTraceID(context.Background())

		cluster := gocql.NewCluster(c.Database.Hosts...)
		if c.Database.Port != "" {
			p, err := strconv.Atoi(c.Database.Port)
			if err != nil {
				return errors.Wrap(err, "database.port")
			}
			cluster.Port = p
		}
		cluster.Timeout = c.Database.Timeout

		session, err := gocqlx.WrapSession(cluster.CreateSession())
		if err != nil {
			return errors.Wrap(err, "database")
		}
		defer session.Close()

		w := bootstrap.Waiter{
			Session: session,
			MaxWait: c.Database.MaxWait,
			Logger:  logger.Named("wait"),
		}
		if err := w.AwaitTablesVisible(ctx, r.Keyspace()); err != nil {
			return err
		}
		return bootstrap.AwaitSetupDelay(ctx, r.SuperuserSetupDelay(), logger)
	},
}

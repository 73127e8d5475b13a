// Copyright (C) 2017 ScyllaDB

// Package bootstrap sequences the auth schema startup path, waiting for the
// auth tables to be visible in schema metadata and deferring default role
// setup for the configured delay. It does not apply schema changes, that is
// the migration engine's job.
package bootstrap

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/scylladb/go-log"
	"github.com/scylladb/go-set/strset"
	"github.com/scylladb/gocqlx/v2"
	"github.com/scylladb/gocqlx/v2/qb"

	"github.com/scylladb/auth-schema/pkg/authschema"
)

// AwaitSetupDelay blocks for the configured superuser setup delay so the auth
// tables can become consistently readable cluster wide before any default
// grants are written. It returns early only when ctx is canceled.
func AwaitSetupDelay(ctx context.Context, delay time.Duration, logger log.Logger) error {
	if delay <= 0 {
		return nil
	}
	logger.Info(ctx, "Deferring default role setup", "delay", delay)

	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Waiter polls schema metadata until every table of a keyspace definition is
// visible. Zero values of RetryBackoff and MaxWait fall back to defaults.
type Waiter struct {
	Session      gocqlx.Session
	RetryBackoff time.Duration
	MaxWait      time.Duration
	Logger       log.Logger
}

const (
	defaultRetryBackoff = 500 * time.Millisecond
	defaultMaxWait      = 30 * time.Second
)

// AwaitTablesVisible waits until system_schema reports every table of ks,
// retrying with exponential backoff. It returns the last visibility error
// when MaxWait elapses or ctx is canceled.
func (w Waiter) AwaitTablesVisible(ctx context.Context, ks authschema.KeyspaceDefinition) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.RetryBackoff
	if b.InitialInterval <= 0 {
		b.InitialInterval = defaultRetryBackoff
	}
	b.MaxElapsedTime = w.MaxWait
	if b.MaxElapsedTime <= 0 {
		b.MaxElapsedTime = defaultMaxWait
	}

	op := func() error {
		missing, err := w.missingTables(ctx, ks)
		if err != nil {
			return err
		}
		if missing.IsEmpty() {
			return nil
		}
		return errors.Errorf("tables not visible: %s", strings.Join(missing.List(), ", "))
	}
	notify := func(err error, sleep time.Duration) {
		w.Logger.Info(ctx, "Waiting for auth tables",
			"keyspace", ks.Name,
			"sleep", sleep,
			"error", err,
		)
	}

	return errors.Wrapf(backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify), "keyspace %s", ks.Name)
}

func (w Waiter) missingTables(ctx context.Context, ks authschema.KeyspaceDefinition) (*strset.Set, error) {
	stmt, names := qb.Select("system_schema.tables").
		Columns("table_name").
		Where(qb.Eq("keyspace_name")).
		ToCql()

	var visible []string
	q := w.Session.ContextQuery(ctx, stmt, names).BindMap(qb.M{"keyspace_name": ks.Name})
	if err := q.SelectRelease(&visible); err != nil {
		return nil, errors.Wrap(err, "query system_schema.tables")
	}

	missing := ks.TableNames()
	missing.Remove(visible...)
	return missing, nil
}

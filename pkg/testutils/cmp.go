// Copyright (C) 2017 ScyllaDB

// Package testutils provides test helpers shared across packages.
package testutils

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// UUIDComparer creates a cmp.Comparer for comparing uuid.UUID's.
func UUIDComparer() cmp.Option {
	return cmp.Comparer(func(a, b uuid.UUID) bool { return a == b })
}

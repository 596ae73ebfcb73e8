package core

import "github.com/google/uuid"

// NewRunID mints a fresh run identifier. The per-run result snapshots
// (cache.RunKey) are scoped by it so that two executions of the same
// workflow never overwrite each other's; the router's memoisation key
// (cache.RouterKey) is not run-scoped and is shared across runs.
func NewRunID() string {
	return uuid.New().String()
}

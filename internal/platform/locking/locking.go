// Package locking provides the mutual-exclusion primitive used to keep the
// pipeline single-instance. The Postgres implementation relies on session
// advisory locks so a crashed holder releases the lock with its connection.
package locking

import "context"

type Locker interface {
	// TryAcquire reports false without blocking when another holder owns the lock.
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

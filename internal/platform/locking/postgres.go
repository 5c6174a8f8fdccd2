package locking

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// AdvisoryLock wraps pg_try_advisory_lock on a dedicated connection. The
// connection is pinned while the lock is held because advisory locks are
// session-scoped.
type AdvisoryLock struct {
	db  *sqlx.DB
	key int64

	mu   sync.Mutex
	conn *sqlx.Conn
}

func NewAdvisoryLock(db *sqlx.DB, key int64) *AdvisoryLock {
	return &AdvisoryLock{db: db, key: key}
}

func (l *AdvisoryLock) TryAcquire(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		return false, fmt.Errorf("advisory lock %d already held by this process", l.key)
	}

	conn, err := l.db.Connx(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection for advisory lock: %w", err)
	}

	var acquired bool
	if err := conn.GetContext(ctx, &acquired, "SELECT pg_try_advisory_lock($1)", l.key); err != nil {
		_ = conn.Close()
		return false, fmt.Errorf("try advisory lock %d: %w", l.key, err)
	}
	if !acquired {
		_ = conn.Close()
		return false, nil
	}

	l.conn = conn
	return true, nil
}

func (l *AdvisoryLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}

	var released bool
	err := l.conn.GetContext(ctx, &released, "SELECT pg_advisory_unlock($1)", l.key)
	closeErr := l.conn.Close()
	l.conn = nil

	if err != nil {
		return fmt.Errorf("release advisory lock %d: %w", l.key, err)
	}
	if closeErr != nil {
		return fmt.Errorf("close advisory lock connection: %w", closeErr)
	}
	return nil
}

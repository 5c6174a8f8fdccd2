package locking

import (
	"context"
	"sync"
)

// MemoryLocker is an in-process Locker used by tests and local development.
type MemoryLocker struct {
	mu   sync.Mutex
	held bool
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{}
}

func (l *MemoryLocker) TryAcquire(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.held = false
	return nil
}

package locking

import (
	"context"
	"testing"
)

func TestMemoryLocker_MutualExclusion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	locker := NewMemoryLocker()

	acquired, err := locker.TryAcquire(ctx)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if !acquired {
		t.Fatal("expected first acquire to succeed")
	}

	acquired, err = locker.TryAcquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if acquired {
		t.Fatal("expected second acquire to fail while held")
	}

	if err := locker.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}

	acquired, err = locker.TryAcquire(ctx)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if !acquired {
		t.Fatal("expected acquire after release to succeed")
	}
}

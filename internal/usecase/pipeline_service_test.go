package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/oddspulse/oddspulse/external/oddsfeed"
	"github.com/oddspulse/oddspulse/internal/infrastructure/repository/memory"
	"github.com/oddspulse/oddspulse/internal/platform/locking"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

func newPipelineFixture(t *testing.T, locker locking.Locker) *PipelineService {
	t.Helper()

	gameRepo := memory.NewGameRepository()
	betEventRepo := memory.NewBetEventRepository()
	catalogRepo := memory.NewCatalogRepository()
	statsSvc := NewStatsService(
		memory.NewRecommendationRepository(nil),
		memory.NewRangeRepository(nil),
		memory.NewStatsRepository(),
		logging.NewNop(),
	)

	resultProvider := &stubResultProvider{finished: map[string]bool{}, results: map[string][]oddsfeed.ResultEntry{}}
	marketProvider := &stubMarketProvider{games: map[string][]oddsfeed.GameEntry{}, markets: map[string][]oddsfeed.BetEventEntry{}}

	resolution := NewResolutionService(resultProvider, gameRepo, betEventRepo, statsSvc, logging.NewNop())
	ingest := NewEventIngestService(marketProvider, catalogRepo, memory.NewIngestStore(gameRepo, betEventRepo), EventIngestConfig{}, logging.NewNop())
	retention := NewRetentionService(gameRepo, RetentionConfig{Window: 48 * time.Hour}, logging.NewNop())

	return NewPipelineService(locker, resolution, ingest, retention, logging.NewNop())
}

func TestPipelineService_RunCycle(t *testing.T) {
	t.Parallel()

	svc := newPipelineFixture(t, locking.NewMemoryLocker())

	result, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if result.Skipped {
		t.Fatal("cycle must run when the lock is free")
	}

	// The lock must be released afterwards, so a second cycle runs too.
	result, err = svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second RunCycle error: %v", err)
	}
	if result.Skipped {
		t.Fatal("second cycle must run after the first released the lock")
	}
}

func TestPipelineService_SkipsWhenLockHeld(t *testing.T) {
	t.Parallel()

	locker := locking.NewMemoryLocker()
	acquired, err := locker.TryAcquire(context.Background())
	if err != nil || !acquired {
		t.Fatalf("pre-acquire lock: %v %v", acquired, err)
	}

	svc := newPipelineFixture(t, locker)

	result, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if !result.Skipped {
		t.Fatal("cycle must be skipped while the lock is held elsewhere")
	}
}

package usecase

import (
	"context"
	"fmt"

	"github.com/oddspulse/oddspulse/internal/platform/locking"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

type PipelineResult struct {
	Skipped    bool              `json:"skipped"`
	Resolution ResolutionResult  `json:"resolution"`
	Ingest     EventIngestResult `json:"ingest"`
	Retention  RetentionResult   `json:"retention"`
}

// PipelineService runs one full resolve-ingest-sweep cycle under an exclusive
// lock. Resolution runs first so outcomes settle before the window moves, and
// retention runs last so settled games age out in the same cycle.
type PipelineService struct {
	locker     locking.Locker
	resolution *ResolutionService
	ingest     *EventIngestService
	retention  *RetentionService
	logger     *logging.Logger
}

func NewPipelineService(
	locker locking.Locker,
	resolution *ResolutionService,
	ingest *EventIngestService,
	retention *RetentionService,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PipelineService{
		locker:     locker,
		resolution: resolution,
		ingest:     ingest,
		retention:  retention,
		logger:     logger,
	}
}

// RunCycle executes one pipeline pass. When another instance holds the lock
// the cycle is skipped rather than queued; the next tick tries again.
func (s *PipelineService) RunCycle(ctx context.Context) (PipelineResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.RunCycle")
	defer span.End()

	acquired, err := s.locker.TryAcquire(ctx)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("acquire pipeline lock: %w", err)
	}
	if !acquired {
		s.logger.InfoContext(ctx, "pipeline cycle skipped, lock held elsewhere")
		return PipelineResult{Skipped: true}, nil
	}
	defer func() {
		if err := s.locker.Release(ctx); err != nil {
			s.logger.WarnContext(ctx, "pipeline lock release failed", "error", err)
		}
	}()

	var result PipelineResult

	result.Resolution, err = s.resolution.Resolve(ctx)
	if err != nil {
		return result, fmt.Errorf("resolution stage: %w", err)
	}

	result.Ingest, err = s.ingest.Ingest(ctx)
	if err != nil {
		return result, fmt.Errorf("ingest stage: %w", err)
	}

	result.Retention, err = s.retention.Sweep(ctx)
	if err != nil {
		return result, fmt.Errorf("retention stage: %w", err)
	}

	return result, nil
}

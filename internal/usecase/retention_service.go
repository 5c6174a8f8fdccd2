package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/oddspulse/oddspulse/internal/domain/market"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

type RetentionConfig struct {
	// Window is how far back games are kept, measured from their start time.
	Window time.Duration
}

type RetentionResult struct {
	GamesDeleted     int64 `json:"games_deleted"`
	BetEventsDeleted int64 `json:"bet_events_deleted"`
}

type RetentionService struct {
	gameRepo market.GameRepository
	cfg      RetentionConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewRetentionService(gameRepo market.GameRepository, cfg RetentionConfig, logger *logging.Logger) *RetentionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Window <= 0 {
		cfg.Window = 48 * time.Hour
	}

	return &RetentionService{
		gameRepo: gameRepo,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Sweep deletes games that started before the retention cutoff, together with
// their bet events. Running it twice in a row deletes nothing the second time.
func (s *RetentionService) Sweep(ctx context.Context) (RetentionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RetentionService.Sweep")
	defer span.End()

	cutoff := s.now().UTC().Add(-s.cfg.Window)
	games, betEvents, err := s.gameRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return RetentionResult{}, fmt.Errorf("delete games older than %s: %w", cutoff.Format(time.RFC3339), err)
	}

	s.logger.InfoContext(ctx, "retention sweep finished",
		"cutoff", cutoff.Format(time.RFC3339),
		"games_deleted", games,
		"bet_events_deleted", betEvents,
	)

	return RetentionResult{GamesDeleted: games, BetEventsDeleted: betEvents}, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/oddspulse/oddspulse/internal/domain/market"
	"github.com/oddspulse/oddspulse/internal/domain/tipster"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

// StatsService maintains tipster aggregates incrementally. Each scored
// recommendation contributes once; a later correction is applied as the signed
// difference between the new and old contributions, never as a recount.
type StatsService struct {
	recommendationRepo tipster.RecommendationRepository
	rangeRepo          tipster.RangeRepository
	statsRepo          tipster.StatsRepository
	logger             *logging.Logger
}

func NewStatsService(
	recommendationRepo tipster.RecommendationRepository,
	rangeRepo tipster.RangeRepository,
	statsRepo tipster.StatsRepository,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StatsService{
		recommendationRepo: recommendationRepo,
		rangeRepo:          rangeRepo,
		statsRepo:          statsRepo,
		logger:             logger,
	}
}

// ApplyOutcomeChange updates every scope touched by recommendations on the
// event after its outcome moved from old to new. Unscored-to-unscored moves
// are no-ops; scored-to-scored moves produce a compensating delta.
func (s *StatsService) ApplyOutcomeChange(ctx context.Context, event market.BetEvent, oldOutcome, newOutcome market.Outcome) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ApplyOutcomeChange")
	defer span.End()

	if oldOutcome == newOutcome {
		return nil
	}
	if !oldOutcome.Scored() && !newOutcome.Scored() {
		return nil
	}

	recommendations, err := s.recommendationRepo.ListByBetEvent(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("list recommendations bet_event_id=%d: %w", event.ID, err)
	}
	if len(recommendations) == 0 {
		return nil
	}

	rangeID, err := s.rangeIDForOdds(ctx, event.Odds)
	if err != nil {
		return err
	}

	for _, rec := range recommendations {
		delta := contribution(rec, event, newOutcome).Add(contribution(rec, event, oldOutcome).Negate())
		if delta.IsZero() {
			continue
		}

		key := tipster.StatsKey{
			TipsterID: rec.TipsterID,
			TierID:    rec.TierID,
			RangeID:   rangeID,
		}
		if err := s.statsRepo.ApplyDelta(ctx, key, delta); err != nil {
			return fmt.Errorf("apply stats delta tipster_id=%d bet_event_id=%d: %w", rec.TipsterID, event.ID, err)
		}
	}

	return nil
}

// GetTipsterStats reads the tipster-level aggregate, scoped by tier when
// tierID is set. Missing aggregates map to ErrNotFound.
func (s *StatsService) GetTipsterStats(ctx context.Context, tipsterID int64, tierID *int64) (*tipster.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.GetTipsterStats")
	defer span.End()

	if tipsterID <= 0 {
		return nil, fmt.Errorf("%w: tipster id must be positive", ErrInvalidInput)
	}

	stats, err := s.statsRepo.GetStats(ctx, tipsterID, tierID)
	if err != nil {
		return nil, fmt.Errorf("get stats tipster_id=%d: %w", tipsterID, err)
	}
	if stats == nil {
		return nil, fmt.Errorf("%w: no stats for tipster id=%d", ErrNotFound, tipsterID)
	}

	return stats, nil
}

// GetTipsterRangeStats reads the odds-range scoped aggregate.
func (s *StatsService) GetTipsterRangeStats(ctx context.Context, tipsterID int64, tierID *int64, rangeID int64) (*tipster.RangeStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.GetTipsterRangeStats")
	defer span.End()

	if tipsterID <= 0 || rangeID <= 0 {
		return nil, fmt.Errorf("%w: tipster id and range id must be positive", ErrInvalidInput)
	}

	stats, err := s.statsRepo.GetRangeStats(ctx, tipsterID, tierID, rangeID)
	if err != nil {
		return nil, fmt.Errorf("get range stats tipster_id=%d range_id=%d: %w", tipsterID, rangeID, err)
	}
	if stats == nil {
		return nil, fmt.Errorf("%w: no stats for tipster id=%d range id=%d", ErrNotFound, tipsterID, rangeID)
	}

	return stats, nil
}

func (s *StatsService) rangeIDForOdds(ctx context.Context, odds float64) (*int64, error) {
	ranges, err := s.rangeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list odds ranges: %w", err)
	}
	for _, r := range ranges {
		if r.Contains(odds) {
			id := r.ID
			return &id, nil
		}
	}
	return nil, nil
}

// contribution is what one recommendation adds to the aggregates for a given
// outcome. Only decided outcomes contribute.
func contribution(rec tipster.Recommendation, event market.BetEvent, outcome market.Outcome) tipster.StatsDelta {
	if !outcome.Scored() {
		return tipster.StatsDelta{}
	}

	stake := rec.StakeOrDefault()
	delta := tipster.StatsDelta{
		Picks: 1,
		Stake: stake,
		Odds:  event.Odds,
	}
	if outcome == market.OutcomeWin {
		delta.PicksWon = 1
		delta.Return = stake * event.Odds
	}
	if strings.TrimSpace(rec.Description) != "" {
		delta.WithDescription = 1
	}

	return delta
}

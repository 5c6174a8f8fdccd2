package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/oddspulse/oddspulse/internal/domain/market"
	"github.com/oddspulse/oddspulse/internal/domain/tipster"
	"github.com/oddspulse/oddspulse/internal/infrastructure/repository/memory"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

func TestStatsService_WinContribution(t *testing.T) {
	t.Parallel()

	recRepo := memory.NewRecommendationRepository([]tipster.Recommendation{
		{TipsterID: 7, BetEventID: 100, Description: "value pick"},
	})
	rangeRepo := memory.NewRangeRepository([]tipster.OddsRange{
		{ID: 1, Name: "mid", Start: 1.5, End: 2.5},
	})
	statsRepo := memory.NewStatsRepository()
	svc := NewStatsService(recRepo, rangeRepo, statsRepo, logging.NewNop())

	event := market.BetEvent{ID: 100, Odds: 2.0}
	if err := svc.ApplyOutcomeChange(context.Background(), event, market.OutcomeToResolve, market.OutcomeWin); err != nil {
		t.Fatalf("ApplyOutcomeChange error: %v", err)
	}

	stats, err := statsRepo.GetStats(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats == nil {
		t.Fatal("expected stats row, got nil")
	}
	if stats.TotalPicks != 1 || stats.TotalPicksWon != 1 {
		t.Fatalf("picks = %d/%d, want 1/1", stats.TotalPicks, stats.TotalPicksWon)
	}
	if stats.SumStake != 1.0 {
		t.Fatalf("sum stake = %v, want 1.0", stats.SumStake)
	}
	if stats.TotalReturn != 2.0 {
		t.Fatalf("total return = %v, want 2.0 (default stake times odds)", stats.TotalReturn)
	}
	if stats.SumOdds != 2.0 {
		t.Fatalf("sum odds = %v, want 2.0", stats.SumOdds)
	}
	if stats.PicksWithDescription != 1 {
		t.Fatalf("picks with description = %d, want 1", stats.PicksWithDescription)
	}

	rangeStats, err := statsRepo.GetRangeStats(context.Background(), 7, nil, 1)
	if err != nil {
		t.Fatalf("GetRangeStats error: %v", err)
	}
	if rangeStats == nil {
		t.Fatal("expected range stats row for odds 2.0 in [1.5, 2.5]")
	}
	if rangeStats.TotalPicks != 1 || rangeStats.TotalReturn != 2.0 {
		t.Fatalf("unexpected range stats: %+v", rangeStats)
	}
}

func TestStatsService_LossContribution(t *testing.T) {
	t.Parallel()

	stake := 2.5
	recRepo := memory.NewRecommendationRepository([]tipster.Recommendation{
		{TipsterID: 7, BetEventID: 100, Stake: &stake},
	})
	statsRepo := memory.NewStatsRepository()
	svc := NewStatsService(recRepo, memory.NewRangeRepository(nil), statsRepo, logging.NewNop())

	event := market.BetEvent{ID: 100, Odds: 3.0}
	if err := svc.ApplyOutcomeChange(context.Background(), event, market.OutcomeUnset, market.OutcomeLoss); err != nil {
		t.Fatalf("ApplyOutcomeChange error: %v", err)
	}

	stats, err := statsRepo.GetStats(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.TotalPicks != 1 || stats.TotalPicksWon != 0 {
		t.Fatalf("picks = %d/%d, want 1/0", stats.TotalPicks, stats.TotalPicksWon)
	}
	if stats.SumStake != 2.5 {
		t.Fatalf("sum stake = %v, want 2.5", stats.SumStake)
	}
	if stats.TotalReturn != 0 {
		t.Fatalf("total return = %v, want 0 on a loss", stats.TotalReturn)
	}
	if stats.PicksWithDescription != 0 {
		t.Fatalf("picks with description = %d, want 0", stats.PicksWithDescription)
	}
}

func TestStatsService_UnscoredOutcomesDoNotCount(t *testing.T) {
	t.Parallel()

	recRepo := memory.NewRecommendationRepository([]tipster.Recommendation{
		{TipsterID: 7, BetEventID: 100},
	})
	statsRepo := memory.NewStatsRepository()
	svc := NewStatsService(recRepo, memory.NewRangeRepository(nil), statsRepo, logging.NewNop())

	event := market.BetEvent{ID: 100, Odds: 2.0}
	for _, next := range []market.Outcome{market.OutcomeToResolve, market.OutcomeVoid, market.OutcomeUnknown} {
		if err := svc.ApplyOutcomeChange(context.Background(), event, market.OutcomeUnset, next); err != nil {
			t.Fatalf("ApplyOutcomeChange(%q) error: %v", next, err)
		}
	}

	stats, err := statsRepo.GetStats(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats != nil {
		t.Fatalf("expected no stats row for unscored outcomes, got %+v", stats)
	}
}

func TestStatsService_CorrectionCompensates(t *testing.T) {
	t.Parallel()

	recRepo := memory.NewRecommendationRepository([]tipster.Recommendation{
		{TipsterID: 7, BetEventID: 100},
	})
	statsRepo := memory.NewStatsRepository()
	svc := NewStatsService(recRepo, memory.NewRangeRepository(nil), statsRepo, logging.NewNop())

	event := market.BetEvent{ID: 100, Odds: 2.0}
	if err := svc.ApplyOutcomeChange(context.Background(), event, market.OutcomeToResolve, market.OutcomeWin); err != nil {
		t.Fatalf("apply win: %v", err)
	}
	if err := svc.ApplyOutcomeChange(context.Background(), event, market.OutcomeWin, market.OutcomeLoss); err != nil {
		t.Fatalf("apply correction: %v", err)
	}

	stats, err := statsRepo.GetStats(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.TotalPicks != 1 {
		t.Fatalf("total picks = %d, want 1 (no double counting across correction)", stats.TotalPicks)
	}
	if stats.TotalPicksWon != 0 {
		t.Fatalf("picks won = %d, want 0 after win was corrected to loss", stats.TotalPicksWon)
	}
	if stats.TotalReturn != 0 {
		t.Fatalf("total return = %v, want 0 after correction", stats.TotalReturn)
	}
	if stats.SumStake != 1.0 || stats.SumOdds != 2.0 {
		t.Fatalf("stake/odds sums changed on correction: %+v", stats)
	}
}

func TestStatsService_TierScopes(t *testing.T) {
	t.Parallel()

	tierID := int64(42)
	recRepo := memory.NewRecommendationRepository([]tipster.Recommendation{
		{TipsterID: 7, BetEventID: 100, TierID: &tierID},
	})
	rangeRepo := memory.NewRangeRepository([]tipster.OddsRange{
		{ID: 1, Name: "mid", Start: 1.5, End: 2.5},
	})
	statsRepo := memory.NewStatsRepository()
	svc := NewStatsService(recRepo, rangeRepo, statsRepo, logging.NewNop())

	event := market.BetEvent{ID: 100, Odds: 2.0}
	if err := svc.ApplyOutcomeChange(context.Background(), event, market.OutcomeUnset, market.OutcomeWin); err != nil {
		t.Fatalf("ApplyOutcomeChange error: %v", err)
	}

	tierStats, err := statsRepo.GetStats(context.Background(), 7, &tierID)
	if err != nil {
		t.Fatalf("GetStats tier error: %v", err)
	}
	if tierStats == nil || tierStats.TotalPicks != 1 {
		t.Fatalf("expected tier scope to be updated, got %+v", tierStats)
	}

	tierRangeStats, err := statsRepo.GetRangeStats(context.Background(), 7, &tierID, 1)
	if err != nil {
		t.Fatalf("GetRangeStats tier error: %v", err)
	}
	if tierRangeStats == nil || tierRangeStats.TotalPicks != 1 {
		t.Fatalf("expected tier-range scope to be updated, got %+v", tierRangeStats)
	}
}

func TestStatsService_OddsOutsideEveryRange(t *testing.T) {
	t.Parallel()

	recRepo := memory.NewRecommendationRepository([]tipster.Recommendation{
		{TipsterID: 7, BetEventID: 100},
	})
	rangeRepo := memory.NewRangeRepository([]tipster.OddsRange{
		{ID: 1, Name: "mid", Start: 1.5, End: 2.5},
	})
	statsRepo := memory.NewStatsRepository()
	svc := NewStatsService(recRepo, rangeRepo, statsRepo, logging.NewNop())

	event := market.BetEvent{ID: 100, Odds: 3.0}
	if err := svc.ApplyOutcomeChange(context.Background(), event, market.OutcomeUnset, market.OutcomeWin); err != nil {
		t.Fatalf("ApplyOutcomeChange error: %v", err)
	}

	stats, err := statsRepo.GetStats(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats == nil || stats.TotalPicks != 1 {
		t.Fatalf("main scope must still count, got %+v", stats)
	}

	rangeStats, err := statsRepo.GetRangeStats(context.Background(), 7, nil, 1)
	if err != nil {
		t.Fatalf("GetRangeStats error: %v", err)
	}
	if rangeStats != nil {
		t.Fatalf("odds 3.0 is outside [1.5, 2.5], range scope must stay empty, got %+v", rangeStats)
	}
}

func TestStatsService_TierStatsScopedToOwningTipster(t *testing.T) {
	t.Parallel()

	tier := int64(5)
	recRepo := memory.NewRecommendationRepository([]tipster.Recommendation{
		{TipsterID: 7, BetEventID: 100, TierID: &tier},
	})
	rangeRepo := memory.NewRangeRepository([]tipster.OddsRange{
		{ID: 1, Name: "mid", Start: 1.5, End: 2.5},
	})
	statsRepo := memory.NewStatsRepository()
	svc := NewStatsService(recRepo, rangeRepo, statsRepo, logging.NewNop())

	event := market.BetEvent{ID: 100, Odds: 2.0}
	if err := svc.ApplyOutcomeChange(context.Background(), event, market.OutcomeToResolve, market.OutcomeWin); err != nil {
		t.Fatalf("ApplyOutcomeChange error: %v", err)
	}

	// The owning tipster reads the tier aggregate.
	stats, err := svc.GetTipsterStats(context.Background(), 7, &tier)
	if err != nil {
		t.Fatalf("GetTipsterStats error: %v", err)
	}
	if stats.TotalPicksWon != 1 {
		t.Fatalf("picks won = %d, want 1", stats.TotalPicksWon)
	}

	// Another tipster asking for the same tier gets not-found, not the
	// owner's numbers.
	if _, err := svc.GetTipsterStats(context.Background(), 8, &tier); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign tier, got %v", err)
	}
	if _, err := svc.GetTipsterRangeStats(context.Background(), 8, &tier, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign tier range, got %v", err)
	}
}

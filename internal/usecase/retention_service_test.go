package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/oddspulse/oddspulse/internal/domain/market"
	"github.com/oddspulse/oddspulse/internal/infrastructure/repository/memory"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

func TestRetentionService_SweepDeletesOldGames(t *testing.T) {
	t.Parallel()

	gameRepo := memory.NewGameRepository()
	betEventRepo := memory.NewBetEventRepository()
	gameRepo.SetEventSweep(betEventRepo.DeleteByGameIDs)

	now := time.Now().UTC()
	old := market.Game{SportID: 1, LeagueID: 1, HomeTeam: "Pogon", AwayTeam: "Lech", StartTime: now.Add(-72 * time.Hour)}
	fresh := market.Game{SportID: 1, LeagueID: 1, HomeTeam: "Legia", AwayTeam: "Wisla", StartTime: now.Add(-12 * time.Hour)}
	for _, g := range []*market.Game{&old, &fresh} {
		if err := gameRepo.Upsert(context.Background(), g); err != nil {
			t.Fatalf("seed game: %v", err)
		}
	}
	if _, err := betEventRepo.InsertMissing(context.Background(), old.ID, []market.BetEvent{
		{Market: "Match Result - Home", Odds: 2.0},
		{Market: "Match Result - Away", Odds: 3.0},
	}); err != nil {
		t.Fatalf("seed bet events: %v", err)
	}

	svc := NewRetentionService(gameRepo, RetentionConfig{Window: 48 * time.Hour}, logging.NewNop())

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if result.GamesDeleted != 1 {
		t.Fatalf("games deleted = %d, want 1", result.GamesDeleted)
	}
	if result.BetEventsDeleted != 2 {
		t.Fatalf("bet events deleted = %d, want 2", result.BetEventsDeleted)
	}

	count, err := gameRepo.CountAll(context.Background())
	if err != nil {
		t.Fatalf("CountAll error: %v", err)
	}
	if count != 1 {
		t.Fatalf("remaining games = %d, want 1", count)
	}

	again, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("second Sweep error: %v", err)
	}
	if again.GamesDeleted != 0 || again.BetEventsDeleted != 0 {
		t.Fatalf("second sweep must be a no-op, got %+v", again)
	}
}

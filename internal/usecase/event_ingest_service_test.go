package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oddspulse/oddspulse/external/oddsfeed"
	"github.com/oddspulse/oddspulse/internal/domain/catalog"
	"github.com/oddspulse/oddspulse/internal/domain/market"
	"github.com/oddspulse/oddspulse/internal/infrastructure/repository/memory"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

type stubMarketProvider struct {
	games      map[string][]oddsfeed.GameEntry
	markets    map[string][]oddsfeed.BetEventEntry
	marketErrs map[string]error
	batchSizes []int
}

func (p *stubMarketProvider) FetchLeagueGames(_ context.Context, sportKey string, tournamentKeys []string, _ int) ([]oddsfeed.GameEntry, error) {
	p.batchSizes = append(p.batchSizes, len(tournamentKeys))

	out := make([]oddsfeed.GameEntry, 0)
	for _, key := range tournamentKeys {
		out = append(out, p.games[sportKey+"/"+key]...)
	}
	return out, nil
}

func (p *stubMarketProvider) FetchGameMarkets(_ context.Context, eventID string) ([]oddsfeed.BetEventEntry, error) {
	if err := p.marketErrs[eventID]; err != nil {
		return nil, err
	}
	return p.markets[eventID], nil
}

func seedIngestCatalog(t *testing.T, leagues int) *memory.CatalogRepository {
	t.Helper()

	catalogRepo := memory.NewCatalogRepository()
	if err := catalogRepo.SyncSports(context.Background(), []catalog.Sport{
		{Name: "Soccer", ExternalKey: "soccer"},
	}); err != nil {
		t.Fatalf("seed sports: %v", err)
	}

	seeds := make([]catalog.LeagueSeed, 0, leagues)
	for i := 0; i < leagues; i++ {
		seeds = append(seeds, catalog.LeagueSeed{
			SportName:        "Soccer",
			SportExternalKey: "soccer",
			ExternalKey:      "league-" + string(rune('a'+i)),
			Name:             "League " + string(rune('A'+i)),
		})
	}
	if err := catalogRepo.SyncCatalog(context.Background(), seeds); err != nil {
		t.Fatalf("seed leagues: %v", err)
	}

	stored, err := catalogRepo.ListLeagues(context.Background())
	if err != nil {
		t.Fatalf("list leagues: %v", err)
	}
	for _, l := range stored {
		if err := catalogRepo.SetLeagueDownload(context.Background(), l.ID, true); err != nil {
			t.Fatalf("enable download: %v", err)
		}
	}
	return catalogRepo
}

func TestEventIngestService_IngestIsIdempotent(t *testing.T) {
	t.Parallel()

	catalogRepo := seedIngestCatalog(t, 1)
	gameRepo := memory.NewGameRepository()
	betEventRepo := memory.NewBetEventRepository()

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	provider := &stubMarketProvider{
		games: map[string][]oddsfeed.GameEntry{
			"soccer/league-a": {
				{HomeTeam: "Pogon", AwayTeam: "Lech", StartTime: start, TournamentKey: "league-a", ExternalID: "evt-1"},
			},
		},
		markets: map[string][]oddsfeed.BetEventEntry{
			"evt-1": {
				{ExternalID: "uuid-1", Label: "Match Result - Home", Odds: 2.1},
				{ExternalID: "uuid-2", Label: "Match Result - Away", Odds: 3.4},
			},
		},
	}

	svc := NewEventIngestService(provider, catalogRepo, memory.NewIngestStore(gameRepo, betEventRepo), EventIngestConfig{}, logging.NewNop())

	first, err := svc.Ingest(context.Background())
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if first.GamesUpserted != 1 || first.EventsInserted != 2 {
		t.Fatalf("unexpected first run: %+v", first)
	}

	second, err := svc.Ingest(context.Background())
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if second.EventsInserted != 0 {
		t.Fatalf("second run inserted %d events, want 0", second.EventsInserted)
	}

	gameCount, err := gameRepo.CountAll(context.Background())
	if err != nil {
		t.Fatalf("CountAll games: %v", err)
	}
	if gameCount != 1 {
		t.Fatalf("game count = %d, want 1 after repeat ingest", gameCount)
	}
	eventCount, err := betEventRepo.CountAll(context.Background())
	if err != nil {
		t.Fatalf("CountAll events: %v", err)
	}
	if eventCount != 2 {
		t.Fatalf("bet event count = %d, want 2 after repeat ingest", eventCount)
	}
}

func TestEventIngestService_BatchesTournaments(t *testing.T) {
	t.Parallel()

	catalogRepo := seedIngestCatalog(t, 12)
	provider := &stubMarketProvider{games: map[string][]oddsfeed.GameEntry{}, markets: map[string][]oddsfeed.BetEventEntry{}}
	svc := NewEventIngestService(provider, catalogRepo, memory.NewIngestStore(memory.NewGameRepository(), memory.NewBetEventRepository()), EventIngestConfig{}, logging.NewNop())

	if _, err := svc.Ingest(context.Background()); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	if len(provider.batchSizes) != 2 {
		t.Fatalf("batch count = %d, want 2 for 12 leagues", len(provider.batchSizes))
	}
	for _, size := range provider.batchSizes {
		if size > 10 {
			t.Fatalf("batch size %d exceeds the ceiling of 10", size)
		}
	}
}

func TestEventIngestService_SkipsUnknownTournament(t *testing.T) {
	t.Parallel()

	catalogRepo := seedIngestCatalog(t, 1)
	gameRepo := memory.NewGameRepository()

	start := time.Now().UTC().Add(24 * time.Hour)
	provider := &stubMarketProvider{
		games: map[string][]oddsfeed.GameEntry{
			"soccer/league-a": {
				{HomeTeam: "Pogon", AwayTeam: "Lech", StartTime: start, TournamentKey: "league-unknown", ExternalID: "evt-1"},
			},
		},
		markets: map[string][]oddsfeed.BetEventEntry{},
	}
	svc := NewEventIngestService(provider, catalogRepo, memory.NewIngestStore(gameRepo, memory.NewBetEventRepository()), EventIngestConfig{}, logging.NewNop())

	result, err := svc.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if result.GamesSkipped != 1 || result.GamesUpserted != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	count, err := gameRepo.CountAll(context.Background())
	if err != nil {
		t.Fatalf("CountAll error: %v", err)
	}
	if count != 0 {
		t.Fatalf("game count = %d, want 0", count)
	}
}

func TestEventIngestService_GameWithoutExternalIDHasNoMarkets(t *testing.T) {
	t.Parallel()

	catalogRepo := seedIngestCatalog(t, 1)
	betEventRepo := memory.NewBetEventRepository()

	start := time.Now().UTC().Add(24 * time.Hour)
	provider := &stubMarketProvider{
		games: map[string][]oddsfeed.GameEntry{
			"soccer/league-a": {
				{HomeTeam: "Pogon", AwayTeam: "Lech", StartTime: start, TournamentKey: "league-a"},
			},
		},
		markets: map[string][]oddsfeed.BetEventEntry{},
	}
	svc := NewEventIngestService(provider, catalogRepo, memory.NewIngestStore(memory.NewGameRepository(), betEventRepo), EventIngestConfig{}, logging.NewNop())

	result, err := svc.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if result.GamesUpserted != 1 || result.EventsInserted != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

type failingIngestStore struct {
	batches [][]market.GameIngest
}

func (s *failingIngestStore) ApplyBatch(_ context.Context, batch []market.GameIngest) (int, int, error) {
	s.batches = append(s.batches, batch)
	return 0, 0, errors.New("storage offline")
}

func TestEventIngestService_FailedBatchCommitsNothing(t *testing.T) {
	t.Parallel()

	catalogRepo := seedIngestCatalog(t, 1)
	store := &failingIngestStore{}

	start := time.Now().UTC().Add(24 * time.Hour)
	provider := &stubMarketProvider{
		games: map[string][]oddsfeed.GameEntry{
			"soccer/league-a": {
				{HomeTeam: "Pogon", AwayTeam: "Lech", StartTime: start, TournamentKey: "league-a", ExternalID: "evt-1"},
				{HomeTeam: "Wisla", AwayTeam: "Legia", StartTime: start, TournamentKey: "league-a", ExternalID: "evt-2"},
			},
		},
		markets: map[string][]oddsfeed.BetEventEntry{},
	}
	svc := NewEventIngestService(provider, catalogRepo, store, EventIngestConfig{}, logging.NewNop())

	result, err := svc.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	// The whole batch travels in one store call, so nothing commits when
	// the store fails mid-run.
	if len(store.batches) != 1 || len(store.batches[0]) != 2 {
		t.Fatalf("expected both games in one batch call, got %+v", store.batches)
	}
	if result.BatchesFailed != 1 {
		t.Fatalf("batches failed = %d, want 1", result.BatchesFailed)
	}
	if result.GamesUpserted != 0 || result.EventsInserted != 0 {
		t.Fatalf("failed batch must not be counted, got %+v", result)
	}
}

func TestEventIngestService_MarketFetchFailureKeepsGame(t *testing.T) {
	t.Parallel()

	catalogRepo := seedIngestCatalog(t, 1)
	gameRepo := memory.NewGameRepository()
	betEventRepo := memory.NewBetEventRepository()

	start := time.Now().UTC().Add(24 * time.Hour)
	provider := &stubMarketProvider{
		games: map[string][]oddsfeed.GameEntry{
			"soccer/league-a": {
				{HomeTeam: "Pogon", AwayTeam: "Lech", StartTime: start, TournamentKey: "league-a", ExternalID: "evt-1"},
				{HomeTeam: "Wisla", AwayTeam: "Legia", StartTime: start, TournamentKey: "league-a", ExternalID: "evt-2"},
			},
		},
		markets: map[string][]oddsfeed.BetEventEntry{
			"evt-2": {{ExternalID: "uuid-1", Label: "Match Result - Home", Odds: 2.1}},
		},
		marketErrs: map[string]error{"evt-1": errors.New("feed timeout")},
	}
	svc := NewEventIngestService(provider, catalogRepo, memory.NewIngestStore(gameRepo, betEventRepo), EventIngestConfig{}, logging.NewNop())

	result, err := svc.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	// One game's markets failing is not a batch failure. Both games land;
	// only the healthy game gets events this run.
	if result.BatchesFailed != 0 {
		t.Fatalf("batches failed = %d, want 0", result.BatchesFailed)
	}
	if result.GamesUpserted != 2 {
		t.Fatalf("games upserted = %d, want 2", result.GamesUpserted)
	}
	if result.EventsInserted != 1 {
		t.Fatalf("events inserted = %d, want 1", result.EventsInserted)
	}
}

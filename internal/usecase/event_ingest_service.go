package usecase

import (
	"context"
	"fmt"

	"github.com/oddspulse/oddspulse/external/oddsfeed"
	"github.com/oddspulse/oddspulse/internal/domain/catalog"
	"github.com/oddspulse/oddspulse/internal/domain/market"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

// MarketProvider is the slice of the odds feed event ingestion needs.
type MarketProvider interface {
	FetchLeagueGames(ctx context.Context, sportKey string, tournamentKeys []string, daysForward int) ([]oddsfeed.GameEntry, error)
	FetchGameMarkets(ctx context.Context, eventID string) ([]oddsfeed.BetEventEntry, error)
}

type EventIngestConfig struct {
	// DaysForward bounds the ingestion window to games starting between today
	// and today plus this many days.
	DaysForward int
	// BatchSize caps tournaments per feed request.
	BatchSize int
}

type EventIngestResult struct {
	LeaguesQueried int `json:"leagues_queried"`
	GamesUpserted  int `json:"games_upserted"`
	EventsInserted int `json:"events_inserted"`
	GamesSkipped   int `json:"games_skipped"`
	BatchesFailed  int `json:"batches_failed"`
}

type EventIngestService struct {
	provider    MarketProvider
	catalogRepo catalog.Repository
	store       market.IngestStore
	cfg         EventIngestConfig
	logger      *logging.Logger
}

func NewEventIngestService(
	provider MarketProvider,
	catalogRepo catalog.Repository,
	store market.IngestStore,
	cfg EventIngestConfig,
	logger *logging.Logger,
) *EventIngestService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DaysForward <= 0 {
		cfg.DaysForward = 3
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > 10 {
		cfg.BatchSize = 10
	}

	return &EventIngestService{
		provider:    provider,
		catalogRepo: catalogRepo,
		store:       store,
		cfg:         cfg,
		logger:      logger,
	}
}

// Ingest walks every league enabled for download, grouped per sport and
// batched per feed request. Each batch commits as one unit: a failing batch
// rolls back and is logged, and the run moves on to the next batch.
func (s *EventIngestService) Ingest(ctx context.Context) (EventIngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventIngestService.Ingest")
	defer span.End()

	leagues, err := s.catalogRepo.ListDownloadLeagues(ctx)
	if err != nil {
		return EventIngestResult{}, fmt.Errorf("list download leagues: %w", err)
	}
	if len(leagues) == 0 {
		return EventIngestResult{}, nil
	}

	sports, err := s.catalogRepo.ListSports(ctx)
	if err != nil {
		return EventIngestResult{}, fmt.Errorf("list sports: %w", err)
	}
	sportByID := make(map[int64]catalog.Sport, len(sports))
	for _, sport := range sports {
		sportByID[sport.ID] = sport
	}

	leagueByKey := make(map[string]catalog.League, len(leagues))
	leaguesBySport := make(map[int64][]catalog.League, 8)
	for _, league := range leagues {
		leagueByKey[league.ExternalKey] = league
		leaguesBySport[league.SportID] = append(leaguesBySport[league.SportID], league)
	}

	result := EventIngestResult{LeaguesQueried: len(leagues)}
	for sportID, sportLeagues := range leaguesBySport {
		sport, ok := sportByID[sportID]
		if !ok || sport.ExternalKey == "" {
			s.logger.WarnContext(ctx, "sport has no external key, leagues skipped",
				"sport_id", sportID,
				"leagues", len(sportLeagues),
			)
			continue
		}

		for start := 0; start < len(sportLeagues); start += s.cfg.BatchSize {
			end := min(start+s.cfg.BatchSize, len(sportLeagues))
			batch := sportLeagues[start:end]
			keys := make([]string, 0, len(batch))
			for _, league := range batch {
				keys = append(keys, league.ExternalKey)
			}

			if err := s.ingestBatch(ctx, sport, keys, leagueByKey, &result); err != nil {
				result.BatchesFailed++
				s.logger.WarnContext(ctx, "tournament batch failed",
					"sport", sport.Name,
					"tournaments", keys,
					"error", err,
				)
			}
		}
	}

	s.logger.InfoContext(ctx, "event ingestion finished",
		"leagues_queried", result.LeaguesQueried,
		"games_upserted", result.GamesUpserted,
		"events_inserted", result.EventsInserted,
		"games_skipped", result.GamesSkipped,
		"batches_failed", result.BatchesFailed,
	)

	return result, nil
}

// ingestBatch gathers everything the batch needs from the feed first, then
// hands the whole batch to the store for one atomic write. No transaction is
// held open across network calls.
func (s *EventIngestService) ingestBatch(
	ctx context.Context,
	sport catalog.Sport,
	tournamentKeys []string,
	leagueByKey map[string]catalog.League,
	result *EventIngestResult,
) error {
	games, err := s.provider.FetchLeagueGames(ctx, sport.ExternalKey, tournamentKeys, s.cfg.DaysForward)
	if err != nil {
		return fmt.Errorf("fetch league games: %w", err)
	}

	batch := make([]market.GameIngest, 0, len(games))
	for _, entry := range games {
		league, ok := leagueByKey[entry.TournamentKey]
		if !ok {
			result.GamesSkipped++
			s.logger.WarnContext(ctx, "game references unknown tournament, skipped",
				"tournament_key", entry.TournamentKey,
				"home_team", entry.HomeTeam,
				"away_team", entry.AwayTeam,
			)
			continue
		}

		item := market.GameIngest{
			Game: market.Game{
				SportID:   sport.ID,
				LeagueID:  league.ID,
				HomeTeam:  entry.HomeTeam,
				AwayTeam:  entry.AwayTeam,
				StartTime: entry.StartTime,
			},
		}
		if entry.ExternalID != "" {
			externalID := entry.ExternalID
			item.Game.ExternalID = &externalID

			events, err := s.fetchMarkets(ctx, entry.ExternalID)
			if err != nil {
				// A markets fetch failure stays scoped to its game. The game
				// itself is still ingested and its markets are retried on
				// the next run.
				s.logger.WarnContext(ctx, "game markets fetch failed, game kept without events",
					"event_id", entry.ExternalID,
					"error", err,
				)
			} else {
				item.Events = events
			}
		}
		batch = append(batch, item)
	}

	gamesUpserted, eventsInserted, err := s.store.ApplyBatch(ctx, batch)
	if err != nil {
		return fmt.Errorf("apply ingest batch: %w", err)
	}
	result.GamesUpserted += gamesUpserted
	result.EventsInserted += eventsInserted

	return nil
}

func (s *EventIngestService) fetchMarkets(ctx context.Context, eventID string) ([]market.BetEvent, error) {
	entries, err := s.provider.FetchGameMarkets(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("fetch game markets event_id=%s: %w", eventID, err)
	}

	events := make([]market.BetEvent, 0, len(entries))
	for _, entry := range entries {
		event := market.BetEvent{
			Market: entry.Label,
			Odds:   entry.Odds,
		}
		if entry.ExternalID != "" {
			externalID := entry.ExternalID
			event.ExternalID = &externalID
		}
		if entry.CategoryID != "" {
			categoryID := entry.CategoryID
			event.CategoryID = &categoryID
		}
		if entry.CategoryName != "" {
			categoryName := entry.CategoryName
			event.CategoryName = &categoryName
		}
		events = append(events, event)
	}
	return events, nil
}

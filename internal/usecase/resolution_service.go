package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/oddspulse/oddspulse/external/oddsfeed"
	"github.com/oddspulse/oddspulse/internal/domain/market"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

// ResultProvider is the slice of the odds feed outcome resolution needs.
type ResultProvider interface {
	CheckFinished(ctx context.Context, eventID string) (bool, error)
	FetchResults(ctx context.Context, eventID string) ([]oddsfeed.ResultEntry, error)
}

type ResolutionResult struct {
	GamesChecked    int `json:"games_checked"`
	GamesFinished   int `json:"games_finished"`
	OutcomesUpdated int `json:"outcomes_updated"`
	UnknownResults  int `json:"unknown_results"`
	GamesFailed     int `json:"games_failed"`
}

type outcomeChange struct {
	event market.BetEvent
	prev  market.Outcome
	next  market.Outcome
}

type ResolutionService struct {
	provider     ResultProvider
	gameRepo     market.GameRepository
	betEventRepo market.BetEventRepository
	statsSvc     *StatsService
	logger       *logging.Logger
	now          func() time.Time
}

func NewResolutionService(
	provider ResultProvider,
	gameRepo market.GameRepository,
	betEventRepo market.BetEventRepository,
	statsSvc *StatsService,
	logger *logging.Logger,
) *ResolutionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ResolutionService{
		provider:     provider,
		gameRepo:     gameRepo,
		betEventRepo: betEventRepo,
		statsSvc:     statsSvc,
		logger:       logger,
		now:          time.Now,
	}
}

// Resolve settles every game past its start time. A game that fails keeps the
// run going; its outcomes are retried on the next cycle because the game is
// only marked finished after its results were applied.
func (s *ResolutionService) Resolve(ctx context.Context) (ResolutionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolutionService.Resolve")
	defer span.End()

	games, err := s.gameRepo.ListResolvable(ctx, s.now().UTC())
	if err != nil {
		return ResolutionResult{}, fmt.Errorf("list resolvable games: %w", err)
	}

	result := ResolutionResult{GamesChecked: len(games)}
	for _, game := range games {
		finished, err := s.resolveGame(ctx, game, &result)
		if err != nil {
			result.GamesFailed++
			s.logger.WarnContext(ctx, "game resolution failed",
				"game_id", game.ID,
				"external_id", game.ExternalID,
				"error", err,
			)
			continue
		}
		if finished {
			result.GamesFinished++
		}
	}

	s.logger.InfoContext(ctx, "resolution finished",
		"games_checked", result.GamesChecked,
		"games_finished", result.GamesFinished,
		"outcomes_updated", result.OutcomesUpdated,
		"unknown_results", result.UnknownResults,
		"games_failed", result.GamesFailed,
	)

	return result, nil
}

func (s *ResolutionService) resolveGame(ctx context.Context, game market.Game, result *ResolutionResult) (bool, error) {
	if game.ExternalID == nil || *game.ExternalID == "" {
		return false, nil
	}
	eventID := *game.ExternalID

	finished, err := s.provider.CheckFinished(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("check finished: %w", err)
	}
	if !finished {
		return false, nil
	}

	results, err := s.provider.FetchResults(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("fetch results: %w", err)
	}
	if len(results) == 0 {
		// The stream closed without a usable message. Leave the game
		// unfinished so the next cycle polls it again.
		s.logger.DebugContext(ctx, "result stream delivered nothing, game kept for next cycle",
			"game_id", game.ID,
			"external_id", eventID,
		)
		return false, nil
	}

	changes, unknown, err := s.collectChanges(ctx, results)
	if err != nil {
		return false, err
	}
	result.UnknownResults += unknown

	if len(changes) > 0 {
		outcomes := make(map[int64]market.Outcome, len(changes))
		for _, change := range changes {
			outcomes[change.event.ID] = change.next
		}
		if err := s.betEventRepo.UpdateOutcomes(ctx, outcomes); err != nil {
			return false, fmt.Errorf("update outcomes: %w", err)
		}
		result.OutcomesUpdated += len(changes)

		for _, change := range changes {
			if err := s.statsSvc.ApplyOutcomeChange(ctx, change.event, change.prev, change.next); err != nil {
				return false, err
			}
		}
	}

	if err := s.gameRepo.MarkFinished(ctx, game.ID, nil, nil); err != nil {
		return false, fmt.Errorf("mark game finished: %w", err)
	}

	return true, nil
}

// collectChanges maps feed results onto stored bet events, keeping only real
// outcome transitions. Results for events this service never stored are
// counted and dropped.
func (s *ResolutionService) collectChanges(ctx context.Context, results []oddsfeed.ResultEntry) ([]outcomeChange, int, error) {
	changes := make([]outcomeChange, 0, len(results))
	unknown := 0
	for _, entry := range results {
		event, err := s.betEventRepo.GetByExternalID(ctx, entry.UUID)
		if err != nil {
			return nil, 0, fmt.Errorf("get bet event uuid=%s: %w", entry.UUID, err)
		}
		if event == nil {
			unknown++
			s.logger.DebugContext(ctx, "result for unknown bet event dropped", "uuid", entry.UUID)
			continue
		}

		newOutcome := market.OutcomeFromResult(entry.Status, entry.Price)
		if newOutcome == event.Outcome {
			continue
		}
		changes = append(changes, outcomeChange{event: *event, prev: event.Outcome, next: newOutcome})
	}
	return changes, unknown, nil
}

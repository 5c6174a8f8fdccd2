package market

import (
	"context"
	"time"
)

// GameIngest pairs a game with the wagering options fetched for it.
type GameIngest struct {
	Game   Game
	Events []BetEvent
}

// IngestStore applies one tournament batch of games and their wagering
// options atomically: every write in the batch commits together or the
// whole batch rolls back.
type IngestStore interface {
	// ApplyBatch upserts each game, then inserts its missing bet events.
	// Returns the number of games upserted and bet events inserted.
	ApplyBatch(ctx context.Context, batch []GameIngest) (gamesUpserted, eventsInserted int, err error)
}

// GameRepository persists games. Upserts are keyed by external id when
// present, otherwise by the (teams, start, sport, league) tuple.
type GameRepository interface {
	// Upsert inserts or updates the game and fills in game.ID.
	Upsert(ctx context.Context, game *Game) error
	// ListResolvable returns unfinished games with a known external id whose
	// start time is in the past.
	ListResolvable(ctx context.Context, now time.Time) ([]Game, error)
	MarkFinished(ctx context.Context, gameID int64, winner, score *string) error
	// DeleteOlderThan removes games starting before cutoff together with
	// their bet events, returning (games, bet events) deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, int64, error)
	CountAll(ctx context.Context) (int64, error)
}

// BetEventRepository persists wagering options.
type BetEventRepository interface {
	// InsertMissing inserts the candidates that do not already exist for the
	// game, skipping rows whose external id is already present. Returns the
	// number inserted.
	InsertMissing(ctx context.Context, gameID int64, events []BetEvent) (int, error)
	GetByExternalID(ctx context.Context, externalID string) (*BetEvent, error)
	// UpdateOutcomes applies all outcome changes from one result-stream
	// message in a single transaction.
	UpdateOutcomes(ctx context.Context, outcomes map[int64]Outcome) error
	ListByGame(ctx context.Context, gameID int64) ([]BetEvent, error)
	CountAll(ctx context.Context) (int64, error)
}

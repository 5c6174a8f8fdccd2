package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oddspulse/oddspulse/internal/domain/market"
	qb "github.com/oddspulse/oddspulse/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Upsert updates the game found by external id, falling back to the
// (teams, start, sport, league) tuple for games without one, and inserts
// otherwise. game.ID is filled in on return.
func (r *GameRepository) Upsert(ctx context.Context, game *market.Game) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert game: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := upsertGame(ctx, tx, game); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert game tx: %w", err)
	}
	return nil
}

// upsertGame writes the game within the caller's transaction so batch
// ingestion can group many games under one commit.
func upsertGame(ctx context.Context, tx *sqlx.Tx, game *market.Game) error {
	if game == nil {
		return fmt.Errorf("game is required")
	}

	existingID, err := findExistingGameID(ctx, tx, game)
	if err != nil {
		return err
	}

	if existingID > 0 {
		query, args, err := qb.Update("games").
			Set("external_id", game.ExternalID).
			Set("sport_id", game.SportID).
			Set("league_id", game.LeagueID).
			Set("home_team", game.HomeTeam).
			Set("away_team", game.AwayTeam).
			Set("start_time", game.StartTime.UTC()).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", existingID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update game id=%d: %w", existingID, err)
		}
		game.ID = existingID
	} else {
		insertModel := gameInsertModel{
			ExternalID: game.ExternalID,
			SportID:    game.SportID,
			LeagueID:   game.LeagueID,
			HomeTeam:   game.HomeTeam,
			AwayTeam:   game.AwayTeam,
			StartTime:  game.StartTime.UTC(),
		}
		query, args, err := qb.InsertModel("games", insertModel, "RETURNING id")
		if err != nil {
			return fmt.Errorf("build insert game query: %w", err)
		}
		if err := tx.GetContext(ctx, &game.ID, query, args...); err != nil {
			return fmt.Errorf("insert game home_team=%s away_team=%s: %w", game.HomeTeam, game.AwayTeam, err)
		}
	}

	return nil
}

func findExistingGameID(ctx context.Context, tx *sqlx.Tx, game *market.Game) (int64, error) {
	if game.ExternalID != nil && *game.ExternalID != "" {
		query, args, err := qb.Select("id").From("games").
			Where(qb.Eq("external_id", *game.ExternalID)).
			Limit(1).
			ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build find game by external id query: %w", err)
		}
		var id int64
		err = tx.GetContext(ctx, &id, query, args...)
		if err == nil {
			return id, nil
		}
		if !isNotFound(err) {
			return 0, fmt.Errorf("find game external_id=%s: %w", *game.ExternalID, err)
		}
	}

	query, args, err := qb.Select("id").From("games").
		Where(
			qb.Eq("home_team", game.HomeTeam),
			qb.Eq("away_team", game.AwayTeam),
			qb.Eq("start_time", game.StartTime.UTC()),
			qb.Eq("sport_id", game.SportID),
			qb.Eq("league_id", game.LeagueID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build find game by tuple query: %w", err)
	}
	var id int64
	err = tx.GetContext(ctx, &id, query, args...)
	if err == nil {
		return id, nil
	}
	if !isNotFound(err) {
		return 0, fmt.Errorf("find game by tuple home_team=%s away_team=%s: %w", game.HomeTeam, game.AwayTeam, err)
	}
	return 0, nil
}

func (r *GameRepository) ListResolvable(ctx context.Context, now time.Time) ([]market.Game, error) {
	query, args, err := qb.Select(gameColumns).From("games").
		Where(
			qb.Lt("start_time", now.UTC()),
			qb.IsNotNull("external_id"),
			qb.Eq("finished", false),
		).
		OrderBy("start_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list resolvable games query: %w", err)
	}

	var rows []gameModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list resolvable games: %w", err)
	}

	out := make([]market.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) MarkFinished(ctx context.Context, gameID int64, winner, score *string) error {
	query, args, err := qb.Update("games").
		Set("finished", true).
		Set("winner", winner).
		Set("score", score).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark game finished query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark game finished id=%d: %w", gameID, err)
	}
	return nil
}

// DeleteOlderThan removes bet events first, then their games, in one
// transaction. Re-running against a clean table is a no-op.
func (r *GameRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx delete old games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.DeleteFrom("bet_events").
		Where(qb.Expr("game_id IN (SELECT id FROM games WHERE start_time < ?)", cutoff.UTC())).
		ToSQL()
	if err != nil {
		return 0, 0, fmt.Errorf("build delete old bet events query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("delete old bet events: %w", err)
	}
	betEventsDeleted, err := result.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("count deleted bet events: %w", err)
	}

	query, args, err = qb.DeleteFrom("games").
		Where(qb.Lt("start_time", cutoff.UTC())).
		ToSQL()
	if err != nil {
		return 0, 0, fmt.Errorf("build delete old games query: %w", err)
	}
	result, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("delete old games: %w", err)
	}
	gamesDeleted, err := result.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("count deleted games: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit delete old games tx: %w", err)
	}
	return gamesDeleted, betEventsDeleted, nil
}

func (r *GameRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM games"); err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return count, nil
}

type gameInsertModel struct {
	ExternalID *string   `db:"external_id"`
	SportID    int64     `db:"sport_id"`
	LeagueID   int64     `db:"league_id"`
	HomeTeam   string    `db:"home_team"`
	AwayTeam   string    `db:"away_team"`
	StartTime  time.Time `db:"start_time"`
}

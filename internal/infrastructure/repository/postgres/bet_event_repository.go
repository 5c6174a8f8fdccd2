package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oddspulse/oddspulse/internal/domain/market"
	qb "github.com/oddspulse/oddspulse/internal/platform/querybuilder"
)

type BetEventRepository struct {
	db *sqlx.DB
}

func NewBetEventRepository(db *sqlx.DB) *BetEventRepository {
	return &BetEventRepository{db: db}
}

// InsertMissing inserts candidates not already present for the game. The
// existence probe runs by external id; a unique-violation race on insert is
// treated as already-present rather than a failure.
func (r *BetEventRepository) InsertMissing(ctx context.Context, gameID int64, events []market.BetEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx insert bet events: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	inserted, err := insertMissingBetEvents(ctx, tx, gameID, events)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert bet events tx: %w", err)
	}
	return inserted, nil
}

// insertMissingBetEvents runs within the caller's transaction, shared with
// batch ingestion.
func insertMissingBetEvents(ctx context.Context, tx *sqlx.Tx, gameID int64, events []market.BetEvent) (int, error) {
	inserted := 0
	for _, event := range events {
		if event.ExternalID != nil && *event.ExternalID != "" {
			query, args, err := qb.Select("id").From("bet_events").
				Where(qb.Eq("external_id", *event.ExternalID)).
				Limit(1).
				ToSQL()
			if err != nil {
				return 0, fmt.Errorf("build find bet event query: %w", err)
			}
			var existingID int64
			err = tx.GetContext(ctx, &existingID, query, args...)
			if err == nil {
				continue
			}
			if !isNotFound(err) {
				return 0, fmt.Errorf("find bet event external_id=%s: %w", *event.ExternalID, err)
			}
		}

		insertModel := betEventInsertModel{
			GameID:       gameID,
			ExternalID:   event.ExternalID,
			Market:       event.Market,
			Odds:         event.Odds,
			CategoryID:   event.CategoryID,
			CategoryName: event.CategoryName,
			Outcome:      string(event.Outcome),
		}
		query, args, err := qb.InsertModel("bet_events", insertModel, "ON CONFLICT (external_id) DO NOTHING")
		if err != nil {
			return 0, fmt.Errorf("build insert bet event query: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return 0, fmt.Errorf("insert bet event game_id=%d market=%s: %w", gameID, event.Market, err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected > 0 {
			inserted++
		}
	}

	return inserted, nil
}

func (r *BetEventRepository) GetByExternalID(ctx context.Context, externalID string) (*market.BetEvent, error) {
	query, args, err := qb.Select(betEventColumns).From("bet_events").
		Where(qb.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get bet event query: %w", err)
	}

	var row betEventModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bet event external_id=%s: %w", externalID, err)
	}
	event := row.toDomain()
	return &event, nil
}

// UpdateOutcomes persists all outcome changes from one result-stream message
// in a single transaction.
func (r *BetEventRepository) UpdateOutcomes(ctx context.Context, outcomes map[int64]market.Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update outcomes: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for id, outcome := range outcomes {
		query, args, err := qb.Update("bet_events").
			Set("outcome", string(outcome)).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", id)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update outcome query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update outcome bet_event_id=%d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update outcomes tx: %w", err)
	}
	return nil
}

func (r *BetEventRepository) ListByGame(ctx context.Context, gameID int64) ([]market.BetEvent, error) {
	query, args, err := qb.Select(betEventColumns).From("bet_events").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bet events query: %w", err)
	}

	var rows []betEventModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list bet events game_id=%d: %w", gameID, err)
	}

	out := make([]market.BetEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BetEventRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM bet_events"); err != nil {
		return 0, fmt.Errorf("count bet events: %w", err)
	}
	return count, nil
}

type betEventInsertModel struct {
	GameID       int64   `db:"game_id"`
	ExternalID   *string `db:"external_id"`
	Market       string  `db:"market"`
	Odds         float64 `db:"odds"`
	CategoryID   *string `db:"category_id"`
	CategoryName *string `db:"category_name"`
	Outcome      string  `db:"outcome"`
}

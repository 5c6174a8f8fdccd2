package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oddspulse/oddspulse/internal/domain/tipster"
	qb "github.com/oddspulse/oddspulse/internal/platform/querybuilder"
)

type RecommendationRepository struct {
	db *sqlx.DB
}

func NewRecommendationRepository(db *sqlx.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) ListByBetEvent(ctx context.Context, betEventID int64) ([]tipster.Recommendation, error) {
	query, args, err := qb.Select("id", "tipster_id", "bet_event_id", "tier_id", "stake", "description").
		From("bet_recommendations").
		Where(qb.Eq("bet_event_id", betEventID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recommendations query: %w", err)
	}

	var rows []recommendationModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recommendations bet_event_id=%d: %w", betEventID, err)
	}

	out := make([]tipster.Recommendation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

type RangeRepository struct {
	db *sqlx.DB
}

func NewRangeRepository(db *sqlx.DB) *RangeRepository {
	return &RangeRepository{db: db}
}

func (r *RangeRepository) List(ctx context.Context) ([]tipster.OddsRange, error) {
	query, args, err := qb.Select("id", "name", "range_start", "range_end").
		From("tipster_ranges").
		OrderBy("range_start", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ranges query: %w", err)
	}

	var rows []rangeModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ranges: %w", err)
	}

	out := make([]tipster.OddsRange, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Create inserts a range after checking it against every existing bucket.
// A table lock serializes writers for the duration of the transaction;
// under READ COMMITTED alone, two concurrent creations with different but
// overlapping bounds would both pass the EXISTS check.
func (r *RangeRepository) Create(ctx context.Context, oddsRange *tipster.OddsRange) error {
	if oddsRange == nil {
		return fmt.Errorf("range is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create range: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "LOCK TABLE tipster_ranges IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return fmt.Errorf("lock ranges table: %w", err)
	}

	var overlapping bool
	err = tx.GetContext(ctx, &overlapping,
		"SELECT EXISTS (SELECT 1 FROM tipster_ranges WHERE range_start <= $1 AND $2 <= range_end)",
		oddsRange.End, oddsRange.Start,
	)
	if err != nil {
		return fmt.Errorf("check range overlap: %w", err)
	}
	if overlapping {
		return tipster.ErrRangeOverlap
	}

	insertModel := rangeInsertModel{
		Name:       oddsRange.Name,
		RangeStart: oddsRange.Start,
		RangeEnd:   oddsRange.End,
	}
	query, args, err := qb.InsertModel("tipster_ranges", insertModel, "RETURNING id")
	if err != nil {
		return fmt.Errorf("build insert range query: %w", err)
	}
	if err := tx.GetContext(ctx, &oddsRange.ID, query, args...); err != nil {
		if isUniqueViolation(err) {
			return tipster.ErrRangeOverlap
		}
		return fmt.Errorf("insert range name=%s: %w", oddsRange.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create range tx: %w", err)
	}
	return nil
}

type recommendationModel struct {
	ID          int64    `db:"id"`
	TipsterID   int64    `db:"tipster_id"`
	BetEventID  int64    `db:"bet_event_id"`
	TierID      *int64   `db:"tier_id"`
	Stake       *float64 `db:"stake"`
	Description string   `db:"description"`
}

func (m recommendationModel) toDomain() tipster.Recommendation {
	return tipster.Recommendation{
		ID:          m.ID,
		TipsterID:   m.TipsterID,
		BetEventID:  m.BetEventID,
		TierID:      m.TierID,
		Stake:       m.Stake,
		Description: m.Description,
	}
}

type rangeModel struct {
	ID         int64   `db:"id"`
	Name       string  `db:"name"`
	RangeStart float64 `db:"range_start"`
	RangeEnd   float64 `db:"range_end"`
}

func (m rangeModel) toDomain() tipster.OddsRange {
	return tipster.OddsRange{
		ID:    m.ID,
		Name:  m.Name,
		Start: m.RangeStart,
		End:   m.RangeEnd,
	}
}

type rangeInsertModel struct {
	Name       string  `db:"name"`
	RangeStart float64 `db:"range_start"`
	RangeEnd   float64 `db:"range_end"`
}

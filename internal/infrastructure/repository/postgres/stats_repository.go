package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oddspulse/oddspulse/internal/domain/tipster"
	qb "github.com/oddspulse/oddspulse/internal/platform/querybuilder"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

const statsIncrementSuffix = `DO UPDATE SET
    total_picks = %[1]s.total_picks + EXCLUDED.total_picks,
    total_picks_won = %[1]s.total_picks_won + EXCLUDED.total_picks_won,
    sum_stake = %[1]s.sum_stake + EXCLUDED.sum_stake,
    total_return = %[1]s.total_return + EXCLUDED.total_return,
    sum_odds = %[1]s.sum_odds + EXCLUDED.sum_odds,
    picks_with_description = %[1]s.picks_with_description + EXCLUDED.picks_with_description,
    updated_at = NOW()`

const rangeStatsIncrementSuffix = `DO UPDATE SET
    total_picks = %[1]s.total_picks + EXCLUDED.total_picks,
    total_picks_won = %[1]s.total_picks_won + EXCLUDED.total_picks_won,
    sum_stake = %[1]s.sum_stake + EXCLUDED.sum_stake,
    total_return = %[1]s.total_return + EXCLUDED.total_return,
    updated_at = NOW()`

// ApplyDelta upserts the contribution into every scope the key names, in one
// transaction. A rollback leaves all four scopes untouched, so a retried
// recommendation is never half counted.
func (r *StatsRepository) ApplyDelta(ctx context.Context, key tipster.StatsKey, delta tipster.StatsDelta) error {
	if delta.IsZero() {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx apply stats delta: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := applyScopedDelta(ctx, tx, "tipster_stats",
		[]string{"tipster_id"}, []any{key.TipsterID},
		"(tipster_id)", delta, true); err != nil {
		return err
	}

	if key.TierID != nil {
		if err := applyScopedDelta(ctx, tx, "tipster_tier_stats",
			[]string{"tier_id", "tipster_id"}, []any{*key.TierID, key.TipsterID},
			"(tier_id)", delta, true); err != nil {
			return err
		}
	}

	if key.RangeID != nil {
		if err := applyScopedDelta(ctx, tx, "tipster_range_stats",
			[]string{"tipster_id", "range_id"}, []any{key.TipsterID, *key.RangeID},
			"(tipster_id, range_id)", delta, false); err != nil {
			return err
		}
		if key.TierID != nil {
			if err := applyScopedDelta(ctx, tx, "tipster_tier_range_stats",
				[]string{"tier_id", "tipster_id", "range_id"}, []any{*key.TierID, key.TipsterID, *key.RangeID},
				"(tier_id, range_id)", delta, false); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply stats delta tx: %w", err)
	}
	return nil
}

func applyScopedDelta(ctx context.Context, tx *sqlx.Tx, table string, keyColumns []string, keyValues []any, conflictTarget string, delta tipster.StatsDelta, fullScope bool) error {
	columns := append([]string{}, keyColumns...)
	values := append([]any{}, keyValues...)

	columns = append(columns, "total_picks", "total_picks_won", "sum_stake", "total_return")
	values = append(values, delta.Picks, delta.PicksWon, delta.Stake, delta.Return)

	suffixTemplate := rangeStatsIncrementSuffix
	if fullScope {
		columns = append(columns, "sum_odds", "picks_with_description")
		values = append(values, delta.Odds, delta.WithDescription)
		suffixTemplate = statsIncrementSuffix
	}

	suffix := "ON CONFLICT " + conflictTarget + "\n" + fmt.Sprintf(suffixTemplate, table)
	query, args, err := qb.InsertInto(table).
		Columns(columns...).
		Values(values...).
		Suffix(suffix).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func (r *StatsRepository) GetStats(ctx context.Context, tipsterID int64, tierID *int64) (*tipster.Stats, error) {
	table := "tipster_stats"
	conditions := []qb.Condition{qb.Eq("tipster_id", tipsterID)}
	if tierID != nil {
		// The tipster filter stays on so a tier owned by another tipster
		// reads as absent instead of leaking their aggregate.
		table = "tipster_tier_stats"
		conditions = append(conditions, qb.Eq("tier_id", *tierID))
	}

	query, args, err := qb.Select("tipster_id", "total_picks", "total_picks_won", "sum_stake", "total_return", "sum_odds", "picks_with_description").
		From(table).
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get stats query: %w", err)
	}

	var row statsModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stats tipster_id=%d: %w", tipsterID, err)
	}
	stats := row.toDomain()
	stats.TierID = tierID
	return &stats, nil
}

func (r *StatsRepository) GetRangeStats(ctx context.Context, tipsterID int64, tierID *int64, rangeID int64) (*tipster.RangeStats, error) {
	table := "tipster_range_stats"
	conditions := []qb.Condition{qb.Eq("tipster_id", tipsterID), qb.Eq("range_id", rangeID)}
	if tierID != nil {
		table = "tipster_tier_range_stats"
		conditions = append(conditions, qb.Eq("tier_id", *tierID))
	}

	query, args, err := qb.Select("tipster_id", "range_id", "total_picks", "total_picks_won", "sum_stake", "total_return").
		From(table).
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get range stats query: %w", err)
	}

	var row rangeStatsModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get range stats tipster_id=%d range_id=%d: %w", tipsterID, rangeID, err)
	}
	stats := row.toDomain()
	stats.TierID = tierID
	return &stats, nil
}

type statsModel struct {
	TipsterID            int64   `db:"tipster_id"`
	TotalPicks           int64   `db:"total_picks"`
	TotalPicksWon        int64   `db:"total_picks_won"`
	SumStake             float64 `db:"sum_stake"`
	TotalReturn          float64 `db:"total_return"`
	SumOdds              float64 `db:"sum_odds"`
	PicksWithDescription int64   `db:"picks_with_description"`
}

func (m statsModel) toDomain() tipster.Stats {
	return tipster.Stats{
		TipsterID:            m.TipsterID,
		TotalPicks:           m.TotalPicks,
		TotalPicksWon:        m.TotalPicksWon,
		SumStake:             m.SumStake,
		TotalReturn:          m.TotalReturn,
		SumOdds:              m.SumOdds,
		PicksWithDescription: m.PicksWithDescription,
	}
}

type rangeStatsModel struct {
	TipsterID     int64   `db:"tipster_id"`
	RangeID       int64   `db:"range_id"`
	TotalPicks    int64   `db:"total_picks"`
	TotalPicksWon int64   `db:"total_picks_won"`
	SumStake      float64 `db:"sum_stake"`
	TotalReturn   float64 `db:"total_return"`
}

func (m rangeStatsModel) toDomain() tipster.RangeStats {
	return tipster.RangeStats{
		TipsterID:     m.TipsterID,
		RangeID:       m.RangeID,
		TotalPicks:    m.TotalPicks,
		TotalPicksWon: m.TotalPicksWon,
		SumStake:      m.SumStake,
		TotalReturn:   m.TotalReturn,
	}
}

package tipster

import (
	"context"
	"errors"
)

var ErrRangeOverlap = errors.New("odds range overlaps an existing range")

type RecommendationRepository interface {
	ListByBetEvent(ctx context.Context, betEventID int64) ([]Recommendation, error)
}

type RangeRepository interface {
	// List returns ranges ordered by start bound so bucket lookup is
	// deterministic.
	List(ctx context.Context) ([]OddsRange, error)
	// Create rejects a range overlapping an existing one with ErrRangeOverlap.
	Create(ctx context.Context, r *OddsRange) error
}

// StatsRepository applies one recommendation's contribution across all
// affected scopes in a single transaction. Rows are created lazily with a
// zero baseline on first contribution.
type StatsRepository interface {
	ApplyDelta(ctx context.Context, key StatsKey, delta StatsDelta) error
	GetStats(ctx context.Context, tipsterID int64, tierID *int64) (*Stats, error)
	GetRangeStats(ctx context.Context, tipsterID int64, tierID *int64, rangeID int64) (*RangeStats, error)
}

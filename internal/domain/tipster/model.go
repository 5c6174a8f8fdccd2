package tipster

// Recommendation is a tipster's published pick on one bet event. Stake
// defaults to 1.0 when absent; Tier scopes the pick to a subscription level.
type Recommendation struct {
	ID          int64
	TipsterID   int64
	BetEventID  int64
	TierID      *int64
	Stake       *float64
	Description string
}

// StakeOrDefault returns the recommendation stake, defaulting to 1.0.
func (r Recommendation) StakeOrDefault() float64 {
	if r.Stake != nil && *r.Stake > 0 {
		return *r.Stake
	}
	return 1.0
}

// OddsRange is a configured odds bucket used to segment statistics.
// Bounds are inclusive on both ends; ranges must not overlap.
type OddsRange struct {
	ID    int64
	Name  string  `validate:"required"`
	Start float64 `validate:"gt=0"`
	End   float64 `validate:"gtfield=Start"`
}

// Contains reports whether odds falls inside the bucket.
func (r OddsRange) Contains(odds float64) bool {
	return r.Start <= odds && odds <= r.End
}

// Overlaps reports whether two inclusive ranges share any point.
func (r OddsRange) Overlaps(other OddsRange) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Stats is the tipster-level aggregate. The same shape backs the
// tipster-by-tier scope.
type Stats struct {
	TipsterID            int64
	TierID               *int64
	TotalPicks           int64
	TotalPicksWon        int64
	SumStake             float64
	TotalReturn          float64
	SumOdds              float64
	PicksWithDescription int64
}

// RangeStats is the odds-range scoped aggregate. Sum of odds and description
// counters are not tracked at this scope. The same shape backs the
// tipster-by-tier-by-range scope.
type RangeStats struct {
	TipsterID     int64
	TierID        *int64
	RangeID       int64
	TotalPicks    int64
	TotalPicksWon int64
	SumStake      float64
	TotalReturn   float64
}

// StatsDelta is one signed contribution to the aggregates. Negative values
// back out a previously scored outcome after a provider correction.
type StatsDelta struct {
	Picks           int64
	PicksWon        int64
	Stake           float64
	Return          float64
	Odds            float64
	WithDescription int64
}

// Add merges two deltas.
func (d StatsDelta) Add(other StatsDelta) StatsDelta {
	return StatsDelta{
		Picks:           d.Picks + other.Picks,
		PicksWon:        d.PicksWon + other.PicksWon,
		Stake:           d.Stake + other.Stake,
		Return:          d.Return + other.Return,
		Odds:            d.Odds + other.Odds,
		WithDescription: d.WithDescription + other.WithDescription,
	}
}

// Negate flips the sign of every field.
func (d StatsDelta) Negate() StatsDelta {
	return StatsDelta{
		Picks:           -d.Picks,
		PicksWon:        -d.PicksWon,
		Stake:           -d.Stake,
		Return:          -d.Return,
		Odds:            -d.Odds,
		WithDescription: -d.WithDescription,
	}
}

// IsZero reports whether the delta changes nothing.
func (d StatsDelta) IsZero() bool {
	return d == StatsDelta{}
}

// StatsKey identifies the scopes one recommendation contributes to. TierID
// and RangeID are optional; the tier-by-range scope applies when both are set.
type StatsKey struct {
	TipsterID int64
	TierID    *int64
	RangeID   *int64
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oddspulse/oddspulse/internal/domain/tipster"
)

type RecommendationRepository struct {
	mu     sync.RWMutex
	items  map[int64]tipster.Recommendation
	nextID int64
}

func NewRecommendationRepository(recommendations []tipster.Recommendation) *RecommendationRepository {
	r := &RecommendationRepository{
		items:  make(map[int64]tipster.Recommendation, len(recommendations)),
		nextID: 1,
	}
	for _, rec := range recommendations {
		if rec.ID == 0 {
			rec.ID = r.nextID
		}
		if rec.ID >= r.nextID {
			r.nextID = rec.ID + 1
		}
		r.items[rec.ID] = rec
	}
	return r
}

func (r *RecommendationRepository) Add(rec tipster.Recommendation) tipster.Recommendation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == 0 {
		rec.ID = r.nextID
	}
	if rec.ID >= r.nextID {
		r.nextID = rec.ID + 1
	}
	r.items[rec.ID] = rec

	return rec
}

func (r *RecommendationRepository) ListByBetEvent(_ context.Context, betEventID int64) ([]tipster.Recommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tipster.Recommendation, 0)
	for _, rec := range r.items {
		if rec.BetEventID == betEventID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

type RangeRepository struct {
	mu     sync.RWMutex
	items  map[int64]tipster.OddsRange
	nextID int64
}

func NewRangeRepository(ranges []tipster.OddsRange) *RangeRepository {
	r := &RangeRepository{
		items:  make(map[int64]tipster.OddsRange, len(ranges)),
		nextID: 1,
	}
	for _, rng := range ranges {
		if rng.ID == 0 {
			rng.ID = r.nextID
		}
		if rng.ID >= r.nextID {
			r.nextID = rng.ID + 1
		}
		r.items[rng.ID] = rng
	}
	return r
}

func (r *RangeRepository) List(_ context.Context) ([]tipster.OddsRange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tipster.OddsRange, 0, len(r.items))
	for _, rng := range r.items {
		out = append(out, rng)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *RangeRepository) Create(_ context.Context, oddsRange *tipster.OddsRange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Overlaps(*oddsRange) {
			return tipster.ErrRangeOverlap
		}
	}

	oddsRange.ID = r.nextID
	r.nextID++
	r.items[oddsRange.ID] = *oddsRange

	return nil
}

// StatsRepository accumulates deltas per scope. All four scope maps share one
// mutex, matching the all-or-nothing write the database-backed store does in a
// transaction.
type StatsRepository struct {
	mu         sync.RWMutex
	tipster    map[int64]tipster.Stats
	tier       map[int64]tipster.Stats
	tipsterRng map[[2]int64]tipster.RangeStats
	tierRng    map[[2]int64]tipster.RangeStats
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		tipster:    make(map[int64]tipster.Stats),
		tier:       make(map[int64]tipster.Stats),
		tipsterRng: make(map[[2]int64]tipster.RangeStats),
		tierRng:    make(map[[2]int64]tipster.RangeStats),
	}
}

func (r *StatsRepository) ApplyDelta(_ context.Context, key tipster.StatsKey, delta tipster.StatsDelta) error {
	if delta.IsZero() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.tipster[key.TipsterID]
	s.TipsterID = key.TipsterID
	applyStatsDelta(&s, delta)
	r.tipster[key.TipsterID] = s

	if key.TierID != nil {
		s := r.tier[*key.TierID]
		s.TipsterID = key.TipsterID
		s.TierID = key.TierID
		applyStatsDelta(&s, delta)
		r.tier[*key.TierID] = s
	}

	if key.RangeID != nil {
		k := [2]int64{key.TipsterID, *key.RangeID}
		rs := r.tipsterRng[k]
		rs.TipsterID = key.TipsterID
		rs.RangeID = *key.RangeID
		applyRangeStatsDelta(&rs, delta)
		r.tipsterRng[k] = rs

		if key.TierID != nil {
			k := [2]int64{*key.TierID, *key.RangeID}
			rs := r.tierRng[k]
			rs.TipsterID = key.TipsterID
			rs.TierID = key.TierID
			rs.RangeID = *key.RangeID
			applyRangeStatsDelta(&rs, delta)
			r.tierRng[k] = rs
		}
	}

	return nil
}

func applyStatsDelta(s *tipster.Stats, d tipster.StatsDelta) {
	s.TotalPicks += d.Picks
	s.TotalPicksWon += d.PicksWon
	s.SumStake += d.Stake
	s.TotalReturn += d.Return
	s.SumOdds += d.Odds
	s.PicksWithDescription += d.WithDescription
}

func applyRangeStatsDelta(s *tipster.RangeStats, d tipster.StatsDelta) {
	s.TotalPicks += d.Picks
	s.TotalPicksWon += d.PicksWon
	s.SumStake += d.Stake
	s.TotalReturn += d.Return
}

func (r *StatsRepository) GetStats(_ context.Context, tipsterID int64, tierID *int64) (*tipster.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if tierID != nil {
		if s, ok := r.tier[*tierID]; ok && s.TipsterID == tipsterID {
			out := s
			return &out, nil
		}
		return nil, nil
	}
	if s, ok := r.tipster[tipsterID]; ok {
		out := s
		return &out, nil
	}

	return nil, nil
}

func (r *StatsRepository) GetRangeStats(_ context.Context, tipsterID int64, tierID *int64, rangeID int64) (*tipster.RangeStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if tierID != nil {
		if s, ok := r.tierRng[[2]int64{*tierID, rangeID}]; ok && s.TipsterID == tipsterID {
			out := s
			return &out, nil
		}
		return nil, nil
	}
	if s, ok := r.tipsterRng[[2]int64{tipsterID, rangeID}]; ok {
		out := s
		return &out, nil
	}

	return nil, nil
}

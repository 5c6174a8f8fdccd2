package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oddspulse/oddspulse/internal/domain/market"
)

type BetEventRepository struct {
	mu     sync.RWMutex
	items  map[int64]market.BetEvent
	nextID int64
}

func NewBetEventRepository() *BetEventRepository {
	return &BetEventRepository{
		items:  make(map[int64]market.BetEvent),
		nextID: 1,
	}
}

func (r *BetEventRepository) InsertMissing(_ context.Context, gameID int64, events []market.BetEvent) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, event := range events {
		if event.ExternalID != nil && *event.ExternalID != "" && r.hasExternalIDLocked(*event.ExternalID) {
			continue
		}

		event.ID = r.nextID
		r.nextID++
		event.GameID = gameID
		if event.CreatedAt.IsZero() {
			event.CreatedAt = time.Now().UTC()
		}
		r.items[event.ID] = event
		inserted++
	}

	return inserted, nil
}

func (r *BetEventRepository) hasExternalIDLocked(externalID string) bool {
	for _, e := range r.items {
		if e.ExternalID != nil && *e.ExternalID == externalID {
			return true
		}
	}
	return false
}

func (r *BetEventRepository) GetByExternalID(_ context.Context, externalID string) (*market.BetEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.items {
		if e.ExternalID != nil && *e.ExternalID == externalID {
			out := e
			return &out, nil
		}
	}

	return nil, nil
}

func (r *BetEventRepository) UpdateOutcomes(_ context.Context, outcomes map[int64]market.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, outcome := range outcomes {
		e, ok := r.items[id]
		if !ok {
			continue
		}
		e.Outcome = outcome
		r.items[id] = e
	}

	return nil
}

func (r *BetEventRepository) ListByGame(_ context.Context, gameID int64) ([]market.BetEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]market.BetEvent, 0)
	for _, e := range r.items {
		if e.GameID == gameID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *BetEventRepository) CountAll(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.items)), nil
}

// DeleteByGameIDs backs the retention sweep hook on the game store.
func (r *BetEventRepository) DeleteByGameIDs(gameIDs []int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[int64]struct{}, len(gameIDs))
	for _, id := range gameIDs {
		ids[id] = struct{}{}
	}

	var deleted int64
	for id, e := range r.items {
		if _, ok := ids[e.GameID]; ok {
			delete(r.items, id)
			deleted++
		}
	}

	return deleted
}

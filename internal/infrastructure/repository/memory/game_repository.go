package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/oddspulse/oddspulse/internal/domain/market"
)

type GameRepository struct {
	mu             sync.RWMutex
	items          map[int64]market.Game
	nextID         int64
	deleteEventsFn func(gameIDs []int64) int64
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		items:  make(map[int64]market.Game),
		nextID: 1,
	}
}

func (r *GameRepository) Upsert(_ context.Context, game *market.Game) error {
	if game == nil {
		return errors.New("game is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.findLocked(game); ok {
		existing := r.items[id]
		existing.ExternalID = game.ExternalID
		existing.SportID = game.SportID
		existing.LeagueID = game.LeagueID
		existing.HomeTeam = game.HomeTeam
		existing.AwayTeam = game.AwayTeam
		existing.StartTime = game.StartTime
		r.items[id] = existing
		game.ID = id
		return nil
	}

	game.ID = r.nextID
	r.nextID++
	stored := *game
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.items[game.ID] = stored

	return nil
}

func (r *GameRepository) findLocked(game *market.Game) (int64, bool) {
	if game.ExternalID != nil && *game.ExternalID != "" {
		for id, g := range r.items {
			if g.ExternalID != nil && *g.ExternalID == *game.ExternalID {
				return id, true
			}
		}
	}
	for id, g := range r.items {
		if g.HomeTeam == game.HomeTeam &&
			g.AwayTeam == game.AwayTeam &&
			g.StartTime.Equal(game.StartTime) &&
			g.SportID == game.SportID &&
			g.LeagueID == game.LeagueID {
			return id, true
		}
	}
	return 0, false
}

func (r *GameRepository) ListResolvable(_ context.Context, now time.Time) ([]market.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]market.Game, 0)
	for _, g := range r.items {
		if g.Finished || g.ExternalID == nil || *g.ExternalID == "" {
			continue
		}
		if !g.StartTime.Before(now) {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *GameRepository) MarkFinished(_ context.Context, gameID int64, winner, score *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.items[gameID]
	if !ok {
		return errors.Newf("game id=%d not found", gameID)
	}
	g.Finished = true
	g.Winner = winner
	g.Score = score
	r.items[gameID] = g

	return nil
}

func (r *GameRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := make([]int64, 0)
	for id, g := range r.items {
		if g.StartTime.Before(cutoff) {
			delete(r.items, id)
			removed = append(removed, id)
		}
	}

	// Bet events live in their own store; the caller wires both deletions
	// together through SetEventSweep.
	var betEvents int64
	if r.deleteEventsFn != nil && len(removed) > 0 {
		betEvents = r.deleteEventsFn(removed)
	}

	return int64(len(removed)), betEvents, nil
}

func (r *GameRepository) CountAll(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.items)), nil
}

// SetEventSweep registers the bet-event deletion hook used by retention
// sweeps, keyed by the ids of the games being removed.
func (r *GameRepository) SetEventSweep(fn func(gameIDs []int64) int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteEventsFn = fn
}

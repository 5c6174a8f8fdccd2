package memory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/oddspulse/oddspulse/internal/domain/market"
)

// IngestStore applies a tournament batch against the in-memory game and bet
// event stores. Both stores are snapshotted up front and restored on any
// failure, mirroring the batch transaction of the database-backed store.
type IngestStore struct {
	games  *GameRepository
	events *BetEventRepository
}

func NewIngestStore(games *GameRepository, events *BetEventRepository) *IngestStore {
	return &IngestStore{games: games, events: events}
}

func (s *IngestStore) ApplyBatch(ctx context.Context, batch []market.GameIngest) (int, int, error) {
	if len(batch) == 0 {
		return 0, 0, nil
	}

	gameItems, gameNextID := s.games.snapshot()
	eventItems, eventNextID := s.events.snapshot()
	rollback := func() {
		s.games.restore(gameItems, gameNextID)
		s.events.restore(eventItems, eventNextID)
	}

	gamesUpserted, eventsInserted := 0, 0
	for i := range batch {
		item := &batch[i]
		// Stand-in for the foreign key checks the database store enforces.
		if item.Game.SportID == 0 || item.Game.LeagueID == 0 {
			rollback()
			return 0, 0, errors.Newf("game home_team=%s away_team=%s missing sport or league reference", item.Game.HomeTeam, item.Game.AwayTeam)
		}
		if err := s.games.Upsert(ctx, &item.Game); err != nil {
			rollback()
			return 0, 0, err
		}
		gamesUpserted++

		if len(item.Events) == 0 {
			continue
		}
		inserted, err := s.events.InsertMissing(ctx, item.Game.ID, item.Events)
		if err != nil {
			rollback()
			return 0, 0, err
		}
		eventsInserted += inserted
	}

	return gamesUpserted, eventsInserted, nil
}

func (r *GameRepository) snapshot() (map[int64]market.Game, int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make(map[int64]market.Game, len(r.items))
	for id, g := range r.items {
		items[id] = g
	}
	return items, r.nextID
}

func (r *GameRepository) restore(items map[int64]market.Game, nextID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = items
	r.nextID = nextID
}

func (r *BetEventRepository) snapshot() (map[int64]market.BetEvent, int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make(map[int64]market.BetEvent, len(r.items))
	for id, e := range r.items {
		items[id] = e
	}
	return items, r.nextID
}

func (r *BetEventRepository) restore(items map[int64]market.BetEvent, nextID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = items
	r.nextID = nextID
}

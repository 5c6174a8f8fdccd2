package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oddspulse/oddspulse/internal/domain/market"
)

// IngestStore writes one tournament batch of games and their bet events in a
// single transaction. Any failure rolls back the whole batch, so a feed
// hiccup halfway through never leaves partial games behind.
type IngestStore struct {
	db *sqlx.DB
}

func NewIngestStore(db *sqlx.DB) *IngestStore {
	return &IngestStore{db: db}
}

func (s *IngestStore) ApplyBatch(ctx context.Context, batch []market.GameIngest) (int, int, error) {
	if len(batch) == 0 {
		return 0, 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx ingest batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	gamesUpserted, eventsInserted := 0, 0
	for i := range batch {
		item := &batch[i]
		if err := upsertGame(ctx, tx, &item.Game); err != nil {
			return 0, 0, err
		}
		gamesUpserted++

		if len(item.Events) == 0 {
			continue
		}
		inserted, err := insertMissingBetEvents(ctx, tx, item.Game.ID, item.Events)
		if err != nil {
			return 0, 0, err
		}
		eventsInserted += inserted
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit ingest batch tx: %w", err)
	}
	return gamesUpserted, eventsInserted, nil
}

package postgres

import (
	"time"

	"github.com/oddspulse/oddspulse/internal/domain/market"
)

type gameModel struct {
	ID         int64     `db:"id"`
	ExternalID *string   `db:"external_id"`
	SportID    int64     `db:"sport_id"`
	LeagueID   int64     `db:"league_id"`
	HomeTeam   string    `db:"home_team"`
	AwayTeam   string    `db:"away_team"`
	StartTime  time.Time `db:"start_time"`
	Finished   bool      `db:"finished"`
	Winner     *string   `db:"winner"`
	Score      *string   `db:"score"`
	CreatedAt  time.Time `db:"created_at"`
}

func (m gameModel) toDomain() market.Game {
	return market.Game{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		SportID:    m.SportID,
		LeagueID:   m.LeagueID,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		StartTime:  m.StartTime,
		Finished:   m.Finished,
		Winner:     m.Winner,
		Score:      m.Score,
		CreatedAt:  m.CreatedAt,
	}
}

type betEventModel struct {
	ID           int64     `db:"id"`
	GameID       int64     `db:"game_id"`
	ExternalID   *string   `db:"external_id"`
	Market       string    `db:"market"`
	Odds         float64   `db:"odds"`
	CategoryID   *string   `db:"category_id"`
	CategoryName *string   `db:"category_name"`
	Outcome      string    `db:"outcome"`
	CreatedAt    time.Time `db:"created_at"`
}

func (m betEventModel) toDomain() market.BetEvent {
	return market.BetEvent{
		ID:           m.ID,
		GameID:       m.GameID,
		ExternalID:   m.ExternalID,
		Market:       m.Market,
		Odds:         m.Odds,
		CategoryID:   m.CategoryID,
		CategoryName: m.CategoryName,
		Outcome:      market.Outcome(m.Outcome),
		CreatedAt:    m.CreatedAt,
	}
}

const gameColumns = "id, external_id, sport_id, league_id, home_team, away_team, start_time, finished, winner, score, created_at"
const betEventColumns = "id, game_id, external_id, market, odds, category_id, category_name, outcome, created_at"

package market

import "time"

// Game is a scheduled fixture between two teams. ExternalID is the provider's
// event id and may be absent for games matched by (teams, start, sport, league).
type Game struct {
	ID         int64
	ExternalID *string
	SportID    int64
	LeagueID   int64
	HomeTeam   string
	AwayTeam   string
	StartTime  time.Time
	Finished   bool
	Winner     *string
	Score      *string
	CreatedAt  time.Time
}

// BetEvent is one wagering option attached to a game. ExternalID is the
// provider's outcome uuid, unique when present. Outcome is mutated only by
// the resolution engine.
type BetEvent struct {
	ID           int64
	GameID       int64
	ExternalID   *string
	Market       string
	Odds         float64
	CategoryID   *string
	CategoryName *string
	Outcome      Outcome
	CreatedAt    time.Time
}

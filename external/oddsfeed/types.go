package oddsfeed

import "time"

// CatalogEntry is one row of the flat sport/league catalog listing. Group is
// the sport label, Key the league's external identifier.
type CatalogEntry struct {
	Key   string `json:"key"`
	Group string `json:"group"`
	Title string `json:"title"`
}

// SportEntry comes from the provider structure endpoint.
type SportEntry struct {
	ExternalKey string
	Name        string
}

// TournamentEntry is one competition under a sport.
type TournamentEntry struct {
	ExternalKey string
	Name        string
	CountryCode string
}

// GameEntry is a parsed upcoming game. ExternalID is empty when the provider
// did not assign an event id.
type GameEntry struct {
	HomeTeam      string
	AwayTeam      string
	StartTime     time.Time
	TournamentKey string
	ExternalID    string
}

// BetEventEntry is one wagering option from a game's market tree, after
// block-list filtering and in-fetch de-duplication.
type BetEventEntry struct {
	ExternalID   string
	Label        string
	Odds         float64
	CategoryID   string
	CategoryName string
}

// ResultEntry is one (uuid, status, price) tuple from the result stream.
type ResultEntry struct {
	UUID   string
	Status int
	Price  float64
}

type localNames map[string]string

func (n localNames) get(lang string) string {
	if n == nil {
		return ""
	}
	return n[lang]
}

type structEnvelope struct {
	Data struct {
		Sports []struct {
			ID         int64      `json:"id"`
			LocalNames localNames `json:"localNames"`
		} `json:"sports"`
	} `json:"data"`
}

type tournamentsEnvelope struct {
	Data []struct {
		LocalNames   localNames `json:"localNames"`
		Competitions []struct {
			TournamentID int64      `json:"tournamentId"`
			LocalNames   localNames `json:"localNames"`
		} `json:"competitions"`
	} `json:"data"`
}

type eventsByDateEnvelope struct {
	Data []struct {
		MatchName    string `json:"matchName"`
		MatchDate    string `json:"matchDate"`
		TournamentID int64  `json:"tournamentId"`
		EventID      int64  `json:"eventId"`
	} `json:"data"`
}

type eventDetailEnvelope struct {
	Data []struct {
		SportID          int64             `json:"sportId"`
		OfferStateStatus map[string]string `json:"offerStateStatus"`
		Odds             []struct {
			UUID       string  `json:"uuid"`
			MarketID   int64   `json:"marketId"`
			MarketName string  `json:"marketName"`
			Name       string  `json:"name"`
			Price      float64 `json:"price"`
		} `json:"odds"`
	} `json:"data"`
}

type marketGroupsEnvelope struct {
	Data []struct {
		LocalNames localNames `json:"localNames"`
		Markets    []int64    `json:"markets"`
	} `json:"data"`
}

type resultMessage []struct {
	Results []struct {
		Name string `json:"name"`
		Odds []struct {
			UUID   string  `json:"uuid"`
			Status int     `json:"status"`
			Price  float64 `json:"price"`
		} `json:"odds"`
	} `json:"results"`
}

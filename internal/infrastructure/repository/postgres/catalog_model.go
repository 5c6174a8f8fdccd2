package postgres

import "github.com/oddspulse/oddspulse/internal/domain/catalog"

type sportModel struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	ExternalKey string `db:"external_key"`
}

func (m sportModel) toDomain() catalog.Sport {
	return catalog.Sport{
		ID:          m.ID,
		Name:        m.Name,
		ExternalKey: m.ExternalKey,
	}
}

type leagueModel struct {
	ID          int64  `db:"id"`
	SportID     int64  `db:"sport_id"`
	ExternalKey string `db:"external_key"`
	Name        string `db:"name"`
	CountryCode string `db:"country_code"`
	Download    bool   `db:"download"`
}

func (m leagueModel) toDomain() catalog.League {
	return catalog.League{
		ID:          m.ID,
		SportID:     m.SportID,
		ExternalKey: m.ExternalKey,
		Name:        m.Name,
		CountryCode: m.CountryCode,
		Download:    m.Download,
	}
}

const sportColumns = "id, name, external_key"
const leagueColumns = "id, sport_id, external_key, name, country_code, download"

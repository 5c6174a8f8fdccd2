package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/oddspulse/oddspulse/internal/domain/catalog"
)

type CatalogRepository struct {
	mu           sync.RWMutex
	sports       map[int64]catalog.Sport
	leagues      map[int64]catalog.League
	nextSportID  int64
	nextLeagueID int64
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		sports:       make(map[int64]catalog.Sport),
		leagues:      make(map[int64]catalog.League),
		nextSportID:  1,
		nextLeagueID: 1,
	}
}

func (r *CatalogRepository) ListSports(_ context.Context) ([]catalog.Sport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Sport, 0, len(r.sports))
	for _, s := range r.sports {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *CatalogRepository) GetSportByExternalKey(_ context.Context, externalKey string) (*catalog.Sport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sports {
		if s.ExternalKey == externalKey {
			out := s
			return &out, nil
		}
	}

	return nil, nil
}

func (r *CatalogRepository) SyncSports(_ context.Context, sports []catalog.Sport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sport := range sports {
		if id, ok := r.findSportLocked(sport.ExternalKey, ""); ok {
			existing := r.sports[id]
			existing.Name = sport.Name
			r.sports[id] = existing
			continue
		}
		r.insertSportLocked(sport.Name, sport.ExternalKey)
	}

	return nil
}

func (r *CatalogRepository) ListLeagues(_ context.Context) ([]catalog.League, error) {
	return r.listLeagues(false), nil
}

func (r *CatalogRepository) ListDownloadLeagues(_ context.Context) ([]catalog.League, error) {
	return r.listLeagues(true), nil
}

func (r *CatalogRepository) listLeagues(downloadOnly bool) []catalog.League {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.League, 0, len(r.leagues))
	for _, l := range r.leagues {
		if downloadOnly && !l.Download {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (r *CatalogRepository) GetLeagueByExternalKey(_ context.Context, externalKey string) (*catalog.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.leagues {
		if l.ExternalKey == externalKey {
			out := l
			return &out, nil
		}
	}

	return nil, nil
}

func (r *CatalogRepository) SyncCatalog(_ context.Context, seeds []catalog.LeagueSeed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, seed := range seeds {
		sportID, ok := r.findSportLocked(seed.SportExternalKey, seed.SportName)
		if !ok {
			sportID = r.insertSportLocked(seed.SportName, seed.SportExternalKey)
		}

		updated := false
		for id, l := range r.leagues {
			if l.ExternalKey == seed.ExternalKey {
				l.SportID = sportID
				l.Name = seed.Name
				l.CountryCode = seed.CountryCode
				r.leagues[id] = l
				updated = true
				break
			}
		}
		if updated {
			continue
		}

		id := r.nextLeagueID
		r.nextLeagueID++
		r.leagues[id] = catalog.League{
			ID:          id,
			SportID:     sportID,
			ExternalKey: seed.ExternalKey,
			Name:        seed.Name,
			CountryCode: seed.CountryCode,
			Download:    false,
		}
	}

	return nil
}

func (r *CatalogRepository) SetLeagueDownload(_ context.Context, leagueID int64, download bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leagues[leagueID]
	if !ok {
		return errors.Wrapf(catalog.ErrLeagueNotFound, "league id=%d", leagueID)
	}
	l.Download = download
	r.leagues[leagueID] = l

	return nil
}

func (r *CatalogRepository) findSportLocked(externalKey, name string) (int64, bool) {
	for id, s := range r.sports {
		if externalKey != "" && s.ExternalKey == externalKey {
			return id, true
		}
		if externalKey == "" && name != "" && s.Name == name {
			return id, true
		}
	}
	return 0, false
}

func (r *CatalogRepository) insertSportLocked(name, externalKey string) int64 {
	id := r.nextSportID
	r.nextSportID++
	r.sports[id] = catalog.Sport{ID: id, Name: name, ExternalKey: externalKey}
	return id
}

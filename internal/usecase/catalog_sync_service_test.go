package usecase

import (
	"context"
	"testing"

	"github.com/oddspulse/oddspulse/external/oddsfeed"
	"github.com/oddspulse/oddspulse/internal/infrastructure/repository/memory"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

type stubCatalogProvider struct {
	catalog     []oddsfeed.CatalogEntry
	sports      []oddsfeed.SportEntry
	tournaments map[string][]oddsfeed.TournamentEntry
}

func (p *stubCatalogProvider) FetchCatalog(_ context.Context) ([]oddsfeed.CatalogEntry, error) {
	return p.catalog, nil
}

func (p *stubCatalogProvider) FetchSports(_ context.Context) ([]oddsfeed.SportEntry, error) {
	return p.sports, nil
}

func (p *stubCatalogProvider) FetchTournaments(_ context.Context, sportKey string) ([]oddsfeed.TournamentEntry, error) {
	return p.tournaments[sportKey], nil
}

func TestCatalogSyncService_SyncFromCatalog(t *testing.T) {
	t.Parallel()

	catalogRepo := memory.NewCatalogRepository()
	provider := &stubCatalogProvider{
		catalog: []oddsfeed.CatalogEntry{
			{Key: "ekstraklasa", Group: "Soccer", Title: "Ekstraklasa"},
			{Key: "premier-league", Group: "Soccer", Title: "Premier League"},
			{Key: "nba", Group: "Basketball", Title: "NBA"},
			{Key: "", Group: "Soccer", Title: "broken entry"},
		},
	}
	svc := NewCatalogSyncService(provider, catalogRepo, logging.NewNop())

	result, err := svc.SyncFromCatalog(context.Background())
	if err != nil {
		t.Fatalf("SyncFromCatalog error: %v", err)
	}
	if result.Sports != 2 || result.Leagues != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}

	leagues, err := catalogRepo.ListLeagues(context.Background())
	if err != nil {
		t.Fatalf("ListLeagues error: %v", err)
	}
	if len(leagues) != 3 {
		t.Fatalf("league count = %d, want 3", len(leagues))
	}
	for _, l := range leagues {
		if l.Download {
			t.Fatalf("new league %s must start with download disabled", l.ExternalKey)
		}
	}
}

func TestCatalogSyncService_ResyncPreservesDownloadFlag(t *testing.T) {
	t.Parallel()

	catalogRepo := memory.NewCatalogRepository()
	provider := &stubCatalogProvider{
		catalog: []oddsfeed.CatalogEntry{
			{Key: "ekstraklasa", Group: "Soccer", Title: "Ekstraklasa"},
		},
	}
	svc := NewCatalogSyncService(provider, catalogRepo, logging.NewNop())

	if _, err := svc.SyncFromCatalog(context.Background()); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	league, err := catalogRepo.GetLeagueByExternalKey(context.Background(), "ekstraklasa")
	if err != nil || league == nil {
		t.Fatalf("get league: %v %v", league, err)
	}
	if err := catalogRepo.SetLeagueDownload(context.Background(), league.ID, true); err != nil {
		t.Fatalf("enable download: %v", err)
	}

	provider.catalog[0].Title = "Ekstraklasa 2026"
	if _, err := svc.SyncFromCatalog(context.Background()); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	league, err = catalogRepo.GetLeagueByExternalKey(context.Background(), "ekstraklasa")
	if err != nil || league == nil {
		t.Fatalf("get league after resync: %v %v", league, err)
	}
	if !league.Download {
		t.Fatal("download flag must survive a resync")
	}
	if league.Name != "Ekstraklasa 2026" {
		t.Fatalf("league name = %q, want refreshed title", league.Name)
	}
}

func TestCatalogSyncService_SyncFromTournaments(t *testing.T) {
	t.Parallel()

	catalogRepo := memory.NewCatalogRepository()
	provider := &stubCatalogProvider{
		sports: []oddsfeed.SportEntry{
			{ExternalKey: "1", Name: "Soccer"},
			{ExternalKey: "2", Name: "Basketball"},
		},
		tournaments: map[string][]oddsfeed.TournamentEntry{
			"1": {
				{ExternalKey: "ekstraklasa", Name: "Ekstraklasa", CountryCode: "PL"},
			},
			"2": {
				{ExternalKey: "nba", Name: "NBA", CountryCode: "US"},
			},
		},
	}
	svc := NewCatalogSyncService(provider, catalogRepo, logging.NewNop())

	result, err := svc.SyncFromTournaments(context.Background())
	if err != nil {
		t.Fatalf("SyncFromTournaments error: %v", err)
	}
	if result.Sports != 2 || result.Leagues != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	sport, err := catalogRepo.GetSportByExternalKey(context.Background(), "1")
	if err != nil || sport == nil {
		t.Fatalf("get sport: %v %v", sport, err)
	}
	if sport.Name != "Soccer" {
		t.Fatalf("sport name = %q, want Soccer", sport.Name)
	}

	league, err := catalogRepo.GetLeagueByExternalKey(context.Background(), "ekstraklasa")
	if err != nil || league == nil {
		t.Fatalf("get league: %v %v", league, err)
	}
	if league.SportID != sport.ID {
		t.Fatalf("league sport_id = %d, want %d", league.SportID, sport.ID)
	}
	if league.CountryCode != "PL" {
		t.Fatalf("country code = %q, want PL", league.CountryCode)
	}
}

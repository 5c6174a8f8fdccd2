package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oddspulse/oddspulse/external/oddsfeed"
	"github.com/oddspulse/oddspulse/internal/domain/catalog"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

// CatalogProvider is the slice of the odds feed the catalog sync needs.
type CatalogProvider interface {
	FetchCatalog(ctx context.Context) ([]oddsfeed.CatalogEntry, error)
	FetchSports(ctx context.Context) ([]oddsfeed.SportEntry, error)
	FetchTournaments(ctx context.Context, sportKey string) ([]oddsfeed.TournamentEntry, error)
}

type CatalogSyncResult struct {
	Sports  int `json:"sports"`
	Leagues int `json:"leagues"`
}

type CatalogSyncService struct {
	provider    CatalogProvider
	catalogRepo catalog.Repository
	logger      *logging.Logger
}

func NewCatalogSyncService(provider CatalogProvider, catalogRepo catalog.Repository, logger *logging.Logger) *CatalogSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CatalogSyncService{
		provider:    provider,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// SyncFromCatalog refreshes the league catalog from the flat catalog listing,
// treating each entry's group as the parent sport. The whole snapshot commits
// or none of it does.
func (s *CatalogSyncService) SyncFromCatalog(ctx context.Context) (CatalogSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSyncService.SyncFromCatalog")
	defer span.End()

	entries, err := s.provider.FetchCatalog(ctx)
	if err != nil {
		return CatalogSyncResult{}, fmt.Errorf("fetch catalog: %w", err)
	}

	seeds := make([]catalog.LeagueSeed, 0, len(entries))
	sportNames := make(map[string]struct{}, 8)
	for _, entry := range entries {
		key := strings.TrimSpace(entry.Key)
		group := strings.TrimSpace(entry.Group)
		if key == "" || group == "" {
			continue
		}
		sportNames[group] = struct{}{}
		seeds = append(seeds, catalog.LeagueSeed{
			SportName:   group,
			ExternalKey: key,
			Name:        strings.TrimSpace(entry.Title),
		})
	}

	if err := s.catalogRepo.SyncCatalog(ctx, seeds); err != nil {
		return CatalogSyncResult{}, fmt.Errorf("sync catalog: %w", err)
	}

	s.logger.InfoContext(ctx, "catalog synced from flat listing",
		"sports", len(sportNames),
		"leagues", len(seeds),
	)

	return CatalogSyncResult{Sports: len(sportNames), Leagues: len(seeds)}, nil
}

// SyncFromTournaments refreshes sports from the structured sports endpoint,
// then walks each sport's tournaments. Leagues keep their sport's external key
// so event ingestion can query the feed per sport later.
func (s *CatalogSyncService) SyncFromTournaments(ctx context.Context) (CatalogSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSyncService.SyncFromTournaments")
	defer span.End()

	sports, err := s.provider.FetchSports(ctx)
	if err != nil {
		return CatalogSyncResult{}, fmt.Errorf("fetch sports: %w", err)
	}

	domainSports := make([]catalog.Sport, 0, len(sports))
	for _, sport := range sports {
		if strings.TrimSpace(sport.ExternalKey) == "" {
			continue
		}
		domainSports = append(domainSports, catalog.Sport{
			Name:        strings.TrimSpace(sport.Name),
			ExternalKey: strings.TrimSpace(sport.ExternalKey),
		})
	}
	if err := s.catalogRepo.SyncSports(ctx, domainSports); err != nil {
		return CatalogSyncResult{}, fmt.Errorf("sync sports: %w", err)
	}

	seeds := make([]catalog.LeagueSeed, 0, 64)
	for _, sport := range domainSports {
		tournaments, err := s.provider.FetchTournaments(ctx, sport.ExternalKey)
		if err != nil {
			s.logger.WarnContext(ctx, "tournament listing failed, sport skipped",
				"sport", sport.Name,
				"sport_key", sport.ExternalKey,
				"error", err,
			)
			continue
		}
		for _, t := range tournaments {
			if strings.TrimSpace(t.ExternalKey) == "" {
				continue
			}
			seeds = append(seeds, catalog.LeagueSeed{
				SportName:        sport.Name,
				SportExternalKey: sport.ExternalKey,
				ExternalKey:      strings.TrimSpace(t.ExternalKey),
				Name:             strings.TrimSpace(t.Name),
				CountryCode:      strings.TrimSpace(t.CountryCode),
			})
		}
	}

	if err := s.catalogRepo.SyncCatalog(ctx, seeds); err != nil {
		return CatalogSyncResult{}, fmt.Errorf("sync catalog: %w", err)
	}

	s.logger.InfoContext(ctx, "catalog synced from tournaments",
		"sports", len(domainSports),
		"leagues", len(seeds),
	)

	return CatalogSyncResult{Sports: len(domainSports), Leagues: len(seeds)}, nil
}

// ListLeagues returns the full league catalog, download-disabled entries
// included, so operators can see what is available to enable.
func (s *CatalogSyncService) ListLeagues(ctx context.Context) ([]catalog.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSyncService.ListLeagues")
	defer span.End()

	leagues, err := s.catalogRepo.ListLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

// SetLeagueDownload flips the ingestion flag on one league.
func (s *CatalogSyncService) SetLeagueDownload(ctx context.Context, leagueID int64, download bool) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSyncService.SetLeagueDownload")
	defer span.End()

	if leagueID <= 0 {
		return fmt.Errorf("%w: league id must be positive", ErrInvalidInput)
	}

	if err := s.catalogRepo.SetLeagueDownload(ctx, leagueID, download); err != nil {
		if errors.Is(err, catalog.ErrLeagueNotFound) {
			return fmt.Errorf("%w: league id=%d", ErrNotFound, leagueID)
		}
		return fmt.Errorf("set league download league_id=%d: %w", leagueID, err)
	}

	s.logger.InfoContext(ctx, "league download flag updated",
		"league_id", leagueID,
		"download", download,
	)

	return nil
}

package catalog

import (
	"context"
	"errors"
)

// ErrLeagueNotFound is returned when a league id does not exist.
var ErrLeagueNotFound = errors.New("league not found")

// Repository persists the sport/league catalog.
type Repository interface {
	ListSports(ctx context.Context) ([]Sport, error)
	GetSportByExternalKey(ctx context.Context, externalKey string) (*Sport, error)
	// SyncSports upserts sports by external key in a single transaction.
	SyncSports(ctx context.Context, sports []Sport) error
	ListLeagues(ctx context.Context) ([]League, error)
	// ListDownloadLeagues returns leagues enabled for event ingestion.
	ListDownloadLeagues(ctx context.Context) ([]League, error)
	GetLeagueByExternalKey(ctx context.Context, externalKey string) (*League, error)
	// SyncCatalog applies one catalog snapshot in a single transaction:
	// parent sports are resolved (and created when missing), leagues are
	// upserted by external key. Existing download flags are preserved; new
	// leagues are inserted with download disabled. A failure leaves the
	// catalog untouched.
	SyncCatalog(ctx context.Context, seeds []LeagueSeed) error
	SetLeagueDownload(ctx context.Context, leagueID int64, download bool) error
}

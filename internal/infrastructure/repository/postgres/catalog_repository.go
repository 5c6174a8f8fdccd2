package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/oddspulse/oddspulse/internal/domain/catalog"
	qb "github.com/oddspulse/oddspulse/internal/platform/querybuilder"
)

type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListSports(ctx context.Context) ([]catalog.Sport, error) {
	query, args, err := qb.Select(sportColumns).From("sports").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sports query: %w", err)
	}

	var rows []sportModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}

	out := make([]catalog.Sport, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CatalogRepository) GetSportByExternalKey(ctx context.Context, externalKey string) (*catalog.Sport, error) {
	query, args, err := qb.Select(sportColumns).From("sports").
		Where(qb.Eq("external_key", externalKey)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get sport query: %w", err)
	}

	var row sportModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sport external_key=%s: %w", externalKey, err)
	}
	sport := row.toDomain()
	return &sport, nil
}

func (r *CatalogRepository) SyncSports(ctx context.Context, sports []catalog.Sport) error {
	if len(sports) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx sync sports: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, sport := range sports {
		insertModel := sportInsertModel{
			Name:        strings.TrimSpace(sport.Name),
			ExternalKey: strings.TrimSpace(sport.ExternalKey),
		}
		query, args, err := qb.InsertModel("sports", insertModel, `ON CONFLICT (external_key) WHERE external_key <> ''
DO UPDATE SET
    name = EXCLUDED.name,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert sport query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert sport external_key=%s: %w", sport.ExternalKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sync sports tx: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListLeagues(ctx context.Context) ([]catalog.League, error) {
	return r.listLeagues(ctx)
}

func (r *CatalogRepository) ListDownloadLeagues(ctx context.Context) ([]catalog.League, error) {
	return r.listLeagues(ctx, qb.Eq("download", true))
}

func (r *CatalogRepository) listLeagues(ctx context.Context, conditions ...qb.Condition) ([]catalog.League, error) {
	query, args, err := qb.Select(leagueColumns).From("leagues").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}

	var rows []leagueModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	out := make([]catalog.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CatalogRepository) GetLeagueByExternalKey(ctx context.Context, externalKey string) (*catalog.League, error) {
	query, args, err := qb.Select(leagueColumns).From("leagues").
		Where(qb.Eq("external_key", externalKey)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get league external_key=%s: %w", externalKey, err)
	}
	league := row.toDomain()
	return &league, nil
}

// SyncCatalog applies one catalog snapshot inside a single transaction so a
// mid-sync failure never commits a partial catalog. Sports are resolved by
// external key when the seed carries one, by name otherwise, and created on
// first sight. League download flags survive the upsert.
func (r *CatalogRepository) SyncCatalog(ctx context.Context, seeds []catalog.LeagueSeed) error {
	if len(seeds) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx sync catalog: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	sportIDByKey := make(map[string]int64, 16)
	for _, seed := range seeds {
		sportID, err := resolveSportID(ctx, tx, sportIDByKey, seed)
		if err != nil {
			return err
		}

		insertModel := leagueInsertModel{
			SportID:     sportID,
			ExternalKey: strings.TrimSpace(seed.ExternalKey),
			Name:        strings.TrimSpace(seed.Name),
			CountryCode: strings.TrimSpace(seed.CountryCode),
			Download:    false,
		}
		query, args, err := qb.InsertModel("leagues", insertModel, `ON CONFLICT (external_key)
DO UPDATE SET
    sport_id = EXCLUDED.sport_id,
    name = EXCLUDED.name,
    country_code = EXCLUDED.country_code,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert league query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert league external_key=%s: %w", seed.ExternalKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sync catalog tx: %w", err)
	}
	return nil
}

func resolveSportID(ctx context.Context, tx *sqlx.Tx, cache map[string]int64, seed catalog.LeagueSeed) (int64, error) {
	externalKey := strings.TrimSpace(seed.SportExternalKey)
	name := strings.TrimSpace(seed.SportName)
	cacheKey := "key:" + externalKey
	if externalKey == "" {
		cacheKey = "name:" + name
	}
	if id, ok := cache[cacheKey]; ok {
		return id, nil
	}

	var condition qb.Condition
	if externalKey != "" {
		condition = qb.Eq("external_key", externalKey)
	} else {
		condition = qb.Eq("name", name)
	}
	query, args, err := qb.Select("id").From("sports").Where(condition).Limit(1).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build resolve sport query: %w", err)
	}

	var id int64
	err = tx.GetContext(ctx, &id, query, args...)
	switch {
	case err == nil:
		cache[cacheKey] = id
		return id, nil
	case !isNotFound(err):
		return 0, fmt.Errorf("resolve sport name=%s external_key=%s: %w", name, externalKey, err)
	}

	insertModel := sportInsertModel{Name: name, ExternalKey: externalKey}
	query, args, err = qb.InsertModel("sports", insertModel, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert sport query: %w", err)
	}
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("insert sport name=%s: %w", name, err)
	}
	cache[cacheKey] = id
	return id, nil
}

func (r *CatalogRepository) SetLeagueDownload(ctx context.Context, leagueID int64, download bool) error {
	query, args, err := qb.Update("leagues").
		Set("download", download).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set league download query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set league download league_id=%d: %w", leagueID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("league id=%d: %w", leagueID, catalog.ErrLeagueNotFound)
	}
	return nil
}

type sportInsertModel struct {
	Name        string `db:"name"`
	ExternalKey string `db:"external_key"`
}

type leagueInsertModel struct {
	SportID     int64  `db:"sport_id"`
	ExternalKey string `db:"external_key"`
	Name        string `db:"name"`
	CountryCode string `db:"country_code"`
	Download    bool   `db:"download"`
}

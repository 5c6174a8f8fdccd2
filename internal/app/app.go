package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/oddspulse/oddspulse/external/oddsfeed"
	"github.com/oddspulse/oddspulse/internal/config"
	"github.com/oddspulse/oddspulse/internal/infrastructure/repository/postgres"
	"github.com/oddspulse/oddspulse/internal/interfaces/httpapi"
	"github.com/oddspulse/oddspulse/internal/platform/locking"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
	"github.com/oddspulse/oddspulse/internal/platform/resilience"
	"github.com/oddspulse/oddspulse/internal/usecase"
)

// App holds the wired service graph. The HTTP server and the pipeline worker
// both build on the same App so manual job routes and the scheduled cycle
// share repositories, the feed client and the advisory lock.
type App struct {
	Config config.Config
	Logger *logging.Logger
	DB     *sqlx.DB
	Feed   *oddsfeed.Client

	CatalogSync *usecase.CatalogSyncService
	Ingest      *usecase.EventIngestService
	Resolution  *usecase.ResolutionService
	Retention   *usecase.RetentionService
	Pipeline    *usecase.PipelineService
	Ranges      *usecase.RangeService
	Stats       *usecase.StatsService
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := connectDB(cfg)
	if err != nil {
		return nil, err
	}

	feed := oddsfeed.NewClient(oddsfeed.ClientConfig{
		OfferBaseURL:         cfg.FeedOfferBaseURL,
		SubscriptionBaseURL:  cfg.FeedSubscriptionBaseURL,
		CatalogURL:           cfg.FeedCatalogURL,
		Lang:                 cfg.FeedLang,
		Timeout:              cfg.FeedTimeout,
		MaxAttempts:          cfg.FeedMaxAttempts,
		BackoffBase:          cfg.FeedBackoffBase,
		MarketGroupBlockList: cfg.FeedMarketGroupBlockList,
		MarketNameBlockList:  cfg.FeedMarketNameBlockList,
		Logger:               logger,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	})

	catalogRepo := postgres.NewCatalogRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	betEventRepo := postgres.NewBetEventRepository(db)
	ingestStore := postgres.NewIngestStore(db)
	recommendationRepo := postgres.NewRecommendationRepository(db)
	rangeRepo := postgres.NewRangeRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	statsSvc := usecase.NewStatsService(recommendationRepo, rangeRepo, statsRepo, logger)
	catalogSvc := usecase.NewCatalogSyncService(feed, catalogRepo, logger)
	ingestSvc := usecase.NewEventIngestService(feed, catalogRepo, ingestStore, usecase.EventIngestConfig{
		DaysForward: cfg.IngestDaysForward,
		BatchSize:   cfg.IngestBatchSize,
	}, logger)
	resolutionSvc := usecase.NewResolutionService(feed, gameRepo, betEventRepo, statsSvc, logger)
	retentionSvc := usecase.NewRetentionService(gameRepo, usecase.RetentionConfig{Window: cfg.RetentionWindow}, logger)
	rangeSvc := usecase.NewRangeService(rangeRepo, logger)

	locker := locking.NewAdvisoryLock(db, cfg.PipelineLockKey)
	pipelineSvc := usecase.NewPipelineService(locker, resolutionSvc, ingestSvc, retentionSvc, logger)

	return &App{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Feed:        feed,
		CatalogSync: catalogSvc,
		Ingest:      ingestSvc,
		Resolution:  resolutionSvc,
		Retention:   retentionSvc,
		Pipeline:    pipelineSvc,
		Ranges:      rangeSvc,
		Stats:       statsSvc,
	}, nil
}

func (a *App) HTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(
		a.CatalogSync,
		a.Ingest,
		a.Resolution,
		a.Retention,
		a.Pipeline,
		a.Ranges,
		a.Stats,
		a.Logger,
	)
	router := httpapi.NewRouter(handler, a.Logger, a.Config.CORSAllowedOrigins, a.Config.InternalJobToken)

	server := &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func connectDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)

	return db, nil
}

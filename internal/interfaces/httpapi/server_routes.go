package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("PUT /v1/leagues/{leagueID}/download", handler.SetLeagueDownload)
}

func registerTipsterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/ranges", handler.ListRanges)
	mux.HandleFunc("POST /v1/ranges", handler.CreateRange)
	mux.HandleFunc("GET /v1/tipsters/{tipsterID}/stats", handler.GetTipsterStats)
	mux.HandleFunc("GET /v1/tipsters/{tipsterID}/ranges/{rangeID}/stats", handler.GetTipsterRangeStats)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-catalog", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCatalogSyncJob)))
	mux.Handle("POST /v1/internal/jobs/ingest", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestJob)))
	mux.Handle("POST /v1/internal/jobs/resolve", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunResolveJob)))
	mux.Handle("POST /v1/internal/jobs/sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSweepJob)))
	mux.Handle("POST /v1/internal/jobs/run-cycle", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCycleJob)))
}

package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/oddspulse/oddspulse/internal/usecase"
)

// RunCatalogSyncJob refreshes sports and leagues from the feed. The optional
// body picks the source: "tournaments" (default) walks the structured sports
// listing, "catalog" uses the flat catalog dump.
func (h *Handler) RunCatalogSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCatalogSyncJob")
	defer span.End()

	if h.catalogService == nil {
		writeError(ctx, w, fmt.Errorf("%w: catalog service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeCatalogSyncRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var result usecase.CatalogSyncResult
	switch req.Source {
	case "", "tournaments":
		result, err = h.catalogService.SyncFromTournaments(ctx)
	case "catalog":
		result, err = h.catalogService.SyncFromCatalog(ctx)
	default:
		writeError(ctx, w, fmt.Errorf("%w: unknown sync source %q", usecase.ErrInvalidInput, req.Source))
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "catalog sync job failed", "source", req.Source, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunIngestJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestJob")
	defer span.End()

	if h.ingestService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingest service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.ingestService.Ingest(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunResolveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResolveJob")
	defer span.End()

	if h.resolutionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: resolution service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.resolutionService.Resolve(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSweepJob")
	defer span.End()

	if h.retentionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: retention service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.retentionService.Sweep(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunCycleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCycleJob")
	defer span.End()

	if h.pipelineService == nil {
		writeError(ctx, w, fmt.Errorf("%w: pipeline service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.pipelineService.RunCycle(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "pipeline cycle job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type catalogSyncRequest struct {
	Source string `json:"source"`
}

func decodeCatalogSyncRequest(r *http.Request) (catalogSyncRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req catalogSyncRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return catalogSyncRequest{}, nil
		}
		return catalogSyncRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	req.Source = strings.TrimSpace(req.Source)

	return req, nil
}

package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/oddspulse/oddspulse/internal/domain/catalog"
	"github.com/oddspulse/oddspulse/internal/domain/tipster"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
	"github.com/oddspulse/oddspulse/internal/usecase"
)

type Handler struct {
	catalogService    *usecase.CatalogSyncService
	ingestService     *usecase.EventIngestService
	resolutionService *usecase.ResolutionService
	retentionService  *usecase.RetentionService
	pipelineService   *usecase.PipelineService
	rangeService      *usecase.RangeService
	statsService      *usecase.StatsService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogSyncService,
	ingestService *usecase.EventIngestService,
	resolutionService *usecase.ResolutionService,
	retentionService *usecase.RetentionService,
	pipelineService *usecase.PipelineService,
	rangeService *usecase.RangeService,
	statsService *usecase.StatsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:    catalogService,
		ingestService:     ingestService,
		resolutionService: resolutionService,
		retentionService:  retentionService,
		pipelineService:   pipelineService,
		rangeService:      rangeService,
		statsService:      statsService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.catalogService.ListLeagues(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SetLeagueDownload(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetLeagueDownload")
	defer span.End()

	leagueID, err := parsePathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setLeagueDownloadRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	if err := h.catalogService.SetLeagueDownload(ctx, leagueID, req.Download); err != nil {
		h.logger.WarnContext(ctx, "set league download failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"league_id": leagueID,
		"download":  req.Download,
	})
}

func (h *Handler) ListRanges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRanges")
	defer span.End()

	ranges, err := h.rangeService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list odds ranges failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]oddsRangeDTO, 0, len(ranges))
	for _, v := range ranges {
		items = append(items, oddsRangeToDTO(v))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateRange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRange")
	defer span.End()

	var req createRangeRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.rangeService.Create(ctx, tipster.OddsRange{
		Name:  req.Name,
		Start: req.Start,
		End:   req.End,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create odds range failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, oddsRangeToDTO(created))
}

func (h *Handler) GetTipsterStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTipsterStats")
	defer span.End()

	tipsterID, err := parsePathID(r, "tipsterID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	tierID, err := parseOptionalTierID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.statsService.GetTipsterStats(ctx, tipsterID, tierID)
	if err != nil {
		h.logger.WarnContext(ctx, "get tipster stats failed", "tipster_id", tipsterID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsToDTO(*stats))
}

func (h *Handler) GetTipsterRangeStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTipsterRangeStats")
	defer span.End()

	tipsterID, err := parsePathID(r, "tipsterID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	rangeID, err := parsePathID(r, "rangeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	tierID, err := parseOptionalTierID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.statsService.GetTipsterRangeStats(ctx, tipsterID, tierID, rangeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get tipster range stats failed",
			"tipster_id", tipsterID,
			"range_id", rangeID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rangeStatsToDTO(*stats))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parsePathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}

func parseOptionalTierID(r *http.Request) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("tier_id"))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: tier_id must be a positive integer", usecase.ErrInvalidInput)
	}
	return &id, nil
}

type setLeagueDownloadRequest struct {
	Download bool `json:"download"`
}

type createRangeRequest struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Start float64 `json:"start" validate:"gt=0"`
	End   float64 `json:"end" validate:"gtfield=Start"`
}

type leagueDTO struct {
	ID          int64  `json:"id"`
	SportID     int64  `json:"sportId"`
	ExternalKey string `json:"externalKey"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
	Download    bool   `json:"download"`
}

type oddsRangeDTO struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type statsDTO struct {
	TipsterID            int64   `json:"tipsterId"`
	TierID               *int64  `json:"tierId,omitempty"`
	TotalPicks           int64   `json:"totalPicks"`
	TotalPicksWon        int64   `json:"totalPicksWon"`
	SumStake             float64 `json:"sumStake"`
	TotalReturn          float64 `json:"totalReturn"`
	SumOdds              float64 `json:"sumOdds"`
	PicksWithDescription int64   `json:"picksWithDescription"`
}

type rangeStatsDTO struct {
	TipsterID     int64   `json:"tipsterId"`
	TierID        *int64  `json:"tierId,omitempty"`
	RangeID       int64   `json:"rangeId"`
	TotalPicks    int64   `json:"totalPicks"`
	TotalPicksWon int64   `json:"totalPicksWon"`
	SumStake      float64 `json:"sumStake"`
	TotalReturn   float64 `json:"totalReturn"`
}

func leagueToDTO(v catalog.League) leagueDTO {
	return leagueDTO{
		ID:          v.ID,
		SportID:     v.SportID,
		ExternalKey: v.ExternalKey,
		Name:        v.Name,
		CountryCode: v.CountryCode,
		Download:    v.Download,
	}
}

func oddsRangeToDTO(v tipster.OddsRange) oddsRangeDTO {
	return oddsRangeDTO{
		ID:    v.ID,
		Name:  v.Name,
		Start: v.Start,
		End:   v.End,
	}
}

func statsToDTO(v tipster.Stats) statsDTO {
	return statsDTO{
		TipsterID:            v.TipsterID,
		TierID:               v.TierID,
		TotalPicks:           v.TotalPicks,
		TotalPicksWon:        v.TotalPicksWon,
		SumStake:             v.SumStake,
		TotalReturn:          v.TotalReturn,
		SumOdds:              v.SumOdds,
		PicksWithDescription: v.PicksWithDescription,
	}
}

func rangeStatsToDTO(v tipster.RangeStats) rangeStatsDTO {
	return rangeStatsDTO{
		TipsterID:     v.TipsterID,
		TierID:        v.TierID,
		RangeID:       v.RangeID,
		TotalPicks:    v.TotalPicks,
		TotalPicksWon: v.TotalPicksWon,
		SumStake:      v.SumStake,
		TotalReturn:   v.TotalReturn,
	}
}

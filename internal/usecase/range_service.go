package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/oddspulse/oddspulse/internal/domain/tipster"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

// RangeService manages the odds buckets statistics are segmented by.
type RangeService struct {
	rangeRepo tipster.RangeRepository
	validate  *validator.Validate
	logger    *logging.Logger
}

func NewRangeService(rangeRepo tipster.RangeRepository, logger *logging.Logger) *RangeService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RangeService{
		rangeRepo: rangeRepo,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
}

func (s *RangeService) List(ctx context.Context) ([]tipster.OddsRange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RangeService.List")
	defer span.End()

	ranges, err := s.rangeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list odds ranges: %w", err)
	}
	return ranges, nil
}

// Create validates the bucket and stores it. Overlapping bounds surface as
// tipster.ErrRangeOverlap wrapped in ErrInvalidInput.
func (s *RangeService) Create(ctx context.Context, oddsRange tipster.OddsRange) (tipster.OddsRange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RangeService.Create")
	defer span.End()

	oddsRange.Name = strings.TrimSpace(oddsRange.Name)
	if err := s.validate.Struct(oddsRange); err != nil {
		return tipster.OddsRange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.rangeRepo.Create(ctx, &oddsRange); err != nil {
		if errors.Is(err, tipster.ErrRangeOverlap) {
			return tipster.OddsRange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return tipster.OddsRange{}, fmt.Errorf("create odds range: %w", err)
	}

	s.logger.InfoContext(ctx, "odds range created",
		"range_id", oddsRange.ID,
		"name", oddsRange.Name,
		"start", oddsRange.Start,
		"end", oddsRange.End,
	)

	return oddsRange, nil
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/oddspulse/oddspulse/internal/domain/tipster"
	"github.com/oddspulse/oddspulse/internal/infrastructure/repository/memory"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

func TestRangeService_CreateAndList(t *testing.T) {
	t.Parallel()

	svc := NewRangeService(memory.NewRangeRepository(nil), logging.NewNop())

	created, err := svc.Create(context.Background(), tipster.OddsRange{Name: "low", Start: 1.01, End: 1.49})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created range must get an id")
	}

	if _, err := svc.Create(context.Background(), tipster.OddsRange{Name: "mid", Start: 1.5, End: 2.5}); err != nil {
		t.Fatalf("Create second range: %v", err)
	}

	ranges, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(ranges) != 2 {
		t.Fatalf("range count = %d, want 2", len(ranges))
	}
	if ranges[0].Name != "low" || ranges[1].Name != "mid" {
		t.Fatalf("ranges must come back ordered by start bound: %+v", ranges)
	}
}

func TestRangeService_RejectsOverlap(t *testing.T) {
	t.Parallel()

	svc := NewRangeService(memory.NewRangeRepository([]tipster.OddsRange{
		{ID: 1, Name: "mid", Start: 1.5, End: 2.5},
	}), logging.NewNop())

	_, err := svc.Create(context.Background(), tipster.OddsRange{Name: "clash", Start: 2.0, End: 3.0})
	if err == nil {
		t.Fatal("expected overlap rejection")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestRangeService_ValidatesBounds(t *testing.T) {
	t.Parallel()

	svc := NewRangeService(memory.NewRangeRepository(nil), logging.NewNop())

	cases := []struct {
		name  string
		input tipster.OddsRange
	}{
		{name: "missing name", input: tipster.OddsRange{Start: 1.5, End: 2.5}},
		{name: "zero start", input: tipster.OddsRange{Name: "bad", Start: 0, End: 2.5}},
		{name: "end not after start", input: tipster.OddsRange{Name: "bad", Start: 2.5, End: 2.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Create(context.Background(), tc.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

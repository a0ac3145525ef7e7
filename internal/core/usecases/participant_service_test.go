package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/planner/internal/core/domain"
	"github.com/samirrijal/planner/internal/core/usecases"
)

func TestParticipantService_Confirm_ReturnsTripID(t *testing.T) {
	parts := &mockParticipantRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Participant, error) {
			return &domain.Participant{ID: id, TripID: "trip-5", Email: "mary@example.com"}, nil
		},
	}
	svc := usecases.NewParticipantService(parts, nil, nil)

	tripID, err := svc.Confirm(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tripID != "trip-5" {
		t.Errorf("expected trip-5, got %s", tripID)
	}
}

func TestParticipantService_Confirm_RepeatIsNoop(t *testing.T) {
	parts := &mockParticipantRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Participant, error) {
			return &domain.Participant{ID: id, TripID: "trip-5", IsConfirmed: true}, nil
		},
		confirmFn: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc := usecases.NewParticipantService(parts, nil, nil)

	tripID, err := svc.Confirm(context.Background(), "p1")
	if err != nil {
		t.Fatalf("repeat confirmation must succeed, got %v", err)
	}
	if tripID != "trip-5" {
		t.Errorf("expected trip-5 for the redirect, got %s", tripID)
	}
}

func TestParticipantService_Confirm_NotFound(t *testing.T) {
	parts := &mockParticipantRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Participant, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := usecases.NewParticipantService(parts, nil, nil)

	_, err := svc.Confirm(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestParticipantService_ListByTrip(t *testing.T) {
	parts := &mockParticipantRepo{
		listByTripFn: func(ctx context.Context, tripID string) ([]domain.Participant, error) {
			return []domain.Participant{
				{ID: "p0", IsOwner: true},
				{ID: "p1"},
			}, nil
		},
	}
	svc := usecases.NewParticipantService(parts, nil, nil)

	list, err := svc.ListByTrip(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(list))
	}
}

package ports

import (
	"context"

	"github.com/samirrijal/planner/internal/core/domain"
)

// TripRepository persists trips.
type TripRepository interface {
	// CreateWithParticipants inserts the trip, its owner participant and
	// one pending participant per invited email in a single transaction.
	// A trip without an owner must never be observable.
	CreateWithParticipants(ctx context.Context, input domain.NewTripInput) (tripID string, err error)

	// GetByID returns the trip, or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetWithPendingParticipants returns the trip together with its
	// non-owner participants, or domain.ErrNotFound.
	GetWithPendingParticipants(ctx context.Context, id string) (*domain.Trip, error)

	// Confirm flips is_confirmed false→true. Returns true when this call
	// performed the transition, false when the trip was already
	// confirmed. domain.ErrNotFound when the trip does not exist.
	Confirm(ctx context.Context, id string) (bool, error)
}

// ParticipantRepository persists participants.
type ParticipantRepository interface {
	// Create inserts a pending non-owner participant for the trip.
	Create(ctx context.Context, tripID, email string) (participantID string, err error)

	// GetByID returns the participant, or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Participant, error)

	// ListByTrip returns all participants of a trip, owner first.
	ListByTrip(ctx context.Context, tripID string) ([]domain.Participant, error)

	// Confirm flips is_confirmed false→true. Same contract as
	// TripRepository.Confirm.
	Confirm(ctx context.Context, id string) (bool, error)
}

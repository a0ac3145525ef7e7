package usecases

import (
	"context"
	"log/slog"

	"github.com/samirrijal/planner/internal/core/domain"
	"github.com/samirrijal/planner/internal/core/ports"
	"github.com/samirrijal/planner/internal/pkg/metrics"
)

// ParticipantService handles participant confirmation and listing.
type ParticipantService struct {
	participants ports.ParticipantRepository
	events       ports.EventPublisher
	cache        ports.CacheService
}

// NewParticipantService creates a new ParticipantService.
// events and cache may be nil.
func NewParticipantService(
	participants ports.ParticipantRepository,
	events ports.EventPublisher,
	cache ports.CacheService,
) *ParticipantService {
	return &ParticipantService{participants: participants, events: events, cache: cache}
}

// Confirm marks the participant confirmed (a repeat visit of the mail
// link is a no-op) and returns the owning trip's ID for the redirect.
func (s *ParticipantService) Confirm(ctx context.Context, participantID string) (string, error) {
	p, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		return "", err
	}

	won, err := s.participants.Confirm(ctx, participantID)
	if err != nil {
		return "", err
	}
	if won {
		metrics.ParticipantsConfirmed.Inc()
		invalidateTrip(ctx, s.cache, p.TripID)
		if s.events != nil {
			if err := s.events.PublishParticipantConfirmed(ctx, p); err != nil {
				slog.Warn("publish participant confirmed", "participant_id", participantID, "error", err)
			}
		}
	}

	return p.TripID, nil
}

// ListByTrip returns all participants of a trip, owner first.
func (s *ParticipantService) ListByTrip(ctx context.Context, tripID string) ([]domain.Participant, error) {
	return s.participants.ListByTrip(ctx, tripID)
}

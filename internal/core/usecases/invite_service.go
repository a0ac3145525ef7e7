package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/planner/internal/core/domain"
	"github.com/samirrijal/planner/internal/core/ports"
	"github.com/samirrijal/planner/internal/pkg/metrics"
)

// InviteService adds participants to existing trips.
type InviteService struct {
	trips        ports.TripRepository
	participants ports.ParticipantRepository
	mailer       ports.Mailer
	events       ports.EventPublisher
	cache        ports.CacheService
	mail         Mail
}

// NewInviteService creates a new InviteService. events and cache may be nil.
func NewInviteService(
	trips ports.TripRepository,
	participants ports.ParticipantRepository,
	mailer ports.Mailer,
	events ports.EventPublisher,
	cache ports.CacheService,
	mail Mail,
) *InviteService {
	return &InviteService{
		trips:        trips,
		participants: participants,
		mailer:       mailer,
		events:       events,
		cache:        cache,
		mail:         mail,
	}
}

// Create persists a pending participant for the trip and mails them a
// presence-confirmation link. Repeat invites to the same address are
// allowed and create distinct participants.
func (s *InviteService) Create(ctx context.Context, tripID, email string) (string, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return "", err
	}

	participantID, err := s.participants.Create(ctx, tripID, email)
	if err != nil {
		return "", fmt.Errorf("create participant: %w", err)
	}
	metrics.InvitesCreated.Inc()
	invalidateTrip(ctx, s.cache, tripID)

	participant := &domain.Participant{
		ID:     participantID,
		TripID: tripID,
		Email:  email,
	}

	if s.events != nil {
		if err := s.events.PublishParticipantInvited(ctx, participant); err != nil {
			slog.Warn("publish participant invited", "participant_id", participantID, "error", err)
		}
	}

	msg := s.mail.Invitation(participant, trip)
	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.EmailsFailed.Inc()
		return participantID, fmt.Errorf("%w: invitation mail: %v", domain.ErrDelivery, err)
	}
	metrics.EmailsSent.Inc()

	return participantID, nil
}

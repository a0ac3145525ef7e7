package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/samirrijal/planner/internal/core/domain"
	"github.com/samirrijal/planner/internal/core/ports"
	"github.com/samirrijal/planner/internal/pkg/metrics"
)

// TripService handles trip creation and lookups.
type TripService struct {
	trips        ports.TripRepository
	participants ports.ParticipantRepository
	mailer       ports.Mailer
	events       ports.EventPublisher
	cache        ports.CacheService
	mail         Mail
	now          func() time.Time
}

// NewTripService creates a new TripService. events and cache may be nil.
func NewTripService(
	trips ports.TripRepository,
	participants ports.ParticipantRepository,
	mailer ports.Mailer,
	events ports.EventPublisher,
	cache ports.CacheService,
	mail Mail,
) *TripService {
	return &TripService{
		trips:        trips,
		participants: participants,
		mailer:       mailer,
		events:       events,
		cache:        cache,
		mail:         mail,
		now:          time.Now,
	}
}

// Create validates and persists a new trip together with its owner and
// invited participants, then mails the owner a confirmation link.
// The mail send happens after the commit and does not roll it back; a
// send failure is reported as domain.ErrDelivery with the trip ID kept.
func (s *TripService) Create(ctx context.Context, input domain.NewTripInput) (string, error) {
	if utf8.RuneCountInString(input.Destination) < 4 {
		return "", fmt.Errorf("%w: destination must be at least 4 characters", domain.ErrValidation)
	}
	if input.StartsAt.Before(s.now()) {
		return "", fmt.Errorf("%w: start date must be in the future", domain.ErrValidation)
	}
	if input.EndsAt.Before(input.StartsAt) {
		return "", fmt.Errorf("%w: end date must be after start date", domain.ErrValidation)
	}
	if input.OwnerName == "" {
		return "", fmt.Errorf("%w: owner name is required", domain.ErrValidation)
	}

	tripID, err := s.trips.CreateWithParticipants(ctx, input)
	if err != nil {
		return "", fmt.Errorf("create trip: %w", err)
	}
	metrics.TripsCreated.Inc()

	trip := &domain.Trip{
		ID:          tripID,
		Destination: input.Destination,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	}

	if s.events != nil {
		if err := s.events.PublishTripCreated(ctx, trip); err != nil {
			slog.Warn("publish trip created", "trip_id", tripID, "error", err)
		}
	}

	msg := s.mail.TripCreated(trip, input.OwnerName, input.OwnerEmail)
	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.EmailsFailed.Inc()
		return tripID, fmt.Errorf("%w: owner confirmation mail: %v", domain.ErrDelivery, err)
	}
	metrics.EmailsSent.Inc()

	return tripID, nil
}

// Get returns a trip with all its participants. Reads go through the
// cache; writes elsewhere invalidate the key.
func (s *TripService) Get(ctx context.Context, id string) (*domain.Trip, error) {
	cacheKey := "trips:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var trip domain.Trip
			if err := json.Unmarshal(data, &trip); err == nil {
				metrics.CacheHits.WithLabelValues("trip_get").Inc()
				return &trip, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("trip_get").Inc()
	}

	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	parts, err := s.participants.ListByTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	trip.Participants = parts

	if s.cache != nil {
		if data, err := json.Marshal(trip); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return trip, nil
}

// invalidateTrip drops the cached trip detail after a write.
func invalidateTrip(ctx context.Context, cache ports.CacheService, tripID string) {
	if cache != nil {
		_ = cache.Delete(ctx, "trips:id:"+tripID)
	}
}

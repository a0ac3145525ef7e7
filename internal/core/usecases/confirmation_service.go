package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samirrijal/planner/internal/core/domain"
	"github.com/samirrijal/planner/internal/core/ports"
	"github.com/samirrijal/planner/internal/pkg/metrics"
)

// FanoutPolicy decides what happens when some of the parallel
// invitation sends fail during trip confirmation.
type FanoutPolicy string

const (
	// FanoutFail reports a delivery error if any send failed.
	FanoutFail FanoutPolicy = "fail"
	// FanoutLog logs failed sends and reports success.
	FanoutLog FanoutPolicy = "log"
)

// ConfirmationService marks trips confirmed and notifies invitees.
type ConfirmationService struct {
	trips  ports.TripRepository
	mailer ports.Mailer
	events ports.EventPublisher
	cache  ports.CacheService
	mail   Mail
	policy FanoutPolicy
}

// NewConfirmationService creates a new ConfirmationService.
// events and cache may be nil.
func NewConfirmationService(
	trips ports.TripRepository,
	mailer ports.Mailer,
	events ports.EventPublisher,
	cache ports.CacheService,
	mail Mail,
	policy FanoutPolicy,
) *ConfirmationService {
	if policy != FanoutLog {
		policy = FanoutFail
	}
	return &ConfirmationService{
		trips:  trips,
		mailer: mailer,
		events: events,
		cache:  cache,
		mail:   mail,
		policy: policy,
	}
}

// Confirm marks the trip confirmed and mails every non-owner
// participant a presence-confirmation link. Confirming an already
// confirmed trip is a no-op success: no mail is sent again.
//
// The confirmed flag is flipped with a compare-and-set before the
// fan-out, so a concurrent second request observes the flag and takes
// the idempotent branch instead of re-sending invitations.
func (s *ConfirmationService) Confirm(ctx context.Context, tripID string) error {
	trip, err := s.trips.GetWithPendingParticipants(ctx, tripID)
	if err != nil {
		return err
	}

	if trip.IsConfirmed {
		return nil
	}

	won, err := s.trips.Confirm(ctx, tripID)
	if err != nil {
		return fmt.Errorf("confirm trip: %w", err)
	}
	if !won {
		// Lost the race to a concurrent confirmation.
		return nil
	}
	metrics.TripsConfirmed.Inc()
	invalidateTrip(ctx, s.cache, tripID)

	if s.events != nil {
		if err := s.events.PublishTripConfirmed(ctx, tripID); err != nil {
			slog.Warn("publish trip confirmed", "trip_id", tripID, "error", err)
		}
	}

	failures := s.fanout(ctx, trip)
	if len(failures) == 0 {
		return nil
	}

	metrics.EmailsFailed.Add(float64(len(failures)))
	if s.policy == FanoutLog {
		for _, err := range failures {
			slog.Warn("invitation mail failed", "trip_id", tripID, "error", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrDelivery, errors.Join(failures...))
}

// fanout sends one invitation per participant concurrently and waits
// for every send to settle, returning the failures.
func (s *ConfirmationService) fanout(ctx context.Context, trip *domain.Trip) []error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)

	for i := range trip.Participants {
		p := trip.Participants[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := s.mail.Invitation(&p, trip)
			if err := s.mailer.Send(ctx, msg); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("send to %s: %w", p.Email, err))
				mu.Unlock()
				return
			}
			metrics.EmailsSent.Inc()
		}()
	}
	wg.Wait()

	return failures
}

// RedirectURL is where the caller lands after a confirmation request,
// whichever branch was taken.
func (s *ConfirmationService) RedirectURL(tripID string) string {
	return s.mail.Links.TripPage(tripID)
}

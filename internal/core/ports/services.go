package ports

import (
	"context"

	"github.com/samirrijal/planner/internal/core/domain"
)

// Address is a mail address with an optional display name.
type Address struct {
	Name  string
	Email string
}

// Message is a single outbound email.
type Message struct {
	From    Address
	To      Address
	Subject string
	HTML    string
}

// Mailer delivers (or simulates delivery of) email messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// EventPublisher publishes domain events to a message broker.
// Implementations are best-effort; callers may hold a nil publisher.
type EventPublisher interface {
	PublishTripCreated(ctx context.Context, trip *domain.Trip) error
	PublishTripConfirmed(ctx context.Context, tripID string) error
	PublishParticipantInvited(ctx context.Context, p *domain.Participant) error
	PublishParticipantConfirmed(ctx context.Context, p *domain.Participant) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

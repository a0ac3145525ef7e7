package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/samirrijal/planner/internal/core/domain"
	"github.com/samirrijal/planner/internal/core/ports"
	"github.com/samirrijal/planner/internal/core/usecases"
)

func TestInviteService_Create_Success(t *testing.T) {
	trips := &mockTripRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Trip, error) {
			return &domain.Trip{ID: id, Destination: "Recife"}, nil
		},
	}
	parts := &mockParticipantRepo{
		createFn: func(ctx context.Context, tripID, email string) (string, error) {
			if email != "guest@example.com" {
				t.Errorf("unexpected email: %s", email)
			}
			return "participant-7", nil
		},
	}
	mailer := &mockMailer{}

	svc := usecases.NewInviteService(trips, parts, mailer, nil, nil, testMail)

	id, err := svc.Create(context.Background(), "trip-1", "guest@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "participant-7" {
		t.Errorf("expected participant-7, got %s", id)
	}

	msgs := mailer.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 invitation mail, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0].HTML, "http://api.test/participants/participant-7/confirm") {
		t.Errorf("invitation is missing the confirmation link: %s", msgs[0].HTML)
	}
	// Invite-created participants have no name; greeted by address.
	if !strings.Contains(msgs[0].HTML, "Olá, guest@example.com") {
		t.Errorf("expected greeting by email address: %s", msgs[0].HTML)
	}
}

func TestInviteService_Create_TripNotFound(t *testing.T) {
	trips := &mockTripRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Trip, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := usecases.NewInviteService(trips, &mockParticipantRepo{}, &mockMailer{}, nil, nil, testMail)

	_, err := svc.Create(context.Background(), "missing", "guest@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestInviteService_Create_MailFailure(t *testing.T) {
	mailer := &mockMailer{
		sendFn: func(ctx context.Context, msg ports.Message) error {
			return fmt.Errorf("smtp: timeout")
		},
	}
	svc := usecases.NewInviteService(&mockTripRepo{}, &mockParticipantRepo{}, mailer, nil, nil, testMail)

	id, err := svc.Create(context.Background(), "trip-1", "guest@example.com")
	if !errors.Is(err, domain.ErrDelivery) {
		t.Fatalf("expected delivery error, got %v", err)
	}
	// The participant row exists; the ID survives the mail failure.
	if id != "participant-1" {
		t.Errorf("expected participant ID despite mail failure, got %q", id)
	}
}

func TestInviteService_Create_DuplicateEmailsAllowed(t *testing.T) {
	created := 0
	parts := &mockParticipantRepo{
		createFn: func(ctx context.Context, tripID, email string) (string, error) {
			created++
			return fmt.Sprintf("participant-%d", created), nil
		},
	}
	svc := usecases.NewInviteService(&mockTripRepo{}, parts, &mockMailer{}, nil, nil, testMail)

	first, _ := svc.Create(context.Background(), "trip-1", "guest@example.com")
	second, _ := svc.Create(context.Background(), "trip-1", "guest@example.com")
	if first == second {
		t.Errorf("repeat invites must create distinct participants, both got %s", first)
	}
}

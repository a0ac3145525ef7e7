package usecases_test

import (
	"strings"
	"testing"
	"time"

	"github.com/samirrijal/planner/internal/core/domain"
)

func TestMail_TripCreated(t *testing.T) {
	trip := &domain.Trip{
		ID:          "trip-1",
		Destination: "Florianópolis",
		StartsAt:    time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
	}

	msg := testMail.TripCreated(trip, "John Doe", "john@example.com")

	if msg.From.Email != "equipe@plann.er" {
		t.Errorf("unexpected sender: %s", msg.From.Email)
	}
	if msg.To.Email != "john@example.com" || msg.To.Name != "John Doe" {
		t.Errorf("unexpected recipient: %+v", msg.To)
	}
	if !strings.Contains(msg.Subject, "Florianópolis") {
		t.Errorf("subject is missing the destination: %s", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "October 5, 2026") {
		t.Errorf("body is missing the start date: %s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "October 12, 2026") {
		t.Errorf("body is missing the end date: %s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "http://api.test/trips/trip-1/confirm") {
		t.Errorf("body is missing the confirmation link: %s", msg.HTML)
	}
}

func TestMail_Invitation_GreetsByName(t *testing.T) {
	trip := &domain.Trip{
		ID:          "trip-1",
		Destination: "Recife",
		StartsAt:    time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2026, 11, 8, 0, 0, 0, 0, time.UTC),
	}
	p := &domain.Participant{ID: "p1", Name: "Mary", Email: "mary@example.com"}

	msg := testMail.Invitation(p, trip)

	if !strings.Contains(msg.HTML, "Olá, Mary") {
		t.Errorf("expected greeting by name: %s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "http://api.test/participants/p1/confirm") {
		t.Errorf("body is missing the confirmation link: %s", msg.HTML)
	}
}

func TestMail_Invitation_FallsBackToEmail(t *testing.T) {
	trip := &domain.Trip{ID: "trip-1", Destination: "Recife"}
	p := &domain.Participant{ID: "p1", Email: "anon@example.com"}

	msg := testMail.Invitation(p, trip)

	if !strings.Contains(msg.HTML, "Olá, anon@example.com") {
		t.Errorf("expected greeting by address when name is empty: %s", msg.HTML)
	}
}

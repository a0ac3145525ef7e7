package usecases

import (
	"fmt"
	"time"

	"github.com/samirrijal/planner/internal/core/domain"
	"github.com/samirrijal/planner/internal/core/ports"
)

// Links builds the URLs embedded in outbound emails and redirects.
// Base URLs come from configuration, never from ambient globals.
type Links struct {
	APIBase string // e.g. https://api.plann.er
	WebBase string // e.g. https://plann.er
}

// TripConfirm is the link mailed to the owner after trip creation.
func (l Links) TripConfirm(tripID string) string {
	return fmt.Sprintf("%s/trips/%s/confirm", l.APIBase, tripID)
}

// ParticipantConfirm is the link mailed to invitees.
func (l Links) ParticipantConfirm(participantID string) string {
	return fmt.Sprintf("%s/participants/%s/confirm", l.APIBase, participantID)
}

// TripPage is the web frontend page for a trip, used as redirect target.
func (l Links) TripPage(tripID string) string {
	return fmt.Sprintf("%s/trips/%s", l.WebBase, tripID)
}

// Mail composes the email messages the services send.
type Mail struct {
	Sender ports.Address
	Links  Links
}

// formatDate renders a date the way the trip emails display it.
func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// TripCreated is the confirmation mail sent to the owner right after
// the trip is persisted.
func (m Mail) TripCreated(trip *domain.Trip, ownerName, ownerEmail string) ports.Message {
	start := formatDate(trip.StartsAt)
	end := formatDate(trip.EndsAt)

	return ports.Message{
		From:    m.Sender,
		To:      ports.Address{Name: ownerName, Email: ownerEmail},
		Subject: fmt.Sprintf("Você criou uma nova viagem para %s em %s", trip.Destination, start),
		HTML: fmt.Sprintf(`
			<div style="font-family: sans-serif; font-size: 16px; line-height: 1.6;">
				<p>Você solicitou a criação de uma viagem para <strong>%s</strong> nas datas de <strong>%s até %s.</strong></p>
				<p></p>
				<p>Para confirmar sua viagem, clique no link abaixo:</p>
				<p></p>
				<p><a href="%s">Confirmar viagem</a></p>
				<p></p>
				<p>Caso não tenha solicitado a criação de uma viagem, por favor ignore este email.</p>
			</div>`,
			trip.Destination, start, end, m.Links.TripConfirm(trip.ID)),
	}
}

// Invitation is the presence-confirmation mail sent to a participant,
// both on direct invites and on the trip-confirmation fan-out.
// Invite-created participants have no name yet; greet them by address.
func (m Mail) Invitation(p *domain.Participant, trip *domain.Trip) ports.Message {
	greeting := p.Name
	if greeting == "" {
		greeting = p.Email
	}
	start := formatDate(trip.StartsAt)
	end := formatDate(trip.EndsAt)

	return ports.Message{
		From:    m.Sender,
		To:      ports.Address{Name: p.Name, Email: p.Email},
		Subject: "Confirme sua presença na viagem",
		HTML: fmt.Sprintf(`
			<p>Olá, %s</p>
			<p>Você foi convidado para participar de uma viagem para %s</p>
			<p>Data: %s até %s</p>
			<p>Confirme sua presença clicando no link abaixo:</p>
			<a href="%s">Confirmar presença</a>`,
			greeting, trip.Destination, start, end, m.Links.ParticipantConfirm(p.ID)),
	}
}

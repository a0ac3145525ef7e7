package domain

import (
	"time"
)

// Trip is a planned journey with a destination and a date range.
// It is the top-level aggregate; participants belong to a trip.
type Trip struct {
	ID          string    `json:"id"`
	Destination string    `json:"destination"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	IsConfirmed bool      `json:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at"`

	// Participants is populated only when explicitly requested.
	Participants []Participant `json:"participants,omitempty"`
}

// Participant is a person attached to a trip, either its owner or an
// invitee. Confirmation status is tracked per participant.
type Participant struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"` // empty for invite-created participants
	IsOwner     bool      `json:"is_owner"`
	IsConfirmed bool      `json:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTripInput carries validated input for trip creation.
type NewTripInput struct {
	Destination    string
	StartsAt       time.Time
	EndsAt         time.Time
	OwnerName      string
	OwnerEmail     string
	EmailsToInvite []string
}

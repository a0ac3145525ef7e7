package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/planner/internal/adapters/postgres"
	"github.com/samirrijal/planner/internal/adapters/valkey"
	"github.com/samirrijal/planner/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Trips         *usecases.TripService
	Invites       *usecases.InviteService
	Confirmations *usecases.ConfirmationService
	Participants  *usecases.ParticipantService
	Links         usecases.Links
	NATS          *nats.Conn
	DB            *postgres.DB
	Cache         *valkey.Cache
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/planner/internal/core/domain"
)

// createTripRequest is the POST /trips body. Dates arrive as strings
// and are coerced at this boundary so the core only sees time.Time.
type createTripRequest struct {
	Destination    string   `json:"destination"`
	StartsAt       string   `json:"starts_at"`
	EndsAt         string   `json:"ends_at"`
	OwnerName      string   `json:"owner_name"`
	OwnerEmail     string   `json:"owner_email"`
	EmailsToInvite []string `json:"emails_to_invite"`
}

// CreateTripHandler handles POST /trips.
func CreateTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createTripRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		startsAt, err := parseTimestamp(req.StartsAt)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		endsAt, err := parseTimestamp(req.EndsAt)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		ownerEmail, err := parseEmail(req.OwnerEmail)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		invites := make([]string, 0, len(req.EmailsToInvite))
		for _, raw := range req.EmailsToInvite {
			email, err := parseEmail(raw)
			if err != nil {
				return errBadRequest(c, err.Error())
			}
			invites = append(invites, email)
		}

		tripID, err := deps.Trips.Create(c.UserContext(), domain.NewTripInput{
			Destination:    req.Destination,
			StartsAt:       startsAt,
			EndsAt:         endsAt,
			OwnerName:      req.OwnerName,
			OwnerEmail:     ownerEmail,
			EmailsToInvite: invites,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrValidation):
				return errBadRequest(c, err.Error())
			case errors.Is(err, domain.ErrDelivery):
				// The trip exists; only the owner mail failed.
				return errDelivery(c, err.Error())
			default:
				return errInternal(c, err.Error())
			}
		}

		return c.JSON(fiber.Map{"tripId": tripID})
	}
}

// CreateInviteHandler handles POST /trips/:tripId/invites.
func CreateInviteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID, err := parseID(c.Params("tripId"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		var req struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		email, err := parseEmail(req.Email)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		participantID, err := deps.Invites.Create(c.UserContext(), tripID, email)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return errNotFound(c, "Trip not found")
			case errors.Is(err, domain.ErrDelivery):
				return errDelivery(c, err.Error())
			default:
				return errInternal(c, err.Error())
			}
		}

		return c.JSON(fiber.Map{"participantId": participantID})
	}
}

// ConfirmTripHandler handles GET /trips/:tripId/confirm, the target of
// the owner's emailed link. Redirects to the trip page on both the
// first and any repeat visit.
func ConfirmTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID, err := parseID(c.Params("tripId"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		if err := deps.Confirmations.Confirm(c.UserContext(), tripID); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return errNotFound(c, "Trip not found")
			case errors.Is(err, domain.ErrDelivery):
				return errDelivery(c, err.Error())
			default:
				return errInternal(c, err.Error())
			}
		}

		return c.Redirect(deps.Links.TripPage(tripID), fiber.StatusFound)
	}
}

// ConfirmParticipantHandler handles GET /participants/:participantId/confirm,
// the target of the invitation links.
func ConfirmParticipantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		participantID, err := parseID(c.Params("participantId"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		tripID, err := deps.Participants.Confirm(c.UserContext(), participantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "Participant not found")
			}
			return errInternal(c, err.Error())
		}

		return c.Redirect(deps.Links.TripPage(tripID), fiber.StatusFound)
	}
}

// GetTripHandler handles GET /trips/:tripId.
func GetTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID, err := parseID(c.Params("tripId"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		trip, err := deps.Trips.Get(c.UserContext(), tripID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "Trip not found")
			}
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "private, max-age=60")
		return c.JSON(trip)
	}
}

// ListParticipantsHandler handles GET /trips/:tripId/participants.
func ListParticipantsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID, err := parseID(c.Params("tripId"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		trip, err := deps.Trips.Get(c.UserContext(), tripID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "Trip not found")
			}
			return errInternal(c, err.Error())
		}

		offset, limit := clampPage(c.QueryInt("offset", 0), c.QueryInt("limit", defaultPageLimit))
		participants := pageSlice(trip.Participants, offset, limit)

		pg := Pagination{Offset: offset, Limit: limit, Total: len(trip.Participants)}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: participants, Pagination: pg})
	}
}

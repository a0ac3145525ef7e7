package domain

import "errors"

// ErrNotFound is returned when a referenced trip or participant does
// not exist. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule (bad
// dates, short destination, malformed email). Handlers map this to 400.
var ErrValidation = errors.New("validation error")

// ErrDelivery is returned when an email could not be handed to the
// mailer. The preceding database write is not rolled back; handlers
// map this to 502 so callers can tell it apart from their own mistakes.
var ErrDelivery = errors.New("delivery error")

package app

import (
	"errors"

	"reservation_ingest/internal/domain"
	"reservation_ingest/internal/parser"
)

// Messages renders a core error as the list shown to API clients. ok is
// false for errors outside the core (storage outages, cancelled contexts),
// which callers surface as internal failures.
func Messages(err error) (msgs []string, ok bool) {
	var ve *domain.ValidationError
	var ce *parser.CoercionError
	switch {
	case err == nil:
		return nil, false
	case errors.As(err, &ve):
		return ve.Messages(), true
	case errors.As(err, &ce):
		return []string{ce.Error()}, true
	case errors.Is(err, domain.ErrUnrecognizedFormat),
		errors.Is(err, domain.ErrMissingGuestIdentity),
		errors.Is(err, domain.ErrMissingReservationIdentity):
		return []string{err.Error()}, true
	}
	return nil, false
}

// outcome labels an ingest attempt for metrics.
func outcome(res IngestResult, err error) string {
	var ve *domain.ValidationError
	var ce *parser.CoercionError
	switch {
	case err == nil && res.ReservationCreated:
		return "created"
	case err == nil:
		return "updated"
	case errors.Is(err, domain.ErrUnrecognizedFormat):
		return "unrecognized"
	case errors.Is(err, domain.ErrMissingGuestIdentity), errors.Is(err, domain.ErrMissingReservationIdentity):
		return "missing_identity"
	case errors.As(err, &ce):
		return "coercion"
	case errors.As(err, &ve):
		return "invalid"
	default:
		return "error"
	}
}

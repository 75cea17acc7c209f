package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrUnrecognizedFormat is deliberately vague: it must not reveal which
	// discriminator keys the formats look for.
	ErrUnrecognizedFormat = errors.New("invalid payload format")

	ErrMissingGuestIdentity       = errors.New("guest identity cannot be blank")
	ErrMissingReservationIdentity = errors.New("reservation identity cannot be blank")
)

// FieldError attributes a validation message to a canonical field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FullMessage renders the error the way it is shown to API clients,
// e.g. "Email has already been taken".
func (e FieldError) FullMessage() string {
	return Humanize(e.Field) + " " + e.Message
}

// ValidationError is returned by the storage collaborator when an entity
// violates its contract.
type ValidationError struct {
	Entity string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(e.Messages(), "; "))
}

func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.FullMessage())
	}
	return out
}

// Has reports whether field carries at least one error.
func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Humanize turns a canonical field name into a label:
// "payout_price" -> "Payout price", "guest_id" -> "Guest", "phone_1" -> "Phone 1".
func Humanize(field string) string {
	s := strings.TrimSuffix(field, "_id")
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

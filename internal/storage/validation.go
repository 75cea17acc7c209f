// Package storage holds the validation contract every repository enforces
// before a write is accepted.
package storage

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"reservation_ingest/internal/domain"
)

const (
	EntityGuest       = "guest"
	EntityReservation = "reservation"
)

// amountPlaces matches the scale of the reservation amount columns.
const amountPlaces = 2

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report canonical (json) names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			x, _ := d.Float64()
			return x
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterStructValidation(amountScale, domain.Reservation{})
	return v
}

// amountScale rejects amounts a DECIMAL(14,2) column would silently round.
func amountScale(sl validator.StructLevel) {
	r := sl.Current().Interface().(domain.Reservation)
	for _, a := range []struct {
		name  string
		field string
		v     *decimal.Decimal
	}{
		{"payout_price", "PayoutPrice", r.PayoutPrice},
		{"security_price", "SecurityPrice", r.SecurityPrice},
		{"total_price", "TotalPrice", r.TotalPrice},
	} {
		if a.v != nil && !a.v.Equal(a.v.Round(amountPlaces)) {
			sl.ReportError(*a.v, a.name, a.field, "scale", "2")
		}
	}
}

// ValidateGuest checks presence and length rules on g.
func ValidateGuest(g *domain.Guest) error { return check(EntityGuest, g) }

// ValidateReservation checks presence, length, range and scale rules on r,
// including the owning guest reference.
func ValidateReservation(r *domain.Reservation) error { return check(EntityReservation, r) }

func check(entity string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{Entity: entity}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, domain.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if strings.HasSuffix(fe.Field(), "_id") {
			return "must exist"
		}
		return "can't be blank"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "max":
		return "is too long (maximum is " + fe.Param() + " characters)"
	case "scale":
		return "must have at most " + fe.Param() + " decimal places"
	}
	return "is invalid"
}

// Taken reports a natural-key collision on field.
func Taken(entity, field string) *domain.ValidationError {
	return Invalid(entity, field, "has already been taken")
}

// Invalid reports a single rejected field.
func Invalid(entity, field, msg string) *domain.ValidationError {
	return &domain.ValidationError{
		Entity: entity,
		Errors: []domain.FieldError{{Field: field, Message: msg}},
	}
}

// MissingOwner reports a reservation whose guest reference does not resolve.
func MissingOwner() *domain.ValidationError {
	return &domain.ValidationError{
		Entity: EntityReservation,
		Errors: []domain.FieldError{{Field: "guest_id", Message: "must exist"}},
	}
}

// Key normalizes a natural key for case-insensitive comparison.
func Key(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

package parser

import "reservation_ingest/internal/domain"

// Format names, reported in logs and metrics.
const (
	FormatFlat   = "flat"
	FormatNested = "nested"
)

// Flat handles payloads with top-level reservation attributes and a nested
// "guest" object holding a single phone number.
func Flat() *Descriptor {
	return &Descriptor{
		Name:           FormatFlat,
		Discriminators: []string{"reservation_code", "guest.email"},
		Fields: []Field{
			{domain.FieldReservationCode, "reservation_code"},
			{domain.FieldStartDate, "start_date"},
			{domain.FieldEndDate, "end_date"},
			{domain.FieldNights, "nights"},
			{domain.FieldGuests, "guests"},
			{domain.FieldAdults, "adults"},
			{domain.FieldChildren, "children"},
			{domain.FieldInfants, "infants"},
			{domain.FieldStatus, "status"},
			{domain.FieldCurrency, "currency"},
			{domain.FieldPayoutPrice, "payout_price"},
			{domain.FieldSecurityPrice, "security_price"},
			{domain.FieldTotalPrice, "total_price"},
			{domain.FieldEmail, "guest.email"},
			{domain.FieldFirstName, "guest.first_name"},
			{domain.FieldLastName, "guest.last_name"},
			{domain.FieldPhone, "guest.phone"},
		},
		GuestExtras: flatGuestExtras,
	}
}

// Nested handles payloads wrapped in a "reservation" object, with guest
// attributes prefixed by "guest_" and party counts under "guest_details".
func Nested() *Descriptor {
	return &Descriptor{
		Name:           FormatNested,
		Discriminators: []string{"reservation.code", "reservation.guest_email"},
		Fields: []Field{
			{domain.FieldReservationCode, "reservation.code"},
			{domain.FieldStartDate, "reservation.start_date"},
			{domain.FieldEndDate, "reservation.end_date"},
			{domain.FieldNights, "reservation.nights"},
			{domain.FieldGuests, "reservation.number_of_guests"},
			{domain.FieldAdults, "reservation.guest_details.number_of_adults"},
			{domain.FieldChildren, "reservation.guest_details.number_of_children"},
			{domain.FieldInfants, "reservation.guest_details.number_of_infants"},
			{domain.FieldStatus, "reservation.status_type"},
			{domain.FieldCurrency, "reservation.host_currency"},
			{domain.FieldPayoutPrice, "reservation.expected_payout_amount"},
			{domain.FieldSecurityPrice, "reservation.listing_security_price_accurate"},
			{domain.FieldTotalPrice, "reservation.total_paid_amount_accurate"},
			{domain.FieldEmail, "reservation.guest_email"},
			{domain.FieldFirstName, "reservation.guest_first_name"},
			{domain.FieldLastName, "reservation.guest_last_name"},
			{domain.FieldPhones, "reservation.guest_phone_numbers"},
			{domain.FieldLocalizedDescription, "reservation.guest_details.localized_description"},
		},
		GuestExtras:       nestedGuestExtras,
		ReservationExtras: nestedReservationExtras,
	}
}

func flatGuestExtras(_ map[string]any, values *domain.Fields) *domain.Fields {
	out := domain.NewFields()
	if phone, ok := values.String(domain.FieldPhone); ok {
		out.Set(domain.FieldPhone1, phone)
	}
	return out
}

// nestedGuestExtras assigns the first three phone numbers to the positional
// slots; any further numbers are dropped.
func nestedGuestExtras(_ map[string]any, values *domain.Fields) *domain.Fields {
	out := domain.NewFields()
	phones, _ := values.List(domain.FieldPhones)
	for i, raw := range phones {
		if i >= len(domain.PhoneSlots) {
			break
		}
		if s, ok := asText(raw); ok {
			out.Set(domain.PhoneSlots[i], s)
		}
	}
	return out
}

func nestedReservationExtras(_ map[string]any, values *domain.Fields) *domain.Fields {
	out := domain.NewFields()
	if desc, ok := values.String(domain.FieldLocalizedDescription); ok {
		out.Set(domain.FieldLocalizedDescription, desc)
	}
	return out
}

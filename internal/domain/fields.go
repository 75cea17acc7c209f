package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical field names shared by every payload format.
const (
	FieldEmail     = "email"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldPhone     = "phone"
	FieldPhones    = "phones"
	FieldPhone1    = "phone_1"
	FieldPhone2    = "phone_2"
	FieldPhone3    = "phone_3"

	FieldReservationCode      = "reservation_code"
	FieldStartDate            = "start_date"
	FieldEndDate              = "end_date"
	FieldNights               = "nights"
	FieldGuests               = "guests"
	FieldAdults               = "adults"
	FieldChildren             = "children"
	FieldInfants              = "infants"
	FieldStatus               = "status"
	FieldCurrency             = "currency"
	FieldPayoutPrice          = "payout_price"
	FieldSecurityPrice        = "security_price"
	FieldTotalPrice           = "total_price"
	FieldLocalizedDescription = "localized_description"
)

// PhoneSlots lists the positional phone fields in assignment order.
var PhoneSlots = []string{FieldPhone1, FieldPhone2, FieldPhone3}

// Fields is an ordered canonical field map. Keys keep their first insertion
// position; setting an existing key replaces its value in place.
// The zero value is ready to use.
type Fields struct {
	keys   []string
	values map[string]any
}

func NewFields() *Fields { return &Fields{} }

func (f *Fields) Set(name string, v any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, ok := f.values[name]; !ok {
		f.keys = append(f.keys, name)
	}
	f.values[name] = v
}

func (f *Fields) Get(name string) (any, bool) {
	if f == nil || f.values == nil {
		return nil, false
	}
	v, ok := f.values[name]
	return v, ok
}

func (f *Fields) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns field names in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.keys...)
}

func (f *Fields) String(name string) (string, bool) {
	v, ok := f.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (f *Fields) Int(name string) (int, bool) {
	v, ok := f.Get(name)
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

func (f *Fields) Date(name string) (time.Time, bool) {
	v, ok := f.Get(name)
	if !ok {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

func (f *Fields) Decimal(name string) (decimal.Decimal, bool) {
	v, ok := f.Get(name)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, ok := v.(decimal.Decimal)
	return d, ok
}

func (f *Fields) List(name string) ([]any, bool) {
	v, ok := f.Get(name)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	return l, ok
}

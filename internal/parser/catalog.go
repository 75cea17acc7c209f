package parser

import "reservation_ingest/internal/domain"

// Group is the entity a canonical field belongs to.
type Group int

const (
	GroupReservation Group = iota
	GroupGuest
)

type fieldInfo struct {
	group Group
	kind  Kind
	// shared fields are applied by the engine itself; the rest are only
	// visible to a descriptor's extension hooks.
	shared bool
}

var catalog = map[string]fieldInfo{
	domain.FieldEmail:     {group: GroupGuest, kind: KindText, shared: true},
	domain.FieldFirstName: {group: GroupGuest, kind: KindText, shared: true},
	domain.FieldLastName:  {group: GroupGuest, kind: KindText, shared: true},
	domain.FieldPhone:     {group: GroupGuest, kind: KindText},
	domain.FieldPhones:    {group: GroupGuest, kind: KindList},

	domain.FieldReservationCode:      {group: GroupReservation, kind: KindText, shared: true},
	domain.FieldStartDate:            {group: GroupReservation, kind: KindDate, shared: true},
	domain.FieldEndDate:              {group: GroupReservation, kind: KindDate, shared: true},
	domain.FieldNights:               {group: GroupReservation, kind: KindInteger, shared: true},
	domain.FieldGuests:               {group: GroupReservation, kind: KindInteger, shared: true},
	domain.FieldAdults:               {group: GroupReservation, kind: KindInteger, shared: true},
	domain.FieldChildren:             {group: GroupReservation, kind: KindInteger, shared: true},
	domain.FieldInfants:              {group: GroupReservation, kind: KindInteger, shared: true},
	domain.FieldStatus:               {group: GroupReservation, kind: KindText, shared: true},
	domain.FieldCurrency:             {group: GroupReservation, kind: KindText, shared: true},
	domain.FieldPayoutPrice:          {group: GroupReservation, kind: KindDecimal, shared: true},
	domain.FieldSecurityPrice:        {group: GroupReservation, kind: KindDecimal, shared: true},
	domain.FieldTotalPrice:           {group: GroupReservation, kind: KindDecimal, shared: true},
	domain.FieldLocalizedDescription: {group: GroupReservation, kind: KindText},
}

// infoFor falls back to a hook-only reservation text field for names the
// catalog does not know.
func infoFor(name string) fieldInfo {
	if s, ok := catalog[name]; ok {
		return s
	}
	return fieldInfo{group: GroupReservation, kind: KindText}
}

// KindOf returns the declared kind of a canonical field.
func KindOf(name string) Kind { return infoFor(name).kind }

// GroupOf returns the entity a canonical field is routed to.
func GroupOf(name string) Group { return infoFor(name).group }

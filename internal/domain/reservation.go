package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation is keyed by its code, compared case-insensitively.
// Optional attributes are pointers so an unset value is distinguishable
// from zero (infants = 0 is valid, a missing infant count is not).
type Reservation struct {
	ID                   int64            `json:"id"`
	Code                 string           `json:"reservation_code" validate:"required,max=64"`
	StartDate            *time.Time       `json:"start_date" validate:"required"`
	EndDate              *time.Time       `json:"end_date" validate:"required"`
	Nights               *int             `json:"nights" validate:"required,gte=0,lte=2147483647"`
	Guests               *int             `json:"guests" validate:"required,gte=0,lte=2147483647"`
	Adults               *int             `json:"adults" validate:"required,gte=0,lte=2147483647"`
	Children             *int             `json:"children" validate:"required,gte=0,lte=2147483647"`
	Infants              *int             `json:"infants" validate:"required,gte=0,lte=2147483647"`
	Status               string           `json:"status" validate:"required,max=64"`
	Currency             string           `json:"currency" validate:"required,max=8"`
	PayoutPrice          *decimal.Decimal `json:"payout_price" validate:"required,gte=0,lte=999999999999.99"`
	SecurityPrice        *decimal.Decimal `json:"security_price" validate:"required,gte=0,lte=999999999999.99"`
	TotalPrice           *decimal.Decimal `json:"total_price" validate:"required,gte=0,lte=999999999999.99"`
	LocalizedDescription string           `json:"localized_description,omitempty" validate:"max=255"`
	GuestID              int64            `json:"guest_id" validate:"required"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// IsNew reports whether the reservation has not been persisted yet.
func (r Reservation) IsNew() bool { return r.ID == 0 }

// Clone returns a copy that shares no pointers with r.
func (r Reservation) Clone() Reservation {
	out := r
	out.StartDate = clonePtr(r.StartDate)
	out.EndDate = clonePtr(r.EndDate)
	out.Nights = clonePtr(r.Nights)
	out.Guests = clonePtr(r.Guests)
	out.Adults = clonePtr(r.Adults)
	out.Children = clonePtr(r.Children)
	out.Infants = clonePtr(r.Infants)
	out.PayoutPrice = clonePtr(r.PayoutPrice)
	out.SecurityPrice = clonePtr(r.SecurityPrice)
	out.TotalPrice = clonePtr(r.TotalPrice)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ReservationView is the read model served by the query side.
type ReservationView struct {
	Reservation Reservation `json:"reservation"`
	Guest       Guest       `json:"guest"`
}

package domain

import "time"

// Guest is keyed by email, compared case-insensitively.
type Guest struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email" validate:"required,max=255"`
	FirstName string    `json:"first_name" validate:"required,max=255"`
	LastName  string    `json:"last_name" validate:"required,max=255"`
	Phone1    string    `json:"phone_1" validate:"required,max=64"`
	Phone2    string    `json:"phone_2,omitempty" validate:"max=64"`
	Phone3    string    `json:"phone_3,omitempty" validate:"max=64"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsNew reports whether the guest has not been persisted yet.
func (g Guest) IsNew() bool { return g.ID == 0 }

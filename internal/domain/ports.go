package domain

import "context"

// ReservationRepository is the storage collaborator. Save methods enforce the
// validation contract and return *ValidationError for field-level failures,
// including natural-key collisions ("has already been taken").
type ReservationRepository interface {
	FindGuestByEmail(ctx context.Context, email string) (Guest, error)
	FindGuestByID(ctx context.Context, id int64) (Guest, error)
	FindReservationByCode(ctx context.Context, code string) (Reservation, error)

	SaveGuest(ctx context.Context, g *Guest) error
	SaveReservation(ctx context.Context, r *Reservation) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ProviderClient fetches raw reservation payloads from the upstream provider.
type ProviderClient interface {
	GetReservation(ctx context.Context, code string) (map[string]any, error)
}

package app

import (
	"context"
	"fmt"
	"time"

	"reservation_ingest/internal/domain"
	"reservation_ingest/internal/storage"
)

type QueryService struct {
	repo     domain.ReservationRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReservationRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func reservationKey(code string) string {
	return fmt.Sprintf("reservation:%s", storage.Key(code))
}

// GetReservation returns the reservation stored under code together with its
// guest. Only the reservation is cached, until the next ingest of the same
// code; the guest is always read from the repository because other
// reservations can update it.
func (s *QueryService) GetReservation(ctx context.Context, code string) (domain.ReservationView, error) {
	key := reservationKey(code)
	var r domain.Reservation
	cached := false
	if s.cache != nil {
		cached, _ = s.cache.Get(ctx, key, &r)
	}
	if !cached {
		var err error
		r, err = s.repo.FindReservationByCode(ctx, code)
		if err != nil {
			return domain.ReservationView{}, err
		}
		if s.cache != nil {
			_ = s.cache.Set(ctx, key, r, int(s.cacheTTL.Seconds()))
		}
	}

	g, err := s.repo.FindGuestByID(ctx, r.GuestID)
	if err != nil {
		return domain.ReservationView{}, fmt.Errorf("guest %d of reservation %s: %w", r.GuestID, r.Code, err)
	}
	return domain.ReservationView{Reservation: r, Guest: g}, nil
}

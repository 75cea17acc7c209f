package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"reservation_ingest/internal/domain"
)

// SyncService pulls reservations from the upstream provider and feeds them
// through the same ingest path as pushed payloads.
type SyncService struct {
	provider domain.ProviderClient
	ingest   *ReservationService
}

func NewSyncService(p domain.ProviderClient, s *ReservationService) *SyncService {
	return &SyncService{provider: p, ingest: s}
}

// SyncReservation fetches code and ingests it. A code unknown upstream is
// logged and skipped.
func (s *SyncService) SyncReservation(ctx context.Context, code string) error {
	raw, err := s.provider.GetReservation(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().Str("code", code).Msg("reservation not found upstream")
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch reservation %s: %w", code, err)
	}
	if _, err := s.ingest.Ingest(ctx, "backfill", raw); err != nil {
		return fmt.Errorf("ingest reservation %s: %w", code, err)
	}
	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"reservation_ingest/internal/adapters/observability"
	"reservation_ingest/internal/domain"
	"reservation_ingest/internal/parser"
	"reservation_ingest/internal/storage"
)

// ReservationService turns provider payloads into persisted guest and
// reservation records.
type ReservationService struct {
	formats *parser.Registry
	repo    domain.ReservationRepository
	cache   domain.Cache
}

// NewReservationService wires the service; cache may be nil.
func NewReservationService(f *parser.Registry, r domain.ReservationRepository, cache domain.Cache) *ReservationService {
	return &ReservationService{formats: f, repo: r, cache: cache}
}

// IngestResult describes a successful upsert.
type IngestResult struct {
	Format             string
	Guest              domain.Guest
	Reservation        domain.Reservation
	GuestCreated       bool
	ReservationCreated bool
}

// Ingest selects the payload format, normalizes the payload and upserts the
// guest and reservation. source labels metrics (http, kafka, backfill).
func (s *ReservationService) Ingest(ctx context.Context, source string, raw map[string]any) (IngestResult, error) {
	d, err := s.formats.Select(raw)
	if err != nil {
		observability.ObserveIngest(source, "", outcome(IngestResult{}, err))
		return IngestResult{}, err
	}

	guestFields, reservationFields, err := parser.Normalize(d, raw)
	if err != nil {
		observability.ObserveIngest(source, d.Name, outcome(IngestResult{}, err))
		log.Warn().Err(err).Str("source", source).Str("format", d.Name).Msg("reservation payload rejected")
		return IngestResult{Format: d.Name}, err
	}

	res, err := s.Apply(ctx, guestFields, reservationFields)
	res.Format = d.Name
	observability.ObserveIngest(source, d.Name, outcome(res, err))
	if err != nil {
		ev := log.Warn()
		if _, ok := Messages(err); !ok {
			ev = log.Error()
		}
		ev.Err(err).Str("source", source).Str("format", d.Name).Msg("reservation ingest rejected")
		return res, err
	}

	log.Info().
		Str("source", source).
		Str("format", d.Name).
		Str("code", res.Reservation.Code).
		Int64("guest_id", res.Guest.ID).
		Bool("guest_created", res.GuestCreated).
		Bool("reservation_created", res.ReservationCreated).
		Msg("reservation ingested")
	return res, nil
}

// Apply resolves both entities by natural key, merges the normalized fields,
// links the reservation to the guest and persists guest then reservation.
//
// A reservation save failure after a successful guest save leaves the guest
// write in place; the store has no transaction spanning both calls.
func (s *ReservationService) Apply(ctx context.Context, guestFields, reservationFields *domain.Fields) (IngestResult, error) {
	email, _ := guestFields.String(domain.FieldEmail)
	if strings.TrimSpace(email) == "" {
		return IngestResult{}, domain.ErrMissingGuestIdentity
	}
	guest, err := s.repo.FindGuestByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		guest = domain.Guest{}
	case err != nil:
		return IngestResult{}, fmt.Errorf("find guest: %w", err)
	}
	applyGuestFields(&guest, guestFields)

	code, _ := reservationFields.String(domain.FieldReservationCode)
	if strings.TrimSpace(code) == "" {
		return IngestResult{}, domain.ErrMissingReservationIdentity
	}
	reservation, err := s.repo.FindReservationByCode(ctx, code)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		reservation = domain.Reservation{}
	case err != nil:
		return IngestResult{}, fmt.Errorf("find reservation: %w", err)
	}
	previousCode := reservation.Code
	applyReservationFields(&reservation, reservationFields)

	out := IngestResult{GuestCreated: guest.IsNew(), ReservationCreated: reservation.IsNew()}

	if err := s.repo.SaveGuest(ctx, &guest); err != nil {
		return out, err
	}
	out.Guest = guest

	// always re-link: a resubmission under a new email moves the reservation
	reservation.GuestID = guest.ID
	if err := s.repo.SaveReservation(ctx, &reservation); err != nil {
		return out, err
	}
	out.Reservation = reservation

	if s.cache != nil {
		s.invalidate(ctx, reservation.Code)
		if previousCode != "" && storage.Key(previousCode) != storage.Key(reservation.Code) {
			s.invalidate(ctx, previousCode)
		}
	}
	return out, nil
}

func (s *ReservationService) invalidate(ctx context.Context, code string) {
	if err := s.cache.Del(ctx, reservationKey(code)); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("reservation cache invalidation failed")
	}
}

func applyGuestFields(g *domain.Guest, f *domain.Fields) {
	for _, k := range f.Keys() {
		v, _ := f.String(k)
		switch k {
		case domain.FieldEmail:
			g.Email = v
		case domain.FieldFirstName:
			g.FirstName = v
		case domain.FieldLastName:
			g.LastName = v
		case domain.FieldPhone1:
			g.Phone1 = v
		case domain.FieldPhone2:
			g.Phone2 = v
		case domain.FieldPhone3:
			g.Phone3 = v
		}
	}
}

func applyReservationFields(r *domain.Reservation, f *domain.Fields) {
	for _, k := range f.Keys() {
		switch k {
		case domain.FieldReservationCode:
			r.Code, _ = f.String(k)
		case domain.FieldStatus:
			r.Status, _ = f.String(k)
		case domain.FieldCurrency:
			r.Currency, _ = f.String(k)
		case domain.FieldLocalizedDescription:
			r.LocalizedDescription, _ = f.String(k)
		case domain.FieldStartDate:
			r.StartDate = datePtr(f, k)
		case domain.FieldEndDate:
			r.EndDate = datePtr(f, k)
		case domain.FieldNights:
			r.Nights = intPtr(f, k)
		case domain.FieldGuests:
			r.Guests = intPtr(f, k)
		case domain.FieldAdults:
			r.Adults = intPtr(f, k)
		case domain.FieldChildren:
			r.Children = intPtr(f, k)
		case domain.FieldInfants:
			r.Infants = intPtr(f, k)
		case domain.FieldPayoutPrice:
			r.PayoutPrice = decimalPtr(f, k)
		case domain.FieldSecurityPrice:
			r.SecurityPrice = decimalPtr(f, k)
		case domain.FieldTotalPrice:
			r.TotalPrice = decimalPtr(f, k)
		}
	}
}

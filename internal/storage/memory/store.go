// Package memory is an in-process repository honouring the same contract as
// the MySQL store: validation before write and case-insensitive unique keys.
package memory

import (
	"context"
	"sync"
	"time"

	"reservation_ingest/internal/domain"
	"reservation_ingest/internal/storage"
)

type Store struct {
	mu sync.RWMutex

	guests       map[int64]domain.Guest
	reservations map[int64]domain.Reservation
	emails       map[string]int64
	codes        map[string]int64

	lastGuestID       int64
	lastReservationID int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		guests:       make(map[int64]domain.Guest),
		reservations: make(map[int64]domain.Reservation),
		emails:       make(map[string]int64),
		codes:        make(map[string]int64),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) FindGuestByEmail(_ context.Context, email string) (domain.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[storage.Key(email)]
	if !ok {
		return domain.Guest{}, domain.ErrNotFound
	}
	return s.guests[id], nil
}

func (s *Store) FindGuestByID(_ context.Context, id int64) (domain.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.guests[id]
	if !ok {
		return domain.Guest{}, domain.ErrNotFound
	}
	return g, nil
}

func (s *Store) FindReservationByCode(_ context.Context, code string) (domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.codes[storage.Key(code)]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return s.reservations[id].Clone(), nil
}

func (s *Store) SaveGuest(_ context.Context, g *domain.Guest) error {
	if err := storage.ValidateGuest(g); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storage.Key(g.Email)
	if id, ok := s.emails[key]; ok && id != g.ID {
		return storage.Taken(storage.EntityGuest, domain.FieldEmail)
	}

	now := s.now()
	if g.IsNew() {
		s.lastGuestID++
		g.ID = s.lastGuestID
		g.CreatedAt = now
	} else {
		old, ok := s.guests[g.ID]
		if !ok {
			return domain.ErrNotFound
		}
		delete(s.emails, storage.Key(old.Email))
		g.CreatedAt = old.CreatedAt
	}
	g.UpdatedAt = now

	s.guests[g.ID] = *g
	s.emails[key] = g.ID
	return nil
}

func (s *Store) SaveReservation(_ context.Context, r *domain.Reservation) error {
	if err := storage.ValidateReservation(r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.guests[r.GuestID]; !ok {
		return storage.MissingOwner()
	}
	key := storage.Key(r.Code)
	if id, ok := s.codes[key]; ok && id != r.ID {
		return storage.Taken(storage.EntityReservation, domain.FieldReservationCode)
	}

	now := s.now()
	if r.IsNew() {
		s.lastReservationID++
		r.ID = s.lastReservationID
		r.CreatedAt = now
	} else {
		old, ok := s.reservations[r.ID]
		if !ok {
			return domain.ErrNotFound
		}
		delete(s.codes, storage.Key(old.Code))
		r.CreatedAt = old.CreatedAt
	}
	r.UpdatedAt = now

	s.reservations[r.ID] = r.Clone()
	s.codes[key] = r.ID
	return nil
}

// Counts returns the number of stored guests and reservations.
func (s *Store) Counts() (guests, reservations int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.guests), len(s.reservations)
}

// ReservationsOf returns the codes of reservations owned by guestID.
func (s *Store) ReservationsOf(guestID int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, r := range s.reservations {
		if r.GuestID == guestID {
			out = append(out, r.Code)
		}
	}
	return out
}

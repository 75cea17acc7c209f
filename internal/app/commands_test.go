package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservation_ingest/internal/app"
	"reservation_ingest/internal/domain"
	"reservation_ingest/internal/parser"
	"reservation_ingest/internal/storage/memory"
)

const flatPayload = `{
  "reservation_code": "YYY12345679",
  "start_date": "2021-04-14",
  "end_date": "2021-04-18",
  "nights": 4,
  "guests": 4,
  "adults": 2,
  "children": 2,
  "infants": 0,
  "status": "accepted",
  "guest": {
    "first_name": "Wayne",
    "last_name": "Woodbridge",
    "phone": "639123456789",
    "email": "joedoe@example.com"
  },
  "currency": "AUD",
  "payout_price": "4200.00",
  "security_price": "500",
  "total_price": "4700.00"
}`

const nestedPayload = `{
  "reservation": {
    "code": "XXX12345678",
    "start_date": "2021-03-12",
    "end_date": "2021-03-16",
    "expected_payout_amount": "3800.00",
    "guest_details": {
      "localized_description": "4 guests",
      "number_of_adults": 2,
      "number_of_children": 2,
      "number_of_infants": 0
    },
    "guest_email": "wayne_woodbridge@bnb.com",
    "guest_first_name": "Wayne",
    "guest_last_name": "Woodbridge",
    "guest_phone_numbers": ["A", "B", "C", "D"],
    "listing_security_price_accurate": "500.00",
    "host_currency": "AUD",
    "nights": 4,
    "number_of_guests": 4,
    "status_type": "accepted",
    "total_paid_amount_accurate": "4300.00"
  }
}`

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	m, err := parser.DecodeJSONBytes([]byte(s))
	require.NoError(t, err)
	return m
}

func newService(t *testing.T) (*app.ReservationService, *memory.Store) {
	t.Helper()
	st := memory.New()
	return app.NewReservationService(parser.Default(), st, nil), st
}

func TestIngest_FlatCreatesLinkedEntities(t *testing.T) {
	svc, st := newService(t)

	res, err := svc.Ingest(context.Background(), "test", decode(t, flatPayload))
	require.NoError(t, err)

	assert.Equal(t, parser.FormatFlat, res.Format)
	assert.True(t, res.GuestCreated)
	assert.True(t, res.ReservationCreated)
	assert.Equal(t, res.Guest.ID, res.Reservation.GuestID)
	assert.Equal(t, "639123456789", res.Guest.Phone1)
	assert.Equal(t, "4700", res.Reservation.TotalPrice.String())
	assert.Equal(t, 4, *res.Reservation.Nights)

	g, r := st.Counts()
	assert.Equal(t, 1, g)
	assert.Equal(t, 1, r)
}

func TestIngest_NewEmailRelinksReservation(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, "test", decode(t, flatPayload))
	require.NoError(t, err)

	p := decode(t, flatPayload)
	p["guest"].(map[string]any)["email"] = "newemail@example.com"
	second, err := svc.Ingest(ctx, "test", p)
	require.NoError(t, err)

	assert.True(t, second.GuestCreated)
	assert.False(t, second.ReservationCreated)
	assert.Equal(t, first.Reservation.ID, second.Reservation.ID)
	assert.NotEqual(t, first.Guest.ID, second.Guest.ID)

	g, r := st.Counts()
	assert.Equal(t, 2, g)
	assert.Equal(t, 1, r)
	assert.Empty(t, st.ReservationsOf(first.Guest.ID))
	assert.Equal(t, []string{"YYY12345679"}, st.ReservationsOf(second.Guest.ID))

	_, err = st.FindGuestByEmail(ctx, "joedoe@example.com")
	assert.NoError(t, err, "old guest must be kept")
}

func TestIngest_NestedKeepsFirstThreePhones(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.Ingest(context.Background(), "test", decode(t, nestedPayload))
	require.NoError(t, err)

	assert.Equal(t, parser.FormatNested, res.Format)
	assert.Equal(t, "A", res.Guest.Phone1)
	assert.Equal(t, "B", res.Guest.Phone2)
	assert.Equal(t, "C", res.Guest.Phone3)
	assert.Equal(t, "4 guests", res.Reservation.LocalizedDescription)
	assert.Equal(t, 2, *res.Reservation.Children)
}

func TestIngest_PartialUpdateTouchesOnlyChangedFields(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, "test", decode(t, flatPayload))
	require.NoError(t, err)
	require.True(t, first.ReservationCreated)

	update := map[string]any{
		"reservation_code": "yyy12345679",
		"start_date":       "2021-05-01",
		"end_date":         "2021-05-05",
		"guests":           "5",
		"children":         3,
		"guest":            map[string]any{"email": "JOEDOE@example.com"},
	}
	second, err := svc.Ingest(ctx, "test", update)
	require.NoError(t, err)
	assert.False(t, second.GuestCreated)
	assert.False(t, second.ReservationCreated)

	got, err := st.FindReservationByCode(ctx, "YYY12345679")
	require.NoError(t, err)
	want := first.Reservation.Clone()

	assert.Equal(t, "2021-05-01", got.StartDate.Format(parser.DateLayout))
	assert.Equal(t, "2021-05-05", got.EndDate.Format(parser.DateLayout))
	assert.Equal(t, 5, *got.Guests)
	assert.Equal(t, 3, *got.Children)

	assert.Equal(t, *want.Nights, *got.Nights)
	assert.Equal(t, *want.Adults, *got.Adults)
	assert.Equal(t, *want.Infants, *got.Infants)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Currency, got.Currency)
	assert.True(t, want.PayoutPrice.Equal(*got.PayoutPrice))
	assert.True(t, want.TotalPrice.Equal(*got.TotalPrice))
	assert.True(t, want.SecurityPrice.Equal(*got.SecurityPrice))

	g, err := st.FindGuestByID(ctx, got.GuestID)
	require.NoError(t, err)
	assert.Equal(t, "Wayne", g.FirstName)
	assert.Equal(t, "639123456789", g.Phone1)
}

func TestIngest_IdenticalResubmissionIsStable(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, "test", decode(t, nestedPayload))
	require.NoError(t, err)
	second, err := svc.Ingest(ctx, "test", decode(t, nestedPayload))
	require.NoError(t, err)

	assert.False(t, second.ReservationCreated)
	assert.False(t, second.GuestCreated)

	a, b := first.Reservation, second.Reservation
	a.UpdatedAt = b.UpdatedAt
	assert.Equal(t, a, b)

	ga, gb := first.Guest, second.Guest
	ga.UpdatedAt = gb.UpdatedAt
	assert.Equal(t, ga, gb)

	g, r := st.Counts()
	assert.Equal(t, 1, g)
	assert.Equal(t, 1, r)
}

func TestIngest_CoercionFailureAbortsBeforePersistence(t *testing.T) {
	cases := map[string]struct {
		field string
		value any
		msg   string
	}{
		"date":    {"start_date", "2021-02-30", "Start date must be a valid date in YYYY-MM-DD format"},
		"integer": {"nights", "four", "Nights must be a valid number"},
		"decimal": {"payout_price", "lots", "Payout price must be a valid monetary value"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &recordingRepo{Store: memory.New()}
			svc := app.NewReservationService(parser.Default(), repo, nil)

			p := decode(t, flatPayload)
			p[tc.field] = tc.value
			_, err := svc.Ingest(context.Background(), "test", p)

			var ce *parser.CoercionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.field, ce.Field)
			assert.Zero(t, repo.saves)

			msgs, ok := app.Messages(err)
			require.True(t, ok)
			assert.Equal(t, []string{tc.msg}, msgs)
		})
	}
}

func TestIngest_MissingDiscriminatorIsUnrecognized(t *testing.T) {
	svc, _ := newService(t)

	p := decode(t, flatPayload)
	delete(p["guest"].(map[string]any), "email")
	_, err := svc.Ingest(context.Background(), "test", p)
	require.ErrorIs(t, err, domain.ErrUnrecognizedFormat)

	msgs, ok := app.Messages(err)
	require.True(t, ok)
	assert.Equal(t, []string{"invalid payload format"}, msgs)
}

func TestIngest_BlankIdentity(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	p := decode(t, flatPayload)
	p["guest"].(map[string]any)["email"] = "  "
	_, err := svc.Ingest(ctx, "test", p)
	require.ErrorIs(t, err, domain.ErrMissingGuestIdentity)

	p = decode(t, flatPayload)
	p["reservation_code"] = nil
	_, err = svc.Ingest(ctx, "test", p)
	require.ErrorIs(t, err, domain.ErrMissingReservationIdentity)

	g, r := st.Counts()
	assert.Zero(t, g)
	assert.Zero(t, r)
}

func TestIngest_GuestValidationStopsBeforeReservation(t *testing.T) {
	repo := &recordingRepo{Store: memory.New()}
	svc := app.NewReservationService(parser.Default(), repo, nil)

	p := decode(t, flatPayload)
	delete(p["guest"].(map[string]any), "first_name")
	_, err := svc.Ingest(context.Background(), "test", p)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has(domain.FieldFirstName))
	assert.Equal(t, 1, repo.saves)

	msgs, _ := app.Messages(err)
	assert.Equal(t, []string{"First name can't be blank"}, msgs)
}

func TestIngest_ReservationFailureKeepsGuest(t *testing.T) {
	st := memory.New()
	svc := app.NewReservationService(parser.Default(), st, nil)
	ctx := context.Background()

	p := decode(t, flatPayload)
	p["nights"] = -1
	_, err := svc.Ingest(ctx, "test", p)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Nights must be greater than or equal to 0"}, ve.Messages())

	g, r := st.Counts()
	assert.Equal(t, 1, g)
	assert.Zero(t, r)
}

func TestIngest_ValuesBeyondColumnBoundsAreClientErrors(t *testing.T) {
	st := memory.New()
	svc := app.NewReservationService(parser.Default(), st, nil)

	p := decode(t, flatPayload)
	p["status"] = strings.Repeat("a", 65)
	p["payout_price"] = "4200.005"
	_, err := svc.Ingest(context.Background(), "test", p)

	msgs, ok := app.Messages(err)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{
		"Status is too long (maximum is 64 characters)",
		"Payout price must have at most 2 decimal places",
	}, msgs)

	_, r := st.Counts()
	assert.Zero(t, r)
}

func TestIngest_InfrastructureErrorIsNotACoreError(t *testing.T) {
	repo := &recordingRepo{Store: memory.New(), failFind: errors.New("connection refused")}
	svc := app.NewReservationService(parser.Default(), repo, nil)

	_, err := svc.Ingest(context.Background(), "test", decode(t, flatPayload))
	require.Error(t, err)
	_, ok := app.Messages(err)
	assert.False(t, ok)
}

func TestIngest_InvalidatesCachedView(t *testing.T) {
	st := memory.New()
	cache := &fakeCache{}
	svc := app.NewReservationService(parser.Default(), st, cache)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "test", decode(t, flatPayload))
	require.NoError(t, err)
	assert.Equal(t, []string{"reservation:yyy12345679"}, cache.deleted)
}

// recordingRepo counts save calls and can inject lookup failures.
type recordingRepo struct {
	*memory.Store
	saves    int
	failFind error
}

func (r *recordingRepo) FindGuestByEmail(ctx context.Context, email string) (domain.Guest, error) {
	if r.failFind != nil {
		return domain.Guest{}, r.failFind
	}
	return r.Store.FindGuestByEmail(ctx, email)
}

func (r *recordingRepo) SaveGuest(ctx context.Context, g *domain.Guest) error {
	r.saves++
	return r.Store.SaveGuest(ctx, g)
}

func (r *recordingRepo) SaveReservation(ctx context.Context, res *domain.Reservation) error {
	r.saves++
	return r.Store.SaveReservation(ctx, res)
}

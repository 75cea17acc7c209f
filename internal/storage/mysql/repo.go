package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	drv "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"reservation_ingest/internal/domain"
	"reservation_ingest/internal/storage"
)

// MySQL server error numbers the repository translates into field errors.
const (
	errDuplicateEntry  = 1062
	errOutOfRange      = 1264
	errDataTooLong     = 1406
	errNoReferencedRow = 1452
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valDate(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.Format("2006-01-02")
}
func valDecimal(p *decimal.Decimal) any {
	if p == nil {
		return nil
	}
	return p.String()
}

type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db, now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }}
}

type rowScanner interface{ Scan(dest ...any) error }

func scanGuest(row rowScanner) (domain.Guest, error) {
	var g domain.Guest
	var phone2, phone3 sql.NullString
	if err := row.Scan(
		&g.ID,
		&g.Email,
		&g.FirstName,
		&g.LastName,
		&g.Phone1,
		&phone2, &phone3,
		&g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Guest{}, domain.ErrNotFound
		}
		return domain.Guest{}, err
	}
	g.Phone2 = phone2.String
	g.Phone3 = phone3.String
	return g, nil
}

func (r *Repo) FindGuestByEmail(ctx context.Context, email string) (domain.Guest, error) {
	return scanGuest(r.db.QueryRowContext(ctx, findGuestByEmailSQL, email))
}

func (r *Repo) FindGuestByID(ctx context.Context, id int64) (domain.Guest, error) {
	return scanGuest(r.db.QueryRowContext(ctx, findGuestByIDSQL, id))
}

func (r *Repo) FindReservationByCode(ctx context.Context, code string) (domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx, findReservationByCodeSQL, code)

	var rv domain.Reservation
	var (
		start, end                time.Time
		nights, guests            int
		adults, children, infants int
		payout, security, total   decimal.Decimal
		localized                 sql.NullString
	)
	if err := row.Scan(
		&rv.ID,
		&rv.Code,
		&start, &end,
		&nights, &guests,
		&adults, &children, &infants,
		&rv.Status,
		&rv.Currency,
		&payout, &security, &total,
		&localized,
		&rv.GuestID,
		&rv.CreatedAt, &rv.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, err
	}
	rv.StartDate, rv.EndDate = &start, &end
	rv.Nights, rv.Guests = &nights, &guests
	rv.Adults, rv.Children, rv.Infants = &adults, &children, &infants
	rv.PayoutPrice, rv.SecurityPrice, rv.TotalPrice = &payout, &security, &total
	rv.LocalizedDescription = localized.String
	return rv, nil
}

func (r *Repo) SaveGuest(ctx context.Context, g *domain.Guest) error {
	if err := storage.ValidateGuest(g); err != nil {
		return err
	}
	now := r.now()
	if g.IsNew() {
		res, err := r.db.ExecContext(ctx, insertGuestSQL,
			g.Email,
			g.FirstName,
			g.LastName,
			g.Phone1,
			valStr(g.Phone2),
			valStr(g.Phone3),
			now, now,
		)
		if err != nil {
			return translate(storage.EntityGuest, domain.FieldEmail, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		g.ID, g.CreatedAt, g.UpdatedAt = id, now, now
		return nil
	}
	if _, err := r.db.ExecContext(ctx, updateGuestSQL,
		g.Email,
		g.FirstName,
		g.LastName,
		g.Phone1,
		valStr(g.Phone2),
		valStr(g.Phone3),
		now,
		g.ID,
	); err != nil {
		return translate(storage.EntityGuest, domain.FieldEmail, err)
	}
	g.UpdatedAt = now
	return nil
}

func (r *Repo) SaveReservation(ctx context.Context, rv *domain.Reservation) error {
	if err := storage.ValidateReservation(rv); err != nil {
		return err
	}
	now := r.now()
	args := []any{
		rv.Code,
		valDate(rv.StartDate),
		valDate(rv.EndDate),
		valInt(rv.Nights),
		valInt(rv.Guests),
		valInt(rv.Adults),
		valInt(rv.Children),
		valInt(rv.Infants),
		rv.Status,
		rv.Currency,
		valDecimal(rv.PayoutPrice),
		valDecimal(rv.SecurityPrice),
		valDecimal(rv.TotalPrice),
		valStr(rv.LocalizedDescription),
		rv.GuestID,
	}
	if rv.IsNew() {
		res, err := r.db.ExecContext(ctx, insertReservationSQL, append(args, now, now)...)
		if err != nil {
			return translate(storage.EntityReservation, domain.FieldReservationCode, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		rv.ID, rv.CreatedAt, rv.UpdatedAt = id, now, now
		return nil
	}
	if _, err := r.db.ExecContext(ctx, updateReservationSQL, append(args, now, rv.ID)...); err != nil {
		return translate(storage.EntityReservation, domain.FieldReservationCode, err)
	}
	rv.UpdatedAt = now
	return nil
}

// translate maps constraint violations onto the validation contract so a
// lost insert race surfaces as "has already been taken".
func translate(entity, keyField string, err error) error {
	var me *drv.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case errDuplicateEntry:
		return storage.Taken(entity, keyField)
	case errNoReferencedRow:
		return storage.MissingOwner()
	case errDataTooLong:
		if col, ok := column(me.Message); ok {
			return storage.Invalid(entity, col, "is too long")
		}
	case errOutOfRange:
		if col, ok := column(me.Message); ok {
			return storage.Invalid(entity, col, "is out of range")
		}
	}
	return err
}

// column extracts the column name from messages such as
// "Data too long for column 'status' at row 1".
func column(msg string) (string, bool) {
	_, rest, ok := strings.Cut(msg, "column '")
	if !ok {
		return "", false
	}
	name, _, ok := strings.Cut(rest, "'")
	return name, ok && name != ""
}

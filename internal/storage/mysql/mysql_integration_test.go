//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservation_ingest/internal/app"
	"reservation_ingest/internal/domain"
	"reservation_ingest/internal/parser"
	mysqlrepo "reservation_ingest/internal/storage/mysql"
)

func ptr[T any](v T) *T { return &v }

// migrationsDir honours MIGRATIONS_DIR and falls back to the repo's migrations/.
func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// startMySQL runs an isolated MySQL with migrations applied.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=reservations"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/reservations?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_SaveAndFind(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()

	g := domain.Guest{Email: "Wayne@Example.com", FirstName: "Wayne", LastName: "Woodbridge", Phone1: "639123456789", Phone2: "2"}
	require.NoError(t, repo.SaveGuest(ctx, &g))
	require.NotZero(t, g.ID)

	got, err := repo.FindGuestByEmail(ctx, "wayne@example.com")
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)
	assert.Equal(t, "2", got.Phone2)
	assert.Empty(t, got.Phone3)

	start := time.Date(2021, 4, 14, 0, 0, 0, 0, time.UTC)
	r := domain.Reservation{
		Code:          "YYY12345679",
		StartDate:     &start,
		EndDate:       ptr(start.AddDate(0, 0, 4)),
		Nights:        ptr(4),
		Guests:        ptr(4),
		Adults:        ptr(2),
		Children:      ptr(2),
		Infants:       ptr(0),
		Status:        "accepted",
		Currency:      "AUD",
		PayoutPrice:   ptr(decimal.RequireFromString("4200.00")),
		SecurityPrice: ptr(decimal.RequireFromString("500")),
		TotalPrice:    ptr(decimal.RequireFromString("4700.50")),
		GuestID:       g.ID,
	}
	require.NoError(t, repo.SaveReservation(ctx, &r))

	back, err := repo.FindReservationByCode(ctx, "yyy12345679")
	require.NoError(t, err)
	assert.Equal(t, r.ID, back.ID)
	assert.True(t, start.Equal(*back.StartDate))
	assert.Equal(t, 0, *back.Infants)
	assert.True(t, decimal.RequireFromString("4700.50").Equal(*back.TotalPrice))

	back.Status = "cancelled"
	require.NoError(t, repo.SaveReservation(ctx, &back))
	again, err := repo.FindReservationByCode(ctx, "YYY12345679")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", again.Status)

	_, err = repo.FindReservationByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_MySQL_ConstraintsBecomeFieldErrors(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()

	g := domain.Guest{Email: "a@example.com", FirstName: "A", LastName: "B", Phone1: "1"}
	require.NoError(t, repo.SaveGuest(ctx, &g))

	dup := domain.Guest{Email: "A@EXAMPLE.COM", FirstName: "A", LastName: "B", Phone1: "1"}
	err := repo.SaveGuest(ctx, &dup)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Email has already been taken"}, ve.Messages())

	start := time.Date(2021, 4, 14, 0, 0, 0, 0, time.UTC)
	orphan := domain.Reservation{
		Code: "ORPHAN", StartDate: &start, EndDate: &start,
		Nights: ptr(0), Guests: ptr(1), Adults: ptr(1), Children: ptr(0), Infants: ptr(0),
		Status: "accepted", Currency: "AUD",
		PayoutPrice: ptr(decimal.Zero), SecurityPrice: ptr(decimal.Zero), TotalPrice: ptr(decimal.Zero),
		GuestID: g.ID + 1000,
	}
	err = repo.SaveReservation(ctx, &orphan)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Guest must exist"}, ve.Messages())
}

func TestReservationService_MySQL_Relink(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	svc := app.NewReservationService(parser.Default(), repo, nil)
	ctx := context.Background()

	payload := func(email string) map[string]any {
		return map[string]any{
			"reservation_code": "YYY12345679",
			"start_date":       "2021-04-14",
			"end_date":         "2021-04-18",
			"nights":           4,
			"guests":           4,
			"adults":           2,
			"children":         2,
			"infants":          0,
			"status":           "accepted",
			"currency":         "AUD",
			"payout_price":     "4200.00",
			"security_price":   "500",
			"total_price":      "4700.00",
			"guest": map[string]any{
				"first_name": "Wayne",
				"last_name":  "Woodbridge",
				"phone":      "639123456789",
				"email":      email,
			},
		}
	}

	first, err := svc.Ingest(ctx, "test", payload("joedoe@example.com"))
	require.NoError(t, err)
	require.True(t, first.ReservationCreated)

	second, err := svc.Ingest(ctx, "test", payload("newemail@example.com"))
	require.NoError(t, err)
	assert.True(t, second.GuestCreated)
	assert.False(t, second.ReservationCreated)

	r, err := repo.FindReservationByCode(ctx, "YYY12345679")
	require.NoError(t, err)
	assert.Equal(t, second.Guest.ID, r.GuestID)

	_, err = repo.FindGuestByEmail(ctx, "joedoe@example.com")
	assert.NoError(t, err)
}

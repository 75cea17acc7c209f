package mysql

import (
	"errors"
	"fmt"
	"testing"

	drv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservation_ingest/internal/domain"
	"reservation_ingest/internal/storage"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		field string
		msgs  []string
	}{
		{
			name:  "duplicate",
			err:   &drv.MySQLError{Number: errDuplicateEntry, Message: "Duplicate entry 'a@b.c' for key 'uq_guests_email'"},
			field: "email",
			msgs:  []string{"Email has already been taken"},
		},
		{
			name:  "missing owner",
			err:   &drv.MySQLError{Number: errNoReferencedRow, Message: "Cannot add or update a child row"},
			field: "guest_id",
			msgs:  []string{"Guest must exist"},
		},
		{
			name:  "too long",
			err:   fmt.Errorf("save: %w", &drv.MySQLError{Number: errDataTooLong, Message: "Data too long for column 'localized_description' at row 1"}),
			field: "localized_description",
			msgs:  []string{"Localized description is too long"},
		},
		{
			name:  "out of range",
			err:   &drv.MySQLError{Number: errOutOfRange, Message: "Out of range value for column 'nights' at row 1"},
			field: "nights",
			msgs:  []string{"Nights is out of range"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := translate(storage.EntityReservation, "email", tc.err)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.True(t, ve.Has(tc.field))
			assert.Equal(t, tc.msgs, ve.Messages())
		})
	}
}

func TestTranslate_PassesThrough(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Same(t, plain, translate(storage.EntityGuest, "email", plain))

	noColumn := &drv.MySQLError{Number: errDataTooLong, Message: "Data too long"}
	assert.Equal(t, error(noColumn), translate(storage.EntityGuest, "email", noColumn))

	other := &drv.MySQLError{Number: 1213, Message: "Deadlock found"}
	assert.Equal(t, error(other), translate(storage.EntityGuest, "email", other))
}

package app

import (
	"time"

	"github.com/shopspring/decimal"

	"reservation_ingest/internal/domain"
)

func datePtr(f *domain.Fields, k string) *time.Time {
	if t, ok := f.Date(k); ok {
		return &t
	}
	return nil
}

func intPtr(f *domain.Fields, k string) *int {
	if n, ok := f.Int(k); ok {
		return &n
	}
	return nil
}

func decimalPtr(f *domain.Fields, k string) *decimal.Decimal {
	if d, ok := f.Decimal(k); ok {
		return &d
	}
	return nil
}

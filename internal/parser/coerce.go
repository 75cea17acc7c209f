package parser

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"reservation_ingest/internal/domain"
)

// Kind is the declared type of a canonical field.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindInteger
	KindDecimal
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindList:
		return "list"
	default:
		return "text"
	}
}

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

var errUnsupportedValue = errors.New("unsupported value type")

// CoercionError reports a non-blank raw value that could not be converted to
// its field's declared kind.
type CoercionError struct {
	Field string
	Kind  Kind
	Raw   any
	Err   error
}

func (e *CoercionError) Error() string {
	name := domain.Humanize(e.Field)
	switch e.Kind {
	case KindDate:
		return name + " must be a valid date in YYYY-MM-DD format"
	case KindInteger:
		return name + " must be a valid number"
	case KindDecimal:
		return name + " must be a valid monetary value"
	default:
		return name + " is invalid"
	}
}

func (e *CoercionError) Unwrap() error { return e.Err }

// IsBlank reports whether raw counts as absent: nil, whitespace-only strings
// and empty collections are never coerced or applied.
func IsBlank(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case json.Number:
		return strings.TrimSpace(string(v)) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// ParseDate accepts a YYYY-MM-DD string. Impossible calendar dates
// (2021-02-30) are rejected.
func ParseDate(field string, raw any) (time.Time, error) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, &CoercionError{Field: field, Kind: KindDate, Raw: raw, Err: errUnsupportedValue}
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &CoercionError{Field: field, Kind: KindDate, Raw: raw, Err: err}
	}
	return t, nil
}

// ParseInteger accepts integral numbers and base-10 integer strings.
// Fractional values ("3.5", 3.5) are rejected.
func ParseInteger(field string, raw any) (int, error) {
	fail := func(err error) (int, error) {
		return 0, &CoercionError{Field: field, Kind: KindInteger, Raw: raw, Err: err}
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return intFromFloat(v, fail)
	case json.Number:
		s := strings.TrimSpace(string(v))
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fail(err)
		}
		return intFromFloat(f, fail)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fail(err)
		}
		return n, nil
	}
	return fail(errUnsupportedValue)
}

func intFromFloat(f float64, fail func(error) (int, error)) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f > math.MaxInt64 || f < math.MinInt64 {
		return fail(strconv.ErrSyntax)
	}
	return int(f), nil
}

// ParseDecimal accepts numbers and numeric strings ("4200.00", "500").
func ParseDecimal(field string, raw any) (decimal.Decimal, error) {
	fail := func(err error) (decimal.Decimal, error) {
		return decimal.Decimal{}, &CoercionError{Field: field, Kind: KindDecimal, Raw: raw, Err: err}
	}
	switch v := raw.(type) {
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fail(strconv.ErrSyntax)
		}
		return decimal.NewFromFloat(v), nil
	case json.Number:
		d, err := decimal.NewFromString(strings.TrimSpace(string(v)))
		if err != nil {
			return fail(err)
		}
		return d, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return fail(err)
		}
		return d, nil
	}
	return fail(errUnsupportedValue)
}

// asText renders scalar values as strings. Objects and lists are not text
// and report ok=false.
func asText(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), true
	case json.Number:
		return string(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// asList normalizes list-like values; a lone scalar becomes a one-item list.
func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case map[string]any:
		return nil, false
	}
	if _, ok := asText(raw); ok {
		return []any{raw}, true
	}
	return nil, false
}

// coerce converts raw according to kind. present is false when the value
// has no meaningful rendering for the kind and must be treated as absent.
func coerce(field string, kind Kind, raw any) (any, bool, error) {
	switch kind {
	case KindDate:
		t, err := ParseDate(field, raw)
		return t, err == nil, err
	case KindInteger:
		n, err := ParseInteger(field, raw)
		return n, err == nil, err
	case KindDecimal:
		d, err := ParseDecimal(field, raw)
		return d, err == nil, err
	case KindList:
		l, ok := asList(raw)
		return l, ok, nil
	default:
		s, ok := asText(raw)
		return s, ok && s != "", nil
	}
}

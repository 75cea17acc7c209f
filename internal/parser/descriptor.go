package parser

import "reservation_ingest/internal/domain"

// Field maps a canonical field name to its location in the raw payload.
type Field struct {
	Name string
	Path string
}

// Hook derives format-specific fields from the raw payload and the coerced
// values of every declared field. Blank entries in the returned map are
// dropped by the engine.
type Hook func(raw map[string]any, values *domain.Fields) *domain.Fields

// Descriptor describes one supported payload shape. Descriptors are
// configuration: build them once and never mutate them after registration.
type Descriptor struct {
	Name string
	// Discriminators are paths that must all be present for the format to match.
	Discriminators []string
	Fields         []Field

	GuestExtras       Hook
	ReservationExtras Hook
}

// Matches sniffs key presence only; values are not inspected.
func (d *Descriptor) Matches(raw map[string]any) bool {
	if len(d.Discriminators) == 0 || raw == nil {
		return false
	}
	for _, p := range d.Discriminators {
		if _, ok := lookup(raw, p); !ok {
			return false
		}
	}
	return true
}

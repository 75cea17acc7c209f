package parser

import "reservation_ingest/internal/domain"

// Normalize extracts every field d declares from raw, coerces it by its
// declared kind and routes it to the guest or reservation map. Absent and
// blank values are skipped so a resubmission only touches what it carries.
// The first coercion failure aborts normalization with a *CoercionError.
func Normalize(d *Descriptor, raw map[string]any) (guest, reservation *domain.Fields, err error) {
	values := domain.NewFields()
	guest, reservation = domain.NewFields(), domain.NewFields()

	for _, f := range d.Fields {
		rv, ok := lookup(raw, f.Path)
		if !ok || IsBlank(rv) {
			continue
		}
		info := infoFor(f.Name)
		v, present, cerr := coerce(f.Name, info.kind, rv)
		if cerr != nil {
			return nil, nil, cerr
		}
		if !present {
			continue
		}
		values.Set(f.Name, v)
		if !info.shared {
			continue
		}
		if info.group == GroupGuest {
			guest.Set(f.Name, v)
		} else {
			reservation.Set(f.Name, v)
		}
	}

	if d.GuestExtras != nil {
		mergePresent(guest, d.GuestExtras(raw, values))
	}
	if d.ReservationExtras != nil {
		mergePresent(reservation, d.ReservationExtras(raw, values))
	}
	return guest, reservation, nil
}

func mergePresent(dst, src *domain.Fields) {
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		if IsBlank(v) {
			continue
		}
		dst.Set(k, v)
	}
}

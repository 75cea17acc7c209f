package parser

import "reservation_ingest/internal/domain"

// Registry selects a Descriptor for an inbound payload. Descriptors are tried
// most recently registered first, so a specific format registered after a
// generic one shadows it when both match.
//
// Register is not safe for concurrent use; populate the registry at startup.
// Select is safe for concurrent use once registration is done.
type Registry struct {
	descriptors []*Descriptor
}

// NewRegistry registers ds in the given order; the last one has the highest priority.
func NewRegistry(ds ...*Descriptor) *Registry {
	r := &Registry{}
	for _, d := range ds {
		r.Register(d)
	}
	return r
}

// Default returns the registry of supported provider formats.
func Default() *Registry {
	return NewRegistry(
		Flat(),
		Nested(),
	)
}

func (r *Registry) Register(d *Descriptor) {
	r.descriptors = append([]*Descriptor{d}, r.descriptors...)
}

// Select returns the first matching descriptor in priority order, or
// domain.ErrUnrecognizedFormat.
func (r *Registry) Select(raw map[string]any) (*Descriptor, error) {
	for _, d := range r.descriptors {
		if d.Matches(raw) {
			return d, nil
		}
	}
	return nil, domain.ErrUnrecognizedFormat
}

// Descriptors returns the registered descriptors in priority order.
func (r *Registry) Descriptors() []*Descriptor {
	return append([]*Descriptor(nil), r.descriptors...)
}

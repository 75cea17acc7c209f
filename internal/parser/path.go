package parser

import "strings"

// lookup resolves a dotted path ("reservation.guest_details.number_of_adults")
// against nested maps. ok is false when any segment is missing; a key that is
// present with a null value resolves to (nil, true).
func lookup(m map[string]any, path string) (any, bool) {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := obj[part]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

package httpserver

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"reservation_ingest/internal/parser"
)

const maxBodyBytes = 1 << 20

var errMalformedPayload = errors.New("malformed payload")

// readPayload decodes the request body into a nested payload map. JSON is
// the default; urlencoded and multipart forms with bracketed keys
// (guest[email], reservation[guest_phone_numbers][]) expand to the same
// shape.
func readPayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, errors.Join(errMalformedPayload, err)
		}
		return expandForm(r.PostForm), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, errors.Join(errMalformedPayload, err)
		}
		return expandForm(r.PostForm), nil
	}

	raw, err := parser.DecodeJSON(r.Body)
	if err != nil {
		return nil, errors.Join(errMalformedPayload, err)
	}
	return raw, nil
}

// expandForm turns Rails-style bracketed keys into nested maps. A key ending
// in [] yields a list of all its values; any other repeated key keeps the
// last value. Keys addressing lists of objects (a[][b]) are ignored.
func expandForm(vals url.Values) map[string]any {
	out := map[string]any{}
	for key, vs := range vals {
		if len(vs) == 0 {
			continue
		}
		path, list, ok := splitFormKey(key)
		if !ok {
			continue
		}
		if list {
			items := make([]any, len(vs))
			for i, v := range vs {
				items[i] = v
			}
			setFormValue(out, path, items)
		} else {
			setFormValue(out, path, vs[len(vs)-1])
		}
	}
	return out
}

// splitFormKey parses "a[b][c][]" into ["a","b","c"] with list=true.
func splitFormKey(key string) (path []string, list bool, ok bool) {
	i := strings.IndexByte(key, '[')
	if i < 0 {
		return []string{key}, false, key != ""
	}
	if i == 0 {
		return nil, false, false
	}
	path = append(path, key[:i])
	rest := key[i:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, false, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, false, false
		}
		seg := rest[1:end]
		rest = rest[end+1:]
		if seg == "" {
			if rest != "" {
				return nil, false, false
			}
			return path, true, true
		}
		path = append(path, seg)
	}
	return path, false, true
}

func setFormValue(root map[string]any, path []string, v any) {
	cur := root
	for _, p := range path[:len(path)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[p] = next
		}
		cur = next
	}
	last := path[len(path)-1]
	if _, isMap := cur[last].(map[string]any); isMap {
		// a nested object wins over a scalar under the same name
		return
	}
	cur[last] = v
}

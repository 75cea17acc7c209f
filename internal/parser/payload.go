package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

var ErrNotObject = errors.New("payload must be a JSON object")

// DecodeJSON reads a single JSON object, keeping numbers as json.Number so
// monetary amounts are not rounded through float64.
func DecodeJSON(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

func DecodeJSONBytes(b []byte) (map[string]any, error) {
	return DecodeJSON(bytes.NewReader(b))
}

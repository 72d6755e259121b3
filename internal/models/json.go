package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// JSON type for flexible storage
type JSON map[string]interface{}

var errNotObject = errors.New("json value is not an object")

// ParseJSONObject decodes raw into a JSON object. Empty input and non-object
// documents are errors.
func ParseJSONObject(raw string) (JSON, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errNotObject
	}
	var out JSON
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errNotObject
	}
	return out, nil
}

// Encode returns the compact JSON text of j. A nil map encodes as "{}".
func (j JSON) Encode() (string, error) {
	if j == nil {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]interface{}(j)); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// MarshalJSON returns the JSON encoding
func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]interface{}(j))
}

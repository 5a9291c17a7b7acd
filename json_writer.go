package stockbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object whose keys keep the order they were appended in.
// The zero value is an empty object.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Append appends 'key' with the JSON encoding of 'value'.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}

	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return w
	}
	k, _ := json.Marshal(key)
	w.Write(k)
	w.WriteByte(':')
	w.Write(v)
	w.WriteByte(',')
	return w
}

// Optional appends 'key' unless 'value' is the zero value of its type.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON returns the object, or the first error met while appending.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	fields := bytes.TrimSuffix(w.Bytes(), []byte(","))
	out := make([]byte, 0, len(fields)+2)
	out = append(out, '{')
	out = append(append(out, fields...), '}')
	return out, nil
}

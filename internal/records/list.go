package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnsupportedShape is returned when a list payload is neither an array nor
// an object with an items array.
var ErrUnsupportedShape = errors.New("records: unsupported list shape")

// DecodeList normalises a list payload at the boundary. Both `[...]` and
// `{"items": [...]}` produce the same slice; non-object elements are skipped.
func DecodeList(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []Record{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return []Record{}, fmt.Errorf("records: decode list: %w", err)
	}
	return Normalize(raw)
}

// Normalize accepts an already decoded list payload.
func Normalize(raw any) ([]Record, error) {
	switch val := raw.(type) {
	case nil:
		return []Record{}, nil
	case []Record:
		return val, nil
	case []any:
		return fromSlice(val), nil
	case []map[string]any:
		out := make([]Record, 0, len(val))
		for _, item := range val {
			out = append(out, Record(item))
		}
		return out, nil
	case map[string]any:
		items, ok := val["items"]
		if !ok {
			return []Record{}, ErrUnsupportedShape
		}
		if items == nil {
			return []Record{}, nil
		}
		list, ok := items.([]any)
		if !ok {
			return []Record{}, ErrUnsupportedShape
		}
		return fromSlice(list), nil
	}
	return []Record{}, ErrUnsupportedShape
}

func fromSlice(items []any) []Record {
	out := make([]Record, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			out = append(out, Record(v))
		case Record:
			out = append(out, v)
		}
	}
	return out
}

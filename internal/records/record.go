// Package records holds the loosely typed rows returned by the hospital backend
// together with the coercion helpers every aggregation reads them through.
package records

import (
	"strconv"
	"strings"
	"time"
)

// Record is a single backend row. Values are whatever the JSON decoder or the
// database driver produced; nothing about their types is trusted.
type Record map[string]any

// Value returns the raw value stored under key. Dotted keys walk nested maps,
// so "patient.full_name" reads {"patient": {"full_name": ...}}.
func (r Record) Value(key string) any {
	if r == nil {
		return nil
	}
	if v, ok := r[key]; ok {
		return v
	}
	head, rest, found := strings.Cut(key, ".")
	if !found {
		return nil
	}
	switch nested := r[head].(type) {
	case Record:
		return nested.Value(rest)
	case map[string]any:
		return Record(nested).Value(rest)
	}
	return nil
}

// Number coerces the first present field to a float64, defaulting to 0.
func (r Record) Number(fields ...string) float64 {
	for _, field := range fields {
		if v := r.Value(field); v != nil {
			return CoerceNumber(v)
		}
	}
	return 0
}

// Text returns the first non-empty field rendered as trimmed text.
func (r Record) Text(fields ...string) string {
	for _, field := range fields {
		if s := CoerceString(r.Value(field)); s != "" {
			return s
		}
	}
	return ""
}

// Status returns the normalised value of the first non-empty status field.
func (r Record) Status(fields ...string) string {
	for _, field := range fields {
		if s := NormalizeStatus(r.Value(field)); s != "" {
			return s
		}
	}
	return ""
}

// HasStatus reports whether any of fields normalises to one of statuses.
func (r Record) HasStatus(fields []string, statuses ...string) bool {
	for _, field := range fields {
		s := NormalizeStatus(r.Value(field))
		if s == "" {
			continue
		}
		for _, want := range statuses {
			if s == want {
				return true
			}
		}
	}
	return false
}

// Date resolves the first field, in priority order, holding a parseable date.
// Zone-less values are read in loc.
func (r Record) Date(loc *time.Location, fields ...string) (time.Time, bool) {
	for _, field := range fields {
		if t, ok := CoerceDate(r.Value(field), loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ID returns the record identifier as text, or fallback when absent.
func (r Record) ID(fallback int) string {
	if id := r.Text("id", "uuid", "_id"); id != "" {
		return id
	}
	return strconv.Itoa(fallback)
}

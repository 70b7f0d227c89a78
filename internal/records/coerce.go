package records

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// maxEpochMillis bounds numeric timestamps to the range a browser Date can
// hold (±100,000,000 days around the epoch).
const maxEpochMillis = 8.64e15

// zoneLessLayouts are read in the caller's location; RFC3339 values carry
// their own offset.
var zoneLessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// CoerceNumber converts v into a finite float64. Numbers pass through,
// numeric strings and json.Number are parsed, decimal wrappers are parsed
// from their String form. Everything else yields 0.
func CoerceNumber(v any) float64 {
	var out float64
	switch val := v.(type) {
	case nil, bool:
		return 0
	case string:
		out = parseNumber(val)
	case json.Number:
		out = parseNumber(val.String())
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		out = cast.ToFloat64(val)
	case fmt.Stringer:
		out = parseNumber(val.String())
	default:
		return 0
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || !plainNumber(s) {
		return 0
	}
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return 0
	}
	return f
}

// plainNumber rejects Go-only literal forms: digit separators and hex
// floats.
func plainNumber(s string) bool {
	if strings.Contains(s, "_") {
		return false
	}
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	return !(strings.HasPrefix(lower, "0x") && strings.Contains(lower, "p"))
}

func encodableYear(y int) bool {
	return y >= 0 && y <= 9999
}

// CoerceString renders scalars as trimmed text. Maps, slices and nil give "".
func CoerceString(v any) string {
	switch v.(type) {
	case nil, map[string]any, Record, []any:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// NormalizeStatus trims and upper-cases a status value so comparisons against
// status sets are case-insensitive.
func NormalizeStatus(v any) string {
	return strings.ToUpper(CoerceString(v))
}

// CoerceDate reads v as a point in time. It accepts time values, epoch
// milliseconds and the string layouts the backend emits. Date-only strings
// are UTC midnight; zone-less datetimes are read in loc. The boolean is false
// whenever no valid date could be produced.
func CoerceDate(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch val := v.(type) {
	case nil, bool:
		return time.Time{}, false
	case time.Time:
		return checkedDate(val)
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return checkedDate(*val)
	case string:
		return parseDate(val, loc)
	case json.Number, float64, float32, int, int32, int64, uint32, uint64:
		ms := CoerceNumber(val)
		if ms <= 0 || ms > maxEpochMillis {
			return time.Time{}, false
		}
		return checkedDate(time.UnixMilli(int64(ms)))
	}
	return time.Time{}, false
}

// checkedDate rejects zero times and years JSON cannot encode.
func checkedDate(t time.Time) (time.Time, bool) {
	if t.IsZero() || !encodableYear(t.Year()) || !encodableYear(t.UTC().Year()) {
		return time.Time{}, false
	}
	return t, true
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return checkedDate(t)
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return checkedDate(t)
	}
	for _, layout := range zoneLessLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return checkedDate(t)
		}
	}
	return time.Time{}, false
}

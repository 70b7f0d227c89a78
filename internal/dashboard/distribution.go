package dashboard

import (
	"strings"

	"github.com/wardline/wardline/internal/records"
)

// Palette is the fixed chart palette; segments cycle through it.
var Palette = [6]string{"#2563eb", "#16a34a", "#f59e0b", "#dc2626", "#7c3aed", "#0891b2"}

// BuildDistribution counts records per candidate status, in the given order.
// A record counts toward a status when any of fields normalises to it. Only
// statuses with records become segments, colored by position. When every
// count is zero the first status is returned alone, so the chart is never
// empty.
func BuildDistribution(rs []records.Record, statuses []string, fields ...string) Distribution {
	if len(statuses) == 0 {
		return Distribution{Segments: []Segment{}}
	}
	if len(fields) == 0 {
		fields = []string{"status"}
	}
	counts := make([]int, len(statuses))
	total := 0
	for i, status := range statuses {
		for _, r := range rs {
			if r.HasStatus(fields, status) {
				counts[i]++
			}
		}
		total += counts[i]
	}
	if total == 0 {
		return Distribution{
			Segments: []Segment{newSegment(0, statuses[0], 0)},
			Total:    0,
		}
	}
	segments := make([]Segment, 0, len(statuses))
	for i, status := range statuses {
		if counts[i] > 0 {
			segments = append(segments, newSegment(len(segments), status, counts[i]))
		}
	}
	return Distribution{Segments: segments, Total: total}
}

func newSegment(i int, status string, value int) Segment {
	return Segment{
		ID:    strings.ToLower(status),
		Label: humanizeStatus(status),
		Value: value,
		Color: Palette[i%len(Palette)],
	}
}

// humanizeStatus turns IN_PROCESS into "In process".
func humanizeStatus(status string) string {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(status), "_", " "))
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

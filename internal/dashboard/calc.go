package dashboard

import (
	"fmt"
	"math"
	"time"
)

// Product policy thresholds.
const (
	// CriticalStockRatio marks stock critical at or below ceil(reorder_level * ratio).
	CriticalStockRatio = 0.5
	// StaleOrderAge is the age after which a non-terminal order is flagged.
	StaleOrderAge = 24 * time.Hour
	// ActivityLimit caps the recent-activity feed.
	ActivityLimit = 8
	// TrendDays is the length of the trend series, ending today.
	TrendDays = 7
)

// StartOfDay returns local midnight of t in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether t falls on the calendar day of ref, judged in ref's
// location.
func SameDay(t, ref time.Time) bool {
	return StartOfDay(t.In(ref.Location())).Equal(StartOfDay(ref))
}

// ToPercent returns round(n/d*100), or 0 when d is 0.
func ToPercent(n, d float64) int {
	if d == 0 {
		return 0
	}
	return roundHalfUp(n / d * 100)
}

// Average returns the rounded mean of the finite values, or 0 when none.
func Average(values []float64) int {
	var sum float64
	n := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return roundHalfUp(sum / float64(n))
}

func roundHalfUp(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(v + 0.5))
}

// RelativeTime renders t relative to now: minutes, hours and days for the
// last week, then a short month/day date.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	}
	return t.In(now.Location()).Format("Jan 2")
}

package dashboard

import (
	"time"

	"github.com/wardline/wardline/internal/records"
)

const bucketLayout = "2006-01-02"

// BuildTrend counts records per calendar day over the TrendDays days ending
// today. Buckets are chronological and zero-filled.
func BuildTrend(rs []records.Record, now time.Time, dateFields ...string) []TrendPoint {
	today := StartOfDay(now)
	points := make([]TrendPoint, TrendDays)
	index := make(map[string]int, TrendDays)
	for i := 0; i < TrendDays; i++ {
		day := today.AddDate(0, 0, i-(TrendDays-1))
		key := day.Format(bucketLayout)
		points[i] = TrendPoint{ID: key, Date: key, Label: day.Format("Mon")}
		index[key] = i
	}
	loc := now.Location()
	for _, r := range rs {
		t, ok := r.Date(loc, dateFields...)
		if !ok {
			continue
		}
		key := t.In(loc).Format(bucketLayout)
		if i, ok := index[key]; ok {
			points[i].Value++
		}
	}
	return points
}

// trendWindowStart is midnight of the oldest trend bucket.
func trendWindowStart(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, -(TrendDays - 1))
}

func trendValues(points []TrendPoint) []float64 {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		out = append(out, p.Value)
	}
	return out
}

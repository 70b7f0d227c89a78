package dashboard

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/wardline/internal/records"
)

var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func TestBuildTrendBucketsSevenDays(t *testing.T) {
	rs := []records.Record{
		{"created_at": "2025-03-12T08:00:00Z"},
		{"created_at": "2025-03-12T09:30:00Z"},
		{"created_at": "2025-03-06"},
		{"created_at": "2025-03-05T23:00:00Z"}, // outside the window
		{"created_at": "not a date"},
		{},
	}

	points := BuildTrend(rs, testNow, "created_at")
	require.Len(t, points, TrendDays)
	assert.Equal(t, "2025-03-06", points[0].Date)
	assert.Equal(t, "Thu", points[0].Label)
	assert.Equal(t, "2025-03-12", points[6].Date)

	values := trendValues(points)
	if diff := cmp.Diff([]float64{1, 0, 0, 0, 0, 0, 2}, values); diff != "" {
		t.Fatalf("trend values mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTrendEmptyIsZeroFilled(t *testing.T) {
	points := BuildTrend(nil, testNow, "created_at")
	require.Len(t, points, TrendDays)
	for _, p := range points {
		assert.Zero(t, p.Value)
	}
}

func TestBuildDistribution(t *testing.T) {
	rs := []records.Record{
		{"status": "ordered"},
		{"status": "IN_PROCESS"},
		{"status": " in_process "},
		{"status": "UNKNOWN"},
	}
	dist := BuildDistribution(rs, labOrderStatuses, "status")
	require.Len(t, dist.Segments, 2)
	assert.Equal(t, 3, dist.Total)
	assert.Equal(t, Segment{ID: "ordered", Label: "Ordered", Value: 1, Color: Palette[0]}, dist.Segments[0])
	assert.Equal(t, Segment{ID: "in_process", Label: "In process", Value: 2, Color: Palette[1]}, dist.Segments[1])
}

func TestBuildDistributionDropsEmptyStatuses(t *testing.T) {
	rs := []records.Record{{"status": "COMPLETED"}}
	dist := BuildDistribution(rs, appointmentStatuses)
	require.Len(t, dist.Segments, 1)
	assert.Equal(t, "completed", dist.Segments[0].ID)
	assert.Equal(t, 1, dist.Segments[0].Value)
	assert.Equal(t, Palette[0], dist.Segments[0].Color)
	assert.Equal(t, 1, dist.Total)
}

func TestBuildDistributionAllZeroKeepsFirstSegment(t *testing.T) {
	dist := BuildDistribution(nil, appointmentStatuses)
	require.Len(t, dist.Segments, 1)
	assert.Equal(t, "scheduled", dist.Segments[0].ID)
	assert.Zero(t, dist.Segments[0].Value)
	assert.Zero(t, dist.Total)
}

func TestBuildDistributionCyclesPalette(t *testing.T) {
	statuses := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	rs := []records.Record{
		{"status": "A"}, {"status": "B"}, {"status": "C"}, {"status": "D"},
		{"status": "E"}, {"status": "F"}, {"status": "H"},
	}
	dist := BuildDistribution(rs, statuses)
	require.Len(t, dist.Segments, 7)
	assert.Equal(t, "h", dist.Segments[6].ID)
	assert.Equal(t, Palette[0], dist.Segments[6].Color)
}

func TestMergeActivityOrdersAndCaps(t *testing.T) {
	var items []ActivityItem
	for i := 0; i < 12; i++ {
		items = append(items, ActivityItem{
			ID:         string(rune('a' + i)),
			OccurredAt: testNow.Add(-time.Duration(i) * time.Hour),
		})
	}
	undated := []ActivityItem{{ID: "undated"}}

	merged := MergeActivity(testNow, undated, items[6:], items[:6])
	require.Len(t, merged, ActivityLimit)
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, "0m ago", merged[0].TimeLabel)
	assert.Equal(t, "7h ago", merged[7].TimeLabel)
	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i].OccurredAt.After(merged[i-1].OccurredAt))
	}
}

func TestActivityFromPrefixesIDs(t *testing.T) {
	rs := []records.Record{
		{"id": 42, "status": "COMPLETED", "created_at": "2025-03-12T09:00:00Z", "patient_name": "Ana"},
		{"created_at": "2025-03-12T08:00:00Z"},
	}
	items := activityFrom(rs, activitySpec{
		prefix:      "appointment",
		dateFields:  []string{"created_at"},
		title:       statusTitle("Appointment", "status"),
		description: describe(patientNameFields...),
	}, time.UTC)

	require.Len(t, items, 2)
	assert.Equal(t, "appointment-42", items[0].ID)
	assert.Equal(t, "Appointment completed", items[0].Title)
	assert.Equal(t, "Ana", items[0].Description)
	assert.Equal(t, "appointment-1", items[1].ID)
	assert.Equal(t, "Appointment updated", items[1].Title)
}

package dashboard

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToPercent(t *testing.T) {
	assert.Equal(t, 0, ToPercent(5, 0))
	assert.Equal(t, 50, ToPercent(1, 2))
	assert.Equal(t, 33, ToPercent(1, 3))
	assert.Equal(t, 67, ToPercent(2, 3))
	assert.Equal(t, 100, ToPercent(4, 4))
	// 0.5 rounds up.
	assert.Equal(t, 1, ToPercent(1, 200))
}

func TestAverageIgnoresNonFinite(t *testing.T) {
	assert.Equal(t, 0, Average(nil))
	assert.Equal(t, 2, Average([]float64{1, 2, 3}))
	assert.Equal(t, 3, Average([]float64{2, 3, math.NaN(), math.Inf(1)}))
	assert.Equal(t, 0, Average([]float64{math.NaN()}))
}

func TestSameDayUsesReferenceLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	ref := time.Date(2025, 3, 12, 1, 0, 0, 0, jakarta)

	// 18:30 UTC on the 11th is 01:30 on the 12th in Jakarta.
	assert.True(t, SameDay(time.Date(2025, 3, 11, 18, 30, 0, 0, time.UTC), ref))
	assert.False(t, SameDay(time.Date(2025, 3, 11, 16, 0, 0, 0, time.UTC), ref))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"0m ago": now.Add(time.Minute),
		"5m ago": now.Add(-5 * time.Minute),
		"3h ago": now.Add(-3 * time.Hour),
		"2d ago": now.Add(-49 * time.Hour),
		"Mar 1":  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	for want, at := range cases {
		assert.Equal(t, want, RelativeTime(at, now))
	}
}

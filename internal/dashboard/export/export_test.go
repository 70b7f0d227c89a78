package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wardline/wardline/internal/dashboard"
	"github.com/wardline/wardline/internal/records"
)

func sampleResult(t *testing.T) dashboard.Result {
	t.Helper()
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	profile, ok := dashboard.ProfileFor(dashboard.RoleLab)
	require.True(t, ok)
	return dashboard.Aggregate(profile, dashboard.Inputs{
		LabOrders: []records.Record{
			{"id": 1, "status": "ORDERED", "ordered_at": "2025-03-12T07:00:00Z"},
			{"id": 2, "status": "IN_PROCESS", "ordered_at": "2025-03-12T08:00:00Z"},
		},
		LabResults: []records.Record{{"id": 3, "status": "CRITICAL", "reported_at": "2025-03-12T09:00:00Z"}},
	}, dashboard.Options{Now: now})
}

func TestWriteCSV(t *testing.T) {
	res := sampleResult(t)
	buf := &bytes.Buffer{}
	require.NoError(t, WriteCSV(buf, res))

	reader := csv.NewReader(bytes.NewReader(buf.Bytes()))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Dashboard", "Laboratory"}, rows[0])
	assert.Equal(t, []string{"Generated At", "2025-03-12T10:00:00Z"}, rows[2])
	assert.Contains(t, rows, []string{"inProcess", "In process", "1", "count"})
	assert.Contains(t, rows, []string{"2025-03-12", "Wed", "2"})
	assert.Contains(t, rows, []string{"Ordered", "1", "50%"})
	assert.Contains(t, rows, []string{"Critical findings", "alert", "1", "Critical"})
}

func TestWriteXLSX(t *testing.T) {
	res := sampleResult(t)
	buf := &bytes.Buffer{}
	require.NoError(t, WriteXLSX(buf, res))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetTrend, SheetDistribution, SheetActivity}, f.GetSheetList())

	title, err := f.GetCellValue(SheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Laboratory", title)

	trend, err := f.GetRows(SheetTrend)
	require.NoError(t, err)
	require.Len(t, trend, dashboard.TrendDays+1)
	assert.Equal(t, []string{"2025-03-12", "Wed", "2"}, trend[dashboard.TrendDays])

	activity, err := f.GetRows(SheetActivity)
	require.NoError(t, err)
	assert.Len(t, activity, len(res.Activity)+1)
}

func TestWriteHTML(t *testing.T) {
	res := sampleResult(t)
	res.Profile.Subtitle = "Orders <and> results"
	buf := &bytes.Buffer{}
	require.NoError(t, WriteHTML(buf, res))

	out := buf.String()
	assert.Contains(t, out, "<title>Laboratory</title>")
	assert.Contains(t, out, "Orders &lt;and&gt; results")
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `<tr class="critical"><td>Critical findings</td><td>1</td><td>Critical</td></tr>`)
}

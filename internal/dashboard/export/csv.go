// Package export serialises dashboard snapshots for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/wardline/wardline/internal/dashboard"
)

// WriteCSV writes the snapshot as consecutive sections separated by a blank
// row: header, summary, trend, distribution, highlights, queues and alerts.
func WriteCSV(w io.Writer, res dashboard.Result) error {
	writer := csv.NewWriter(w)
	rows := [][]string{
		{"Dashboard", res.Profile.Title},
		{"Role", string(res.Profile.ID)},
		{"Generated At", res.GeneratedAt.Format(time.RFC3339)},
		{},
		{"Metric", "Label", "Value", "Kind"},
	}
	for _, card := range res.SummaryCards {
		rows = append(rows, []string{card.ID, card.Label, formatFloat(card.Value), string(card.Kind)})
	}
	rows = append(rows, []string{}, []string{"Date", "Day", "Count"})
	for _, p := range res.Trend {
		rows = append(rows, []string{p.Date, p.Label, formatFloat(p.Value)})
	}
	rows = append(rows, []string{}, []string{"Status", "Count", "Share"})
	for _, s := range res.Distribution.Segments {
		share := dashboard.ToPercent(float64(s.Value), float64(res.Distribution.Total))
		rows = append(rows, []string{s.Label, strconv.Itoa(s.Value), strconv.Itoa(share) + "%"})
	}
	rows = append(rows, []string{}, []string{"Highlight", "Value", "Context"})
	for _, h := range res.Highlights {
		rows = append(rows, []string{h.Label, h.Value, h.Context})
	}
	rows = append(rows, []string{}, []string{"Signal", "Type", "Count", "Status"})
	for _, q := range res.Queues {
		rows = append(rows, []string{q.Title, "queue", strconv.Itoa(q.Count), q.StatusLabel})
	}
	for _, a := range res.Alerts {
		rows = append(rows, []string{a.Title, "alert", strconv.Itoa(a.Count), a.StatusLabel})
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

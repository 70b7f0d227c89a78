package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/wardline/wardline/internal/dashboard"
)

// Sheet names in workbook order.
const (
	SheetSummary      = "Summary"
	SheetTrend        = "Trend"
	SheetDistribution = "Distribution"
	SheetActivity     = "Activity"
)

// WriteXLSX writes the snapshot as a workbook with one sheet per section.
func WriteXLSX(w io.Writer, res dashboard.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	for _, name := range []string{SheetTrend, SheetDistribution, SheetActivity} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2563EB"}},
	})
	if err != nil {
		return err
	}

	summary := [][]any{
		{"Dashboard", res.Profile.Title},
		{"Generated At", res.GeneratedAt.Format(time.RFC3339)},
		{},
		{"Metric", "Label", "Value", "Kind"},
	}
	for _, card := range res.SummaryCards {
		summary = append(summary, []any{card.ID, card.Label, card.Value, string(card.Kind)})
	}
	summary = append(summary, []any{}, []any{"Highlight", "Value", "Context"})
	for _, h := range res.Highlights {
		summary = append(summary, []any{h.Label, h.Value, h.Context})
	}

	trend := [][]any{{"Date", "Day", "Count"}}
	for _, p := range res.Trend {
		trend = append(trend, []any{p.Date, p.Label, p.Value})
	}

	dist := [][]any{{"Status", "Count", "Color"}}
	for _, s := range res.Distribution.Segments {
		dist = append(dist, []any{s.Label, s.Value, s.Color})
	}

	activity := [][]any{{"When", "Title", "Description"}}
	for _, a := range res.Activity {
		activity = append(activity, []any{a.OccurredAt.Format(time.RFC3339), a.Title, a.Description})
	}

	sheets := []struct {
		name      string
		rows      [][]any
		headerRow int
	}{
		{SheetSummary, summary, 4},
		{SheetTrend, trend, 1},
		{SheetDistribution, dist, 1},
		{SheetActivity, activity, 1},
	}
	for _, sheet := range sheets {
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
		if err := styleRow(f, sheet.name, sheet.headerRow, len(sheet.rows[sheet.headerRow-1]), header); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.name, "A", "D", 22); err != nil {
			return err
		}
	}
	_, err = f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export: %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

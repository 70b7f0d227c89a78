package svg

import (
	"strings"
	"testing"

	"github.com/wardline/wardline/internal/dashboard"
)

func TestTrendProducesSVG(t *testing.T) {
	trend := []dashboard.TrendPoint{
		{Label: "Mon", Value: 3},
		{Label: "Tue", Value: 0},
		{Label: "Wed", Value: 7},
	}
	html, err := Trend(400, 200, trend, LineOpts{Title: "Appointments", Description: "Last 7 days", ShowDots: true})
	if err != nil {
		t.Fatalf("trend renderer error: %v", err)
	}
	output := string(html)
	if !strings.HasPrefix(output, "<svg") || !strings.HasSuffix(output, "</svg>") {
		t.Fatalf("expected svg document, got %s", output)
	}
	if strings.Count(output, "<circle") != 3 {
		t.Fatalf("expected one dot per point")
	}
	if !strings.Contains(output, `aria-labelledby="appointments-line-title appointments-line-desc"`) {
		t.Fatalf("expected accessibility attributes, got %s", output)
	}
	if !strings.Contains(output, ">Wed</text>") {
		t.Fatalf("expected x axis labels")
	}
}

func TestTrendAllZeroStillRenders(t *testing.T) {
	html, err := Trend(0, 0, make([]dashboard.TrendPoint, dashboard.TrendDays), LineOpts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(html), "NaN") {
		t.Fatalf("zero series must not produce NaN coordinates")
	}
}

func TestLineRejectsBadInput(t *testing.T) {
	if _, err := Line(400, 200, nil, nil, LineOpts{}); err == nil {
		t.Fatal("expected error for empty series")
	}
	if _, err := Line(400, 200, []float64{1}, []string{"a", "b"}, LineOpts{}); err == nil {
		t.Fatal("expected error for label mismatch")
	}
	if _, err := Line(20, 20, []float64{1}, []string{"a"}, LineOpts{Padding: 30}); err == nil {
		t.Fatal("expected error for tiny viewport")
	}
}

func TestSegmentsUsesSegmentColors(t *testing.T) {
	dist := dashboard.Distribution{
		Segments: []dashboard.Segment{
			{ID: "ordered", Label: "Ordered", Value: 2, Color: "#2563eb"},
			{ID: "in_process", Label: "In process", Value: 1, Color: "#16a34a"},
		},
		Total: 3,
	}
	html, err := Segments(480, dist, BarOpts{Title: "Lab orders", ShowTotals: true})
	if err != nil {
		t.Fatalf("segments renderer error: %v", err)
	}
	output := string(html)
	for _, want := range []string{`fill="#2563eb"`, `fill="#16a34a"`, "2 (67%)", "In process"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in %s", want, output)
		}
	}
	if _, err := Segments(480, dashboard.Distribution{}, BarOpts{}); err == nil {
		t.Fatal("expected error for empty distribution")
	}
}

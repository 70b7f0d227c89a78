package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/wardline/wardline/internal/dashboard"
)

type point struct {
	x, y  float64
	label string
}

// Trend renders the daily trend series as a line chart.
func Trend(width, height int, trend []dashboard.TrendPoint, opts LineOpts) (template.HTML, error) {
	series := make([]float64, len(trend))
	labels := make([]string, len(trend))
	for i, p := range trend {
		series[i] = p.Value
		labels[i] = p.Label
	}
	return Line(width, height, series, labels, opts)
}

// Line renders an SVG line chart for the given series and labels.
func Line(width, height int, series []float64, labels []string, opts LineOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	if len(series) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match series")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := positive(opts.Padding, DefaultPadding)
	ticks := opts.TickCount
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	stroke := fallback(opts.StrokeColor, dashboard.Palette[0])
	fill := fallback(opts.FillColor, "rgba(37,99,235,0.12)")
	axis := fallback(opts.AxisColor, "#475569")
	grid := fallback(opts.GridColor, "#cbd5e1")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	// Counts never go below zero, so the axis starts at zero.
	maxVal := 0.0
	for _, v := range series {
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}
	scale := chartHeight / maxVal
	base := padding + chartHeight

	points := make([]point, len(series))
	for i, v := range series {
		x := padding + chartWidth/2
		if len(series) > 1 {
			x = padding + float64(i)*chartWidth/float64(len(series)-1)
		}
		points[i] = point{x: x, y: base - math.Max(v, 0)*scale, label: labels[i]}
	}

	var path strings.Builder
	for i, p := range points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&path, "%s%.2f %.2f ", cmd, p.x, p.y)
	}
	line := strings.TrimSpace(path.String())

	var b strings.Builder
	open(&b, width, height, opts.Title, opts.Description, "line", "Trend")
	for i := 0; i <= ticks; i++ {
		ratio := float64(i) / float64(ticks)
		y := base - ratio*chartHeight
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="2,4" aria-hidden="true"></line>`, padding, y, padding+chartWidth, y, grid)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end">%s</text>`, padding-6, y+4, axis, formatTick(maxVal*ratio))
	}
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"></line>`, padding, base, padding+chartWidth, base, axis)

	first, last := points[0], points[len(points)-1]
	fmt.Fprintf(&b, `<path d="%s L%.2f %.2f L%.2f %.2f Z" fill="%s" stroke="none" aria-hidden="true"></path>`, line, last.x, base, first.x, base, fill)
	fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="2" stroke-linejoin="round" stroke-linecap="round"></path>`, line, stroke)
	for _, p := range points {
		if opts.ShowDots {
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="3" fill="%s"></circle>`, p.x, p.y, stroke)
		}
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="middle">%s</text>`, p.x, base+14, axis, template.HTMLEscapeString(p.label))
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func open(b *strings.Builder, width, height int, title, desc, kind, defaultTitle string) {
	titleID := makeID(title, kind+"-title")
	descID := makeID(title, kind+"-desc")
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-labelledby="%s %s">`, width, height, titleID, descID)
	fmt.Fprintf(b, `<title id="%s">%s</title>`, titleID, template.HTMLEscapeString(fallback(title, defaultTitle)))
	fmt.Fprintf(b, `<desc id="%s">%s</desc>`, descID, template.HTMLEscapeString(desc))
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func positive(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return cleaned + "-" + suffix
}

func formatTick(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	case v == math.Round(v):
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

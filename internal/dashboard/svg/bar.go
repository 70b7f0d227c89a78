package svg

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/wardline/wardline/internal/dashboard"
)

// Segments renders a distribution as horizontal bars, one row per segment,
// each in the segment's own color.
func Segments(width int, dist dashboard.Distribution, opts BarOpts) (template.HTML, error) {
	if len(dist.Segments) == 0 {
		return "", fmt.Errorf("svg: segments required")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	padding := positive(opts.Padding, DefaultPadding)
	labelWidth := positive(opts.LabelWidth, 120)
	axis := fallback(opts.AxisColor, "#475569")
	track := fallback(opts.TrackColor, "#f1f5f9")

	const rowHeight, barHeight = 28.0, 16.0
	height := int(2*padding + rowHeight*float64(len(dist.Segments)))
	barSpace := float64(width) - 2*padding - labelWidth - 48
	if barSpace <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	maxVal := 0
	for _, s := range dist.Segments {
		if s.Value > maxVal {
			maxVal = s.Value
		}
	}

	var b strings.Builder
	open(&b, width, height, opts.Title, opts.Description, "bars", "Distribution")
	for i, s := range dist.Segments {
		y := padding + float64(i)*rowHeight
		barX := padding + labelWidth
		barW := 0.0
		if maxVal > 0 {
			barW = barSpace * float64(s.Value) / float64(maxVal)
		}
		label := template.HTMLEscapeString(s.Label)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="11" text-anchor="end">%s</text>`, barX-8, y+barHeight-4, axis, label)
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="%s" aria-hidden="true"></rect>`, barX, y, barSpace, barHeight, track)
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="%s" aria-label="%s %d"></rect>`, barX, y, barW, barHeight, template.HTMLEscapeString(s.Color), label, s.Value)
		value := fmt.Sprintf("%d", s.Value)
		if opts.ShowTotals && dist.Total > 0 {
			value = fmt.Sprintf("%d (%d%%)", s.Value, dashboard.ToPercent(float64(s.Value), float64(dist.Total)))
		}
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="11" text-anchor="start">%s</text>`, barX+barSpace+6, y+barHeight-4, axis, value)
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

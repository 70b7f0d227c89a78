// Package svg renders dashboard charts as standalone SVG documents.
package svg

// LineOpts customises the trend chart.
type LineOpts struct {
	Title       string
	Description string
	StrokeColor string
	FillColor   string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
}

// BarOpts customises the distribution chart.
type BarOpts struct {
	Title       string
	Description string
	AxisColor   string
	TrackColor  string
	LabelWidth  float64
	Padding     float64
	ShowTotals  bool
}

// Chart defaults.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 24.0
	DefaultTicks   = 4
)

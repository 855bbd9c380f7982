// Package svg renders the dashboard charts as inline, accessible SVG.
package svg

// LineOpts customises the line chart renderer.
type LineOpts struct {
	ID          string
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

// BarOpts customises the single series bar chart renderer.
type BarOpts struct {
	ID          string
	Title       string
	Description string
	SeriesLabel string
	Color       string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

// PieOpts customises the pie chart renderer. Colors are applied per slice
// and cycle when there are more slices than colours.
type PieOpts struct {
	ID          string
	Title       string
	Description string
	Colors      []string
	LabelColor  string
	Padding     float64
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 480
	DefaultHeight  = 260
	DefaultPadding = 28.0
	DefaultTicks   = 5
	emptyMessage   = "Sin datos"
)

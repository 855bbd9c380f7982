package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Bars renders a single series bar chart. An empty series renders an empty
// frame.
func Bars(width, height int, series []float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(series) != len(labels) {
		return "", fmt.Errorf("svg: series length must match labels")
	}
	width, height = viewport(width, height)
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5e1")
	color := fallback(opts.Color, "#1976d2")
	seriesLabel := fallback(opts.SeriesLabel, "Serie")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	var b strings.Builder
	openSVG(&b, width, height, opts.ID, fallback(opts.Title, "Bar chart"), fallback(opts.Description, "Bar comparison"))
	if len(series) == 0 {
		writeEmpty(&b, width, height, axisColor)
		b.WriteString("</svg>")
		return template.HTML(b.String()), nil
	}

	minVal, maxVal := valueRange(series)
	scale := chartHeight / (maxVal - minVal)
	zeroY := padding + chartHeight - (0-minVal)*scale
	chartBottom := padding + chartHeight

	writeGrid(&b, padding, chartWidth, chartHeight, minVal, maxVal, tickCount, axisColor, gridColor)
	writeAxes(&b, padding, chartWidth, chartHeight, zeroY, axisColor)

	slot := chartWidth / float64(len(labels))
	barWidth := slot * 0.6
	for i, label := range labels {
		x := padding + float64(i)*slot + (slot-barWidth)/2
		y, h := barPosition(series[i], scale, zeroY, padding, chartBottom)
		fmt.Fprintf(&b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"><title>%s: %s</title></rect>",
			x, y, barWidth, h, color,
			template.HTMLEscapeString(seriesLabel), template.HTMLEscapeString(label),
			template.HTMLEscapeString(label), formatTick(series[i]))
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"9\" text-anchor=\"middle\">%s</text>", x+barWidth/2, chartBottom+14, axisColor, template.HTMLEscapeString(label))
	}

	legendY := math.Max(padding-10, 12)
	fmt.Fprintf(&b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", padding, legendY-8, color)
	fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", padding+14, legendY, axisColor, template.HTMLEscapeString(seriesLabel))

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func barPosition(value, scale, zeroY, padding, bottom float64) (float64, float64) {
	if value >= 0 {
		height := value * scale
		y := zeroY - height
		if y < padding {
			height -= padding - y
			y = padding
		}
		if height < 0 {
			height = 0
		}
		return y, height
	}
	height := math.Abs(value * scale)
	y := zeroY
	if y+height > bottom {
		height = bottom - y
	}
	if height < 0 {
		height = 0
	}
	return y, height
}

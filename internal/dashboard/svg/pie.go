package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Pie renders a pie chart with one slice per value. Negative values are
// treated as zero; a series summing to zero renders an empty frame.
func Pie(width, height int, values []float64, labels []string, opts PieOpts) (template.HTML, error) {
	if len(values) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match values")
	}
	width, height = viewport(width, height)
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	labelColor := fallback(opts.LabelColor, "#000")
	colors := opts.Colors
	if len(colors) == 0 {
		colors = []string{"#43a047", "#e53935"}
	}

	radius := math.Min(float64(width)-2*padding, float64(height)-2*padding-16) / 2
	if radius <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	cx := float64(width) / 2
	cy := padding + radius

	var b strings.Builder
	openSVG(&b, width, height, opts.ID, fallback(opts.Title, "Pie chart"), fallback(opts.Description, "Share breakdown"))

	total := 0.0
	for _, v := range values {
		total += math.Max(v, 0)
	}
	if almostEqual(total, 0) {
		writeEmpty(&b, width, height, labelColor)
		b.WriteString("</svg>")
		return template.HTML(b.String()), nil
	}

	angle := -math.Pi / 2
	for i, v := range values {
		v = math.Max(v, 0)
		if almostEqual(v, 0) {
			continue
		}
		color := colors[i%len(colors)]
		share := v / total
		title := fmt.Sprintf("<title>%s: %s</title>", template.HTMLEscapeString(labels[i]), formatTick(v))
		if almostEqual(share, 1) {
			fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\">%s</circle>", cx, cy, radius, color, title)
			angle += 2 * math.Pi
			continue
		}
		sweep := share * 2 * math.Pi
		x1, y1 := cx+radius*math.Cos(angle), cy+radius*math.Sin(angle)
		x2, y2 := cx+radius*math.Cos(angle+sweep), cy+radius*math.Sin(angle+sweep)
		large := 0
		if sweep > math.Pi {
			large = 1
		}
		fmt.Fprintf(&b, "<path d=\"M%.2f %.2f L%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f Z\" fill=\"%s\" aria-label=\"%s\">%s</path>",
			cx, cy, x1, y1, radius, radius, large, x2, y2, color, template.HTMLEscapeString(labels[i]), title)
		angle += sweep
	}

	legendY := cy + radius + 16
	slot := (float64(width) - 2*padding) / float64(len(labels))
	for i, label := range labels {
		x := padding + float64(i)*slot
		fmt.Fprintf(&b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", x, legendY-8, colors[i%len(colors)])
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", x+14, legendY, labelColor, template.HTMLEscapeString(label))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

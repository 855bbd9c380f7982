package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/energydash/energydash/internal/energy"
)

// ChartKind selects the renderer of a chart surface.
type ChartKind string

// Chart kinds drawn on the dashboards.
const (
	KindBar  ChartKind = "bar"
	KindPie  ChartKind = "pie"
	KindLine ChartKind = "line"
)

// PNG dimensions used when a chart does not set its own.
const (
	DefaultPNGWidth  = 800
	DefaultPNGHeight = 480
)

// Chart is the data and styling of one chart on a page. It renders as SVG
// in the page and as PNG on export, so both show the same contents.
type Chart struct {
	ChartID    string        `json:"id"`
	Kind       ChartKind     `json:"kind"`
	Title      string        `json:"title"`
	Series     energy.Series `json:"series"`
	Colors     []string      `json:"colors"`
	Background string        `json:"background"`
	Foreground string        `json:"foreground"`
	Width      int           `json:"width,omitempty"`
	Height     int           `json:"height,omitempty"`
}

// ID implements Surface.
func (c Chart) ID() string {
	return c.ChartID
}

// Fingerprint identifies the visual contents; equal charts share it.
func (c Chart) Fingerprint() string {
	return fingerprint(c)
}

// EncodePNG renders the chart. Series go-chart cannot draw (empty, or all
// zero for pies) produce a blank image in the background colour.
func (c Chart) EncodePNG(w io.Writer) error {
	width, height := c.size()
	if c.Series.Empty() {
		return blankPNG(w, width, height, c.Background)
	}
	var buf bytes.Buffer
	var err error
	switch c.Kind {
	case KindBar:
		err = c.barChart(width, height).Render(chart.PNG, &buf)
	case KindPie:
		pie, ok := c.pieChart(width, height)
		if !ok {
			return blankPNG(w, width, height, c.Background)
		}
		err = pie.Render(chart.PNG, &buf)
	case KindLine:
		err = c.lineChart(width, height).Render(chart.PNG, &buf)
	default:
		return fmt.Errorf("export: unknown chart kind %q", c.Kind)
	}
	if err != nil {
		return fmt.Errorf("export: render %s: %w", c.ChartID, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (c Chart) size() (int, int) {
	width, height := c.Width, c.Height
	if width <= 0 {
		width = DefaultPNGWidth
	}
	if height <= 0 {
		height = DefaultPNGHeight
	}
	return width, height
}

func (c Chart) color(i int) drawing.Color {
	if len(c.Colors) == 0 {
		return chart.ColorBlue
	}
	return hexColor(c.Colors[i%len(c.Colors)])
}

func (c Chart) frame() (chart.Style, chart.Style) {
	background := chart.Style{
		FillColor: hexColor(c.Background),
		Padding:   chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
	}
	canvas := chart.Style{FillColor: hexColor(c.Background)}
	return background, canvas
}

func (c Chart) textStyle() chart.Style {
	return chart.Style{FontColor: hexColor(c.Foreground), StrokeColor: hexColor(c.Foreground)}
}

func (c Chart) barChart(width, height int) chart.BarChart {
	background, canvas := c.frame()
	bars := make([]chart.Value, 0, c.Series.Len())
	for i, v := range c.Series.Values {
		col := c.color(0)
		if len(c.Colors) > 1 {
			col = c.color(i)
		}
		bars = append(bars, chart.Value{
			Label: c.Series.Labels[i],
			Value: v,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
	}
	barWidth := (width - 80) / (2 * len(bars))
	if barWidth < 4 {
		barWidth = 4
	}
	return chart.BarChart{
		Title:      c.Title,
		TitleStyle: c.textStyle(),
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		Background: background,
		Canvas:     canvas,
		XAxis:      c.textStyle(),
		YAxis: chart.YAxis{
			Style: c.textStyle(),
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(c.Series.Values)},
		},
		Bars: bars,
	}
}

func (c Chart) pieChart(width, height int) (chart.PieChart, bool) {
	background, canvas := c.frame()
	values := make([]chart.Value, 0, c.Series.Len())
	for i, v := range c.Series.Values {
		if v <= 0 {
			continue
		}
		col := c.color(i)
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", c.Series.Labels[i], energy.FormatPercent(v)),
			Value: v,
			Style: chart.Style{FillColor: col, StrokeColor: hexColor(c.Background), FontColor: drawing.ColorWhite},
		})
	}
	if len(values) == 0 {
		return chart.PieChart{}, false
	}
	return chart.PieChart{
		Title:      c.Title,
		TitleStyle: c.textStyle(),
		Width:      width,
		Height:     height,
		Background: background,
		Canvas:     canvas,
		Values:     values,
	}, true
}

// lineChart plots values against their label positions. Labels that parse as
// numbers (years) are used as X values so the axis reads in years.
func (c Chart) lineChart(width, height int) chart.Chart {
	background, canvas := c.frame()
	xs := make([]float64, c.Series.Len())
	ticks := make([]chart.Tick, c.Series.Len())
	for i, label := range c.Series.Labels {
		x := float64(i)
		if parsed, err := strconv.ParseFloat(label, 64); err == nil {
			x = parsed
		}
		xs[i] = x
		ticks[i] = chart.Tick{Value: x, Label: label}
	}
	ys := c.Series.Values
	minX, maxX := xs[0], xs[len(xs)-1]
	if minX == maxX {
		// go-chart derives the X range from the ticks and needs two distinct
		// values, so a lone point gets a padded axis and a short flat segment.
		x := xs[0]
		minX, maxX = x-1, x+1
		ticks = []chart.Tick{{Value: minX}, ticks[0], {Value: maxX}}
		xs = []float64{x - 0.5, x + 0.5}
		ys = []float64{ys[0], ys[0]}
	}
	col := c.color(0)
	return chart.Chart{
		Title:      c.Title,
		TitleStyle: c.textStyle(),
		Width:      width,
		Height:     height,
		Background: background,
		Canvas:     canvas,
		XAxis: chart.XAxis{
			Style: c.textStyle(),
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Style: c.textStyle(),
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(c.Series.Values)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    c.Title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: col,
					StrokeWidth: 3,
					DotColor:    col,
					DotWidth:    4,
				},
			},
		},
	}
}

// headroom returns a Y maximum above the largest value, at least 1.
func headroom(values []float64) float64 {
	maxVal := 0.0
	for _, v := range values {
		maxVal = math.Max(maxVal, v)
	}
	if maxVal <= 0 {
		return 1
	}
	return math.Ceil(maxVal * 1.1)
}

// hexColor parses #rgb and #rrggbb colours. Unparseable input yields white.
func hexColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return drawing.ColorWhite
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return drawing.ColorWhite
	}
	return drawing.ColorFromHex(hex)
}

func blankPNG(w io.Writer, width, height int, background string) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := hexColor(background)
	fill := color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)
	return png.Encode(w, img)
}

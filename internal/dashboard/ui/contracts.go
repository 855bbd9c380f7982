// Package ui composes the view models the dashboard templates render.
package ui

import (
	"html/template"

	"github.com/energydash/energydash/internal/dashboard/svg"
	"github.com/energydash/energydash/internal/energy"
	"github.com/energydash/energydash/internal/theme"
	"github.com/energydash/energydash/internal/viewstate"
)

// Toggle is a pressed/unpressed theme button.
type Toggle struct {
	Label   string
	Action  string
	Pressed bool
	Colors  theme.ButtonColors
}

// YearOption is one entry of the year filter.
type YearOption struct {
	Year     int
	Selected bool
}

// ChartCard is a chart mounted on the page with its export action.
type ChartCard struct {
	ID          string
	Title       string
	AriaLabel   string
	ExportLabel string
	ExportURL   string
	SVG         template.HTML
}

// CountryPanel groups the charts of one country on the comparison page.
type CountryPanel struct {
	Country energy.Country
	Heading string
	Charts  []ChartCard
}

// TabView is one entry of the tab strip.
type TabView struct {
	Index  int
	Label  string
	Icon   string
	Active bool
	Embed  bool
	URL    string
}

// SectionView is one entry of the section switcher.
type SectionView struct {
	Index  int
	ID     string
	Title  string
	Icon   string
	Active bool
	KPIs   []energy.KPIEntry
}

// PageModel is everything a dashboard page template needs.
type PageModel struct {
	Variant        energy.Variant
	Heading        string
	BasePath       string
	Loading        bool
	RefreshSeconds int
	State          viewstate.State
	Palette        theme.ColorPalette
	DarkToggle     Toggle
	ContrastToggle Toggle
	Years          []YearOption
	ShowYearFilter bool
	Countries      []CountryPanel
	Tabs           []TabView
	ActiveTab      *TabView
	Sections       []SectionView
	ActiveSection  *SectionView
	KPIs           []energy.KPIEntry
	Charts         []ChartCard
	FooterYear     int
	FooterText     string
}

// LineRenderer abstracts SVG line chart rendering.
type LineRenderer interface {
	Line(width, height int, series []float64, labels []string, opts svg.LineOpts) (template.HTML, error)
}

// BarRenderer abstracts SVG bar chart rendering.
type BarRenderer interface {
	Bars(width, height int, series []float64, labels []string, opts svg.BarOpts) (template.HTML, error)
}

// PieRenderer abstracts SVG pie chart rendering.
type PieRenderer interface {
	Pie(width, height int, values []float64, labels []string, opts svg.PieOpts) (template.HTML, error)
}

// Renderers bundles the SVG renderers a Builder draws with.
type Renderers struct {
	Line LineRenderer
	Bar  BarRenderer
	Pie  PieRenderer
}

// SVGRenderers returns renderers backed by the svg package.
func SVGRenderers() Renderers {
	r := svgRenderer{}
	return Renderers{Line: r, Bar: r, Pie: r}
}

type svgRenderer struct{}

func (svgRenderer) Line(width, height int, series []float64, labels []string, opts svg.LineOpts) (template.HTML, error) {
	return svg.Line(width, height, series, labels, opts)
}

func (svgRenderer) Bars(width, height int, series []float64, labels []string, opts svg.BarOpts) (template.HTML, error) {
	return svg.Bars(width, height, series, labels, opts)
}

func (svgRenderer) Pie(width, height int, values []float64, labels []string, opts svg.PieOpts) (template.HTML, error) {
	return svg.Pie(width, height, values, labels, opts)
}

// ExportPath is the download URL of a chart on a variant page.
func ExportPath(variant energy.Variant, id string) string {
	return "/dashboards/" + string(variant) + "/charts/" + id + ".png"
}

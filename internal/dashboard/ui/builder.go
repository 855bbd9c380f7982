package ui

import (
	"context"
	"fmt"
	"html/template"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/energydash/energydash/internal/dashboard/export"
	"github.com/energydash/energydash/internal/dashboard/svg"
	"github.com/energydash/energydash/internal/energy"
	"github.com/energydash/energydash/internal/theme"
	"github.com/energydash/energydash/internal/viewstate"
)

// Chart identifiers outside the comparison page.
const (
	ChartOverviewSectors = "sectores-resumen"
	ChartSolarGeneration = "generacion-solar"
	ChartSolarShare      = "pie-solar"
)

const (
	chartWidth  = 480
	chartHeight = 260
	pieWidth    = 320
)

// mountedChart is a chart plus where and how the page shows it.
type mountedChart struct {
	chart       export.Chart
	panel       energy.Country
	ariaLabel   string
	exportLabel string
}

// Builder derives page models and chart surfaces from a view state.
type Builder struct {
	catalog   *energy.Catalog
	renderers Renderers
	now       func() time.Time
}

// NewBuilder constructs a builder over the catalog.
func NewBuilder(catalog *energy.Catalog, renderers Renderers) *Builder {
	if catalog == nil {
		catalog = energy.Default()
	}
	return &Builder{catalog: catalog, renderers: renderers, now: time.Now}
}

// WithNow overrides the builder clock for testing.
func (b *Builder) WithNow(fn func() time.Time) {
	if fn != nil {
		b.now = fn
	}
}

// Catalog returns the catalog the builder reads from.
func (b *Builder) Catalog() *energy.Catalog {
	return b.catalog
}

// Charts returns the charts mounted for a state. Nothing is mounted while
// the view is loading.
func (b *Builder) Charts(variant energy.Variant, state viewstate.State, loading bool) []export.Chart {
	if loading {
		return nil
	}
	mounted := b.mounted(variant, state)
	out := make([]export.Chart, 0, len(mounted))
	for _, m := range mounted {
		out = append(out, m.chart)
	}
	return out
}

// Surfaces indexes the mounted charts for export.
func (b *Builder) Surfaces(variant energy.Variant, state viewstate.State, loading bool) export.SurfaceSet {
	charts := b.Charts(variant, state, loading)
	surfaces := make([]export.Surface, 0, len(charts))
	for _, c := range charts {
		surfaces = append(surfaces, c)
	}
	return export.NewSurfaceSet(surfaces...)
}

// Build composes the page model. Charts are rendered concurrently.
func (b *Builder) Build(ctx context.Context, variant energy.Variant, state viewstate.State, loading bool, readyIn time.Duration) (PageModel, error) {
	palette := theme.Palette(state.Flags())
	vm := PageModel{
		Variant:  variant,
		Heading:  variant.Title(),
		BasePath: "/dashboards/" + string(variant),
		Loading:  loading,
		State:    state,
		Palette:  palette,
		DarkToggle: Toggle{
			Label:   "Modo Oscuro",
			Action:  "dark",
			Pressed: state.Dark,
			Colors:  palette.DarkToggle,
		},
		ContrastToggle: Toggle{
			Label:   "Modo Alto Contraste",
			Action:  "contrast",
			Pressed: state.HighContrast,
			Colors:  palette.ContrastToggle,
		},
		FooterYear: b.now().Year(),
		FooterText: footerText(variant),
	}
	for _, year := range b.catalog.Years() {
		vm.Years = append(vm.Years, YearOption{Year: year, Selected: year == state.MaxYear})
	}
	if loading {
		vm.RefreshSeconds = int(math.Max(1, math.Ceil(readyIn.Seconds())))
	}

	switch variant {
	case energy.VariantComparison:
		vm.ShowYearFilter = true
		for _, ds := range b.catalog.Countries() {
			vm.Countries = append(vm.Countries, CountryPanel{Country: ds.Country, Heading: ds.Country.DisplayName()})
		}
	case energy.VariantTabs:
		for i, tab := range b.catalog.Tabs() {
			tv := TabView{Index: i, Label: tab.Label, Icon: tab.Icon, Active: i == state.ActiveTab, Embed: tab.IsEmbed(), URL: tab.ExternalURL}
			vm.Tabs = append(vm.Tabs, tv)
			if tv.Active {
				active := tv
				vm.ActiveTab = &active
			}
		}
		if vm.ActiveTab != nil && !vm.ActiveTab.Embed {
			vm.KPIs = b.catalog.OverviewKPIs()
		}
	case energy.VariantSections:
		for i, section := range b.catalog.Sections() {
			sv := SectionView{Index: i, ID: section.ID, Title: section.Title, Icon: section.Icon, Active: i == state.ActiveSection, KPIs: section.KPIs}
			vm.Sections = append(vm.Sections, sv)
			if sv.Active {
				active := sv
				vm.ActiveSection = &active
				vm.ShowYearFilter = section.ID == "generacion"
			}
		}
	default:
		return PageModel{}, fmt.Errorf("ui: unknown variant %q", variant)
	}

	if loading {
		return vm, nil
	}

	mounted := b.mounted(variant, state)
	cards, err := b.renderCards(ctx, variant, palette, mounted)
	if err != nil {
		return PageModel{}, err
	}
	for i, m := range mounted {
		if m.panel == "" {
			vm.Charts = append(vm.Charts, cards[i])
			continue
		}
		for p := range vm.Countries {
			if vm.Countries[p].Country == m.panel {
				vm.Countries[p].Charts = append(vm.Countries[p].Charts, cards[i])
			}
		}
	}
	return vm, nil
}

func (b *Builder) renderCards(ctx context.Context, variant energy.Variant, palette theme.ColorPalette, mounted []mountedChart) ([]ChartCard, error) {
	cards := make([]ChartCard, len(mounted))
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range mounted {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			html, err := b.renderSVG(m.chart, palette)
			if err != nil {
				return fmt.Errorf("render %s: %w", m.chart.ChartID, err)
			}
			cards[i] = ChartCard{
				ID:          m.chart.ChartID,
				Title:       m.chart.Title,
				AriaLabel:   m.ariaLabel,
				ExportLabel: m.exportLabel,
				ExportURL:   ExportPath(variant, m.chart.ChartID),
				SVG:         html,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cards, nil
}

func (b *Builder) renderSVG(c export.Chart, palette theme.ColorPalette) (template.HTML, error) {
	switch c.Kind {
	case export.KindBar:
		if b.renderers.Bar == nil {
			return "", fmt.Errorf("bar renderer missing")
		}
		return b.renderers.Bar.Bars(chartWidth, chartHeight, c.Series.Values, c.Series.Labels, svg.BarOpts{
			ID:          c.ChartID,
			Title:       c.Title,
			SeriesLabel: c.Title,
			Color:       first(c.Colors),
			AxisColor:   palette.Axis,
			GridColor:   palette.Grid,
		})
	case export.KindPie:
		if b.renderers.Pie == nil {
			return "", fmt.Errorf("pie renderer missing")
		}
		return b.renderers.Pie.Pie(pieWidth, chartHeight, c.Series.Values, c.Series.Labels, svg.PieOpts{
			ID:         c.ChartID,
			Title:      c.Title,
			Colors:     c.Colors,
			LabelColor: palette.Foreground,
		})
	case export.KindLine:
		if b.renderers.Line == nil {
			return "", fmt.Errorf("line renderer missing")
		}
		return b.renderers.Line.Line(chartWidth, chartHeight, c.Series.Values, c.Series.Labels, svg.LineOpts{
			ID:          c.ChartID,
			Title:       c.Title,
			StrokeColor: first(c.Colors),
			AxisColor:   palette.Axis,
			GridColor:   palette.Grid,
			ShowDots:    true,
		})
	default:
		return "", fmt.Errorf("unknown chart kind %q", c.Kind)
	}
}

// mounted lists the charts a state shows, in page order.
func (b *Builder) mounted(variant energy.Variant, state viewstate.State) []mountedChart {
	palette := theme.Palette(state.Flags())
	style := func(c export.Chart) export.Chart {
		c.Background = palette.Card
		c.Foreground = palette.Foreground
		return c
	}
	pieColors := []string{palette.Renewable, palette.NonRenewable}

	var out []mountedChart
	switch variant {
	case energy.VariantComparison:
		for _, ds := range b.catalog.Countries() {
			name := string(ds.Country)
			color := theme.SeriesColor(name)
			out = append(out,
				mountedChart{
					chart: style(export.Chart{
						ChartID: "barras-" + name,
						Kind:    export.KindBar,
						Title:   "Consumo por sector - " + name,
						Series:  energy.SectorView(ds.Sectors),
						Colors:  []string{color},
					}),
					panel:       ds.Country,
					ariaLabel:   "Gráfica de barras para consumo por sector en " + name,
					exportLabel: "Exportar gráfica de barras de " + name + " como imagen PNG",
				},
				mountedChart{
					chart: style(export.Chart{
						ChartID: "pie-" + name,
						Kind:    export.KindPie,
						Title:   "% Renovables",
						Series:  energy.RenewableView(ds.Renewable),
						Colors:  pieColors,
					}),
					panel:       ds.Country,
					ariaLabel:   "Gráfica de pastel de distribución renovable en " + name,
					exportLabel: "Exportar gráfica de pastel de " + name + " como imagen PNG",
				},
				mountedChart{
					chart: style(export.Chart{
						ChartID: "linea-" + name,
						Kind:    export.KindLine,
						Title:   "Consumo energético " + name,
						Series:  energy.YearlyView(ds.Yearly, state.MaxYear),
						Colors:  []string{color},
					}),
					panel:       ds.Country,
					ariaLabel:   fmt.Sprintf("Gráfica de línea de evolución del consumo en %s hasta %d", name, state.MaxYear),
					exportLabel: "Exportar gráfica de línea de " + name + " como imagen PNG",
				},
			)
		}
	case energy.VariantTabs:
		tabs := b.catalog.Tabs()
		if state.ActiveTab >= 0 && state.ActiveTab < len(tabs) && !tabs[state.ActiveTab].IsEmbed() {
			out = append(out, mountedChart{
				chart: style(export.Chart{
					ChartID: ChartOverviewSectors,
					Kind:    export.KindBar,
					Title:   "Consumo por sector (GWh)",
					Series:  energy.SectorView(b.catalog.OverviewSectors()),
					Colors:  []string{theme.Blue},
				}),
				ariaLabel:   "Gráfica de barras del consumo por sector",
				exportLabel: "Exportar gráfica de consumo por sector como imagen PNG",
			})
		}
	case energy.VariantSections:
		sections := b.catalog.Sections()
		if state.ActiveSection < 0 || state.ActiveSection >= len(sections) {
			break
		}
		switch sections[state.ActiveSection].ID {
		case "generacion":
			out = append(out, mountedChart{
				chart: style(export.Chart{
					ChartID: ChartSolarGeneration,
					Kind:    export.KindLine,
					Title:   "Generación solar (GWh)",
					Series:  energy.YearlyView(b.catalog.SolarYearly(), state.MaxYear),
					Colors:  []string{theme.Amber},
				}),
				ariaLabel:   fmt.Sprintf("Gráfica de línea de generación solar hasta %d", state.MaxYear),
				exportLabel: "Exportar gráfica de generación solar como imagen PNG",
			})
		case "consumo":
			out = append(out, mountedChart{
				chart: style(export.Chart{
					ChartID: ChartSolarShare,
					Kind:    export.KindPie,
					Title:   "Cobertura solar de la demanda",
					Series:  energy.RenewableView(b.catalog.SolarShare()),
					Colors:  pieColors,
				}),
				ariaLabel:   "Gráfica de pastel de la demanda cubierta con energía solar",
				exportLabel: "Exportar gráfica de cobertura solar como imagen PNG",
			})
		}
	}
	return out
}

// Tables returns the data behind a variant for CSV and PDF exports.
func (b *Builder) Tables(variant energy.Variant, state viewstate.State) []export.Table {
	var out []export.Table
	switch variant {
	case energy.VariantComparison:
		for _, ds := range b.catalog.Countries() {
			name := string(ds.Country)
			out = append(out,
				export.Table{Name: "Consumo energético " + name, Series: energy.YearlyView(ds.Yearly, state.MaxYear)},
				export.Table{Name: "Consumo por sector - " + name, Series: energy.SectorView(ds.Sectors)},
				export.Table{Name: "% Renovables - " + name, Series: energy.RenewableView(ds.Renewable)},
			)
		}
	case energy.VariantTabs:
		out = append(out, export.Table{Name: "Consumo por sector", Series: energy.SectorView(b.catalog.OverviewSectors())})
	case energy.VariantSections:
		out = append(out,
			export.Table{Name: "Generación solar", Series: energy.YearlyView(b.catalog.SolarYearly(), state.MaxYear)},
			export.Table{Name: "Cobertura solar", Series: energy.RenewableView(b.catalog.SolarShare())},
		)
	}
	return out
}

// KPIs returns the indicators of a variant for exports.
func (b *Builder) KPIs(variant energy.Variant) []energy.KPIEntry {
	switch variant {
	case energy.VariantTabs:
		return b.catalog.OverviewKPIs()
	case energy.VariantSections:
		var out []energy.KPIEntry
		for _, s := range b.catalog.Sections() {
			out = append(out, s.KPIs...)
		}
		return out
	default:
		return nil
	}
}

func footerText(variant energy.Variant) string {
	switch variant {
	case energy.VariantTabs:
		return "Monitoreo Energético. Todos los derechos reservados."
	case energy.VariantSections:
		return "Monitoreo Solar. Todos los derechos reservados."
	default:
		return "Comparativo Energético. Todos los derechos reservados."
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

package ui

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energydash/energydash/internal/dashboard/export"
	"github.com/energydash/energydash/internal/dashboard/svg"
	"github.com/energydash/energydash/internal/energy"
	"github.com/energydash/energydash/internal/theme"
	"github.com/energydash/energydash/internal/viewstate"
)

func newTestBuilder() *Builder {
	b := NewBuilder(energy.Default(), SVGRenderers())
	b.WithNow(func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) })
	return b
}

func TestComparisonChartsPerCountry(t *testing.T) {
	b := newTestBuilder()
	state := viewstate.State{MaxYear: 2020}

	ids := b.Surfaces(energy.VariantComparison, state, false).IDs()
	assert.Equal(t, []string{
		"barras-Canada", "barras-Colombia",
		"linea-Canada", "linea-Colombia",
		"pie-Canada", "pie-Colombia",
	}, ids)

	surface, ok := b.Surfaces(energy.VariantComparison, state, false).ResolveSurface("linea-Colombia")
	require.True(t, ok)
	assert.NotEmpty(t, surface.Fingerprint())

	for _, c := range b.Charts(energy.VariantComparison, state, false) {
		if c.ChartID == "linea-Colombia" {
			assert.Equal(t, []string{"2018", "2019", "2020"}, c.Series.Labels)
		}
	}
}

func TestNothingMountedWhileLoading(t *testing.T) {
	b := newTestBuilder()
	for _, variant := range energy.Variants {
		assert.Empty(t, b.Surfaces(variant, viewstate.State{MaxYear: 2022}, true), variant)
	}
}

func TestEmbedTabMountsNoCharts(t *testing.T) {
	b := newTestBuilder()
	assert.Empty(t, b.Charts(energy.VariantTabs, viewstate.State{ActiveTab: 1, MaxYear: 2022}, false))
	assert.Len(t, b.Charts(energy.VariantTabs, viewstate.State{ActiveTab: 0, MaxYear: 2022}, false), 1)
}

func TestSectionsMountTheirCharts(t *testing.T) {
	b := newTestBuilder()
	assert.Equal(t, []string{ChartSolarGeneration}, b.Surfaces(energy.VariantSections, viewstate.State{ActiveSection: 0, MaxYear: 2022}, false).IDs())
	assert.Equal(t, []string{ChartSolarShare}, b.Surfaces(energy.VariantSections, viewstate.State{ActiveSection: 1, MaxYear: 2022}, false).IDs())
	assert.Empty(t, b.Surfaces(energy.VariantSections, viewstate.State{ActiveSection: 2, MaxYear: 2022}, false))
}

func TestBuildComparisonPage(t *testing.T) {
	b := newTestBuilder()
	vm, err := b.Build(context.Background(), energy.VariantComparison, viewstate.State{Dark: true, MaxYear: 2022}, false, 0)
	require.NoError(t, err)

	assert.True(t, vm.ShowYearFilter)
	assert.True(t, vm.DarkToggle.Pressed)
	assert.False(t, vm.ContrastToggle.Pressed)
	assert.Equal(t, theme.Palette(theme.Flags{Dark: true}), vm.Palette)
	assert.Equal(t, 2024, vm.FooterYear)
	require.Len(t, vm.Countries, 2)
	for _, panel := range vm.Countries {
		require.Len(t, panel.Charts, 3)
		for _, card := range panel.Charts {
			assert.True(t, strings.HasSuffix(card.ID, "-"+string(panel.Country)))
			assert.Contains(t, string(card.SVG), `id="`+card.ID+`"`)
			assert.Equal(t, "/dashboards/comparativo/charts/"+card.ID+".png", card.ExportURL)
		}
	}
	selected := 0
	for _, y := range vm.Years {
		if y.Selected {
			selected++
			assert.Equal(t, 2022, y.Year)
		}
	}
	assert.Equal(t, 1, selected)
}

func TestBuildLoadingPageHasNoCharts(t *testing.T) {
	b := newTestBuilder()
	vm, err := b.Build(context.Background(), energy.VariantComparison, viewstate.State{MaxYear: 2022}, true, 1200*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, vm.Loading)
	assert.Equal(t, 2, vm.RefreshSeconds)
	for _, panel := range vm.Countries {
		assert.Empty(t, panel.Charts)
	}
}

func TestBuildTabsPage(t *testing.T) {
	b := newTestBuilder()
	vm, err := b.Build(context.Background(), energy.VariantTabs, viewstate.State{ActiveTab: 2, MaxYear: 2022}, false, 0)
	require.NoError(t, err)
	require.NotNil(t, vm.ActiveTab)
	assert.True(t, vm.ActiveTab.Embed)
	assert.Equal(t, "https://app.powerbi.com/view?r=energia-generacion-solar", vm.ActiveTab.URL)
	assert.Empty(t, vm.KPIs)
	assert.Empty(t, vm.Charts)

	vm, err = b.Build(context.Background(), energy.VariantTabs, viewstate.State{ActiveTab: 3, MaxYear: 2022}, false, 0)
	require.NoError(t, err)
	assert.False(t, vm.ActiveTab.Embed)
	assert.NotEmpty(t, vm.KPIs)
	require.Len(t, vm.Charts, 1)
	assert.Equal(t, ChartOverviewSectors, vm.Charts[0].ID)
}

func TestBuildSectionsPage(t *testing.T) {
	b := newTestBuilder()
	vm, err := b.Build(context.Background(), energy.VariantSections, viewstate.State{ActiveSection: 0, MaxYear: 2019}, false, 0)
	require.NoError(t, err)
	require.NotNil(t, vm.ActiveSection)
	assert.Equal(t, "generacion", vm.ActiveSection.ID)
	assert.True(t, vm.ShowYearFilter)
	require.Len(t, vm.Charts, 1)
	assert.Contains(t, vm.Charts[0].AriaLabel, "2019")
}

type failingLine struct{}

func (failingLine) Line(int, int, []float64, []string, svg.LineOpts) (template.HTML, error) {
	return "", errors.New("no canvas")
}

func TestBuildPropagatesRenderErrors(t *testing.T) {
	renderers := SVGRenderers()
	renderers.Line = failingLine{}
	b := NewBuilder(nil, renderers)
	_, err := b.Build(context.Background(), energy.VariantComparison, viewstate.State{MaxYear: 2022}, false, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no canvas")
}

func TestTablesAndKPIs(t *testing.T) {
	b := newTestBuilder()
	tables := b.Tables(energy.VariantComparison, viewstate.State{MaxYear: 2018})
	require.Len(t, tables, 6)
	assert.Equal(t, []string{"2018"}, tables[0].Series.Labels)

	assert.Empty(t, b.KPIs(energy.VariantComparison))
	assert.Len(t, b.KPIs(energy.VariantSections), 9)
}

func TestBuildRejectsUnknownVariant(t *testing.T) {
	_, err := newTestBuilder().Build(context.Background(), energy.Variant("eolica"), viewstate.State{}, false, 0)
	assert.Error(t, err)
}

func TestEveryMountedChartExportsOnce(t *testing.T) {
	b := newTestBuilder()
	catalog := b.Catalog()
	exporter := export.NewExporter(nil, nil, nil)

	for _, variant := range energy.Variants {
		limits := viewstate.LimitsFor(catalog, variant)
		for _, year := range catalog.Years() {
			for tab := 0; tab < max(limits.Tabs, 1); tab++ {
				for section := 0; section < max(limits.Sections, 1); section++ {
					state := viewstate.State{MaxYear: year, ActiveTab: tab, ActiveSection: section}
					surfaces := b.Surfaces(variant, state, false)
					for _, id := range surfaces.IDs() {
						var downloads []string
						exporter.Export(context.Background(), surfaces, export.DownloaderFunc(func(_ context.Context, a export.Anchor) {
							downloads = append(downloads, a.Download)
						}), id)
						assert.Equal(t, []string{id + ".png"}, downloads, "%s year=%d tab=%d section=%d", id, year, tab, section)
					}
				}
			}
		}
	}
}

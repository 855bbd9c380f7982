package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energydash/energydash/internal/energy"
)

func TestWriteSeriesCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	err := WriteSeriesCSV(buf, []Table{
		{Name: "Colombia consumo", Series: energy.YearlyView([]energy.YearlyConsumptionRecord{{Year: 2018, Consumption: 150}, {Year: 2019, Consumption: 160.5}}, 2022)},
		{Name: "Colombia renovable", Series: energy.RenewableView(40)},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Serie", "Etiqueta", "Valor"}, records[0])
	assert.Equal(t, []string{"Colombia consumo", "2019", "160.5"}, records[2])
	assert.Equal(t, []string{"Colombia renovable", "No renovable", "60"}, records[4])
}

func TestWriteKPICSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteKPICSV(buf, energy.Default().OverviewKPIs()))
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, len(energy.Default().OverviewKPIs())+1)
}

type fakeRenderer struct {
	html string
}

func (f *fakeRenderer) RenderHTML(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF"), nil
}

func TestPDFExporterRender(t *testing.T) {
	renderer := &fakeRenderer{}
	exporter := &PDFExporter{Renderer: renderer}
	data, err := exporter.RenderDashboard(context.Background(), DashboardPayload{
		Title:  "Monitoreo <Solar>",
		KPIs:   []energy.KPIEntry{{Label: "Potencia pico", DisplayValue: "7,9 kW"}},
		Charts: []ChartImage{{Title: "Generación", SVG: "<svg id=\"generacion-solar\"></svg>"}},
		Tables: []Table{{Name: "Solar", Series: energy.RenewableView(68)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
	assert.Contains(t, renderer.html, "Monitoreo &lt;Solar&gt;")
	assert.Contains(t, renderer.html, "<svg id=\"generacion-solar\"></svg>")
	assert.Contains(t, renderer.html, "7,9 kW")
}

func TestPDFExporterRequiresRenderer(t *testing.T) {
	var exporter *PDFExporter
	_, err := exporter.RenderDashboard(context.Background(), DashboardPayload{})
	assert.Error(t, err)
}

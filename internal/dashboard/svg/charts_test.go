package svg

import (
	"strings"
	"testing"
)

func TestLineProducesSVG(t *testing.T) {
	html, err := Line(400, 200, []float64{150, 160, 140}, []string{"2018", "2019", "2020"}, LineOpts{
		ID:          "linea-Colombia",
		Title:       "Consumo anual",
		Description: "Consumo eléctrico por año",
		ShowDots:    true,
	})
	if err != nil {
		t.Fatalf("line renderer error: %v", err)
	}
	output := string(html)
	if !strings.HasPrefix(output, "<svg") {
		t.Fatalf("expected svg output, got %s", output)
	}
	if !strings.Contains(output, `id="linea-Colombia"`) {
		t.Fatalf("expected surface identifier on root element")
	}
	if !strings.Contains(output, "<path") {
		t.Fatalf("expected path element in svg")
	}
	if !strings.Contains(output, "aria-labelledby") {
		t.Fatalf("expected accessibility attributes")
	}
}

func TestLineEmptySeriesRendersFrame(t *testing.T) {
	html, err := Line(400, 200, nil, nil, LineOpts{Title: "Consumo anual"})
	if err != nil {
		t.Fatalf("empty series must not fail: %v", err)
	}
	output := string(html)
	if !strings.Contains(output, emptyMessage) {
		t.Fatalf("expected empty marker, got %s", output)
	}
	if strings.Contains(output, "<path") {
		t.Fatalf("empty chart must not draw a line")
	}
}

func TestLineRejectsMismatchedLabels(t *testing.T) {
	if _, err := Line(400, 200, []float64{1, 2}, []string{"a"}, LineOpts{}); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestBarsProducesSVG(t *testing.T) {
	html, err := Bars(420, 220, []float64{60, 40, 30, 20, 10}, []string{"Sector Industrial", "Residencial", "Comercial", "Transporte", "Agricultura"}, BarOpts{
		ID:          "barras-Colombia",
		Title:       "Consumo por sector",
		SeriesLabel: "Colombia",
	})
	if err != nil {
		t.Fatalf("bars renderer error: %v", err)
	}
	output := string(html)
	if got := strings.Count(output, "<rect"); got != 6 {
		t.Fatalf("expected five bars and one legend swatch, got %d rects", got)
	}
	if !strings.Contains(output, "Colombia") {
		t.Fatalf("expected legend label")
	}
}

func TestPieSlices(t *testing.T) {
	html, err := Pie(300, 260, []float64{40, 60}, []string{"Renovable", "No renovable"}, PieOpts{ID: "pie-Colombia", Title: "Energía renovable"})
	if err != nil {
		t.Fatalf("pie renderer error: %v", err)
	}
	output := string(html)
	if got := strings.Count(output, " A"); got != 2 {
		t.Fatalf("expected two arcs, got %d", got)
	}
	if !strings.Contains(output, "No renovable") {
		t.Fatalf("expected legend label")
	}
}

func TestPieFullShareDrawsCircle(t *testing.T) {
	html, err := Pie(300, 260, []float64{100, 0}, []string{"Renovable", "No renovable"}, PieOpts{})
	if err != nil {
		t.Fatalf("pie renderer error: %v", err)
	}
	if !strings.Contains(string(html), "<circle") {
		t.Fatalf("expected a full circle for a 100%% share")
	}
}

package export

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/energydash/energydash/internal/energy"
)

// HTMLRenderer converts an HTML document into PDF bytes.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// ChartImage is a chart already rendered as inline SVG.
type ChartImage struct {
	Title string
	SVG   template.HTML
}

// DashboardPayload is the snapshot of a dashboard destined for PDF.
type DashboardPayload struct {
	Title      string
	Subtitle   string
	Background string
	Foreground string
	KPIs       []energy.KPIEntry
	Charts     []ChartImage
	Tables     []Table
}

// PDFExporter renders dashboard snapshots through an HTML to PDF backend.
type PDFExporter struct {
	Renderer HTMLRenderer
}

// RenderDashboard builds the snapshot document and returns the PDF bytes.
func (p *PDFExporter) RenderDashboard(ctx context.Context, payload DashboardPayload) ([]byte, error) {
	if p == nil || p.Renderer == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	return p.Renderer.RenderHTML(ctx, BuildHTML(payload))
}

// BuildHTML lays the snapshot out as a standalone printable page.
func BuildHTML(payload DashboardPayload) string {
	bg := fallbackColor(payload.Background, "#f5f5f5")
	fg := fallbackColor(payload.Foreground, "#000")
	var b strings.Builder
	b.WriteString("<!doctype html><html lang=\"es\"><head><meta charset=\"utf-8\"><style>")
	fmt.Fprintf(&b, "body{font-family:sans-serif;margin:24px;background:%s;color:%s;}", template.HTMLEscapeString(bg), template.HTMLEscapeString(fg))
	b.WriteString("h1{font-size:20px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #999;padding:6px;text-align:right;}th,.label{text-align:left;}figure{margin:0 0 24px;page-break-inside:avoid;}svg{max-width:100%;}")
	b.WriteString("</style></head><body>")
	fmt.Fprintf(&b, "<h1>%s</h1>", template.HTMLEscapeString(payload.Title))
	if payload.Subtitle != "" {
		fmt.Fprintf(&b, "<p>%s</p>", template.HTMLEscapeString(payload.Subtitle))
	}

	if len(payload.KPIs) > 0 {
		b.WriteString("<section><h2>Indicadores</h2><table><tbody>")
		for _, kpi := range payload.KPIs {
			fmt.Fprintf(&b, "<tr><td class=\"label\">%s</td><td>%s</td></tr>", template.HTMLEscapeString(kpi.Label), template.HTMLEscapeString(kpi.DisplayValue))
		}
		b.WriteString("</tbody></table></section>")
	}

	for _, chart := range payload.Charts {
		fmt.Fprintf(&b, "<figure>%s<figcaption>%s</figcaption></figure>", chart.SVG, template.HTMLEscapeString(chart.Title))
	}

	for _, table := range payload.Tables {
		fmt.Fprintf(&b, "<section><h2>%s</h2><table><tbody>", template.HTMLEscapeString(table.Name))
		for i, value := range table.Series.Values {
			label := ""
			if i < len(table.Series.Labels) {
				label = table.Series.Labels[i]
			}
			fmt.Fprintf(&b, "<tr><td class=\"label\">%s</td><td>%s</td></tr>", template.HTMLEscapeString(label), energy.FormatValue(value))
		}
		b.WriteString("</tbody></table></section>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func fallbackColor(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

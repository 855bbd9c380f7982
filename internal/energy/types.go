package energy

// Country identifies a dataset in the comparison variant.
type Country string

// Countries shown on the comparison dashboard.
const (
	Colombia Country = "Colombia"
	Canada   Country = "Canada"
)

// DisplayName returns the heading used for the country card.
func (c Country) DisplayName() string {
	switch c {
	case Canada:
		return "🇨🇦 Canadá"
	case Colombia:
		return "🇨🇴 Colombia"
	default:
		return string(c)
	}
}

// YearlyConsumptionRecord is one point of the yearly consumption series.
type YearlyConsumptionRecord struct {
	Year        int     `json:"year" validate:"gte=1900,lte=2100"`
	Consumption float64 `json:"consumption" validate:"gte=0"`
}

// SectorLabels is the fixed label list sector breakdowns align to.
var SectorLabels = []string{"Sector Industrial", "Residencial", "Comercial", "Transporte", "Agricultura"}

// SectorBreakdown holds values positionally aligned to SectorLabels.
type SectorBreakdown []float64

// RenewableShare is a percentage in [0,100].
type RenewableShare float64

// KPIEntry is a display-formatted indicator. No arithmetic is done on it.
type KPIEntry struct {
	Label        string `json:"label" validate:"required"`
	DisplayValue string `json:"display_value" validate:"required"`
}

// TabDescriptor describes one navigation entry of the tabbed variant.
type TabDescriptor struct {
	Label       string `json:"label" validate:"required"`
	Icon        string `json:"icon"`
	ExternalURL string `json:"external_url,omitempty" validate:"omitempty,url"`
}

// IsEmbed reports whether the tab loads an external analytics page.
func (t TabDescriptor) IsEmbed() bool {
	return t.ExternalURL != ""
}

// CountryDataset groups the records charted for one country.
type CountryDataset struct {
	Country   Country                   `json:"country" validate:"required"`
	Yearly    []YearlyConsumptionRecord `json:"yearly" validate:"dive"`
	Renewable RenewableShare            `json:"renewable" validate:"gte=0,lte=100"`
	Sectors   SectorBreakdown           `json:"sectors"`
}

// Section is one panel of the sections variant.
type Section struct {
	ID    string     `json:"id" validate:"required"`
	Title string     `json:"title" validate:"required"`
	Icon  string     `json:"icon"`
	KPIs  []KPIEntry `json:"kpis" validate:"dive"`
}

// Variant names one of the dashboard flavours.
type Variant string

// Dashboard variants.
const (
	VariantComparison Variant = "comparativo"
	VariantTabs       Variant = "powerbi"
	VariantSections   Variant = "solar"
)

// Variants lists every variant in navigation order.
var Variants = []Variant{VariantComparison, VariantTabs, VariantSections}

// ParseVariant resolves a URL token to a Variant.
func ParseVariant(raw string) (Variant, bool) {
	for _, v := range Variants {
		if string(v) == raw {
			return v, true
		}
	}
	return "", false
}

// Title returns the page heading of the variant.
func (v Variant) Title() string {
	switch v {
	case VariantComparison:
		return "📊 Comparativa Energética: Renovable y Eléctrica"
	case VariantTabs:
		return "⚡ Tablero de Monitoreo Energético"
	case VariantSections:
		return "☀️ Monitoreo Solar"
	default:
		return string(v)
	}
}

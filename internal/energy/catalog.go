package energy

import (
	"fmt"
	"slices"
)

// Catalog is the static data table behind every dashboard variant. It is
// built once at package initialisation and only handed out as copies.
type Catalog struct {
	countries      []CountryDataset
	years          []int
	overview       []KPIEntry
	overviewSector SectorBreakdown
	tabs           []TabDescriptor
	sections       []Section
	solarYearly    []YearlyConsumptionRecord
	solarShare     RenewableShare
}

var defaultCatalog = mustCatalog(newDefaultCatalog())

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

func mustCatalog(c *Catalog) *Catalog {
	if err := Validate(c); err != nil {
		panic(fmt.Sprintf("energy: invalid built-in catalog: %v", err))
	}
	return c
}

func newDefaultCatalog() *Catalog {
	return &Catalog{
		countries: []CountryDataset{
			{
				Country: Colombia,
				Yearly: []YearlyConsumptionRecord{
					{Year: 2018, Consumption: 150},
					{Year: 2019, Consumption: 160},
					{Year: 2020, Consumption: 140},
					{Year: 2021, Consumption: 170},
					{Year: 2022, Consumption: 180},
				},
				Renewable: 40,
				Sectors:   SectorBreakdown{60, 40, 30, 20, 10},
			},
			{
				Country: Canada,
				Yearly: []YearlyConsumptionRecord{
					{Year: 2018, Consumption: 200},
					{Year: 2019, Consumption: 210},
					{Year: 2020, Consumption: 190},
					{Year: 2021, Consumption: 230},
					{Year: 2022, Consumption: 250},
				},
				Renewable: 55,
				Sectors:   SectorBreakdown{90, 60, 40, 30, 25},
			},
		},
		years: []int{2018, 2019, 2020, 2021, 2022},
		overview: []KPIEntry{
			{Label: "Consumo total", DisplayValue: "1.250 GWh"},
			{Label: "Participación renovable", DisplayValue: "47,5 %"},
			{Label: "Capacidad instalada", DisplayValue: "18,4 GW"},
			{Label: "Emisiones evitadas", DisplayValue: "3,2 Mt CO₂"},
		},
		overviewSector: SectorBreakdown{75, 50, 35, 25, 18},
		tabs: []TabDescriptor{
			{Label: "Resumen", Icon: "📋"},
			{Label: "Consumo eléctrico", Icon: "⚡", ExternalURL: "https://app.powerbi.com/view?r=energia-consumo-electrico"},
			{Label: "Generación solar", Icon: "☀️", ExternalURL: "https://app.powerbi.com/view?r=energia-generacion-solar"},
			{Label: "Indicadores", Icon: "📈"},
		},
		sections: []Section{
			{
				ID: "generacion", Title: "Generación", Icon: "☀️",
				KPIs: []KPIEntry{
					{Label: "Generación hoy", DisplayValue: "42,8 kWh"},
					{Label: "Potencia pico", DisplayValue: "7,9 kW"},
					{Label: "Horas solares pico", DisplayValue: "5,4 h"},
				},
			},
			{
				ID: "consumo", Title: "Consumo", Icon: "🏠",
				KPIs: []KPIEntry{
					{Label: "Consumo hoy", DisplayValue: "31,2 kWh"},
					{Label: "Autoconsumo", DisplayValue: "68 %"},
					{Label: "Inyección a red", DisplayValue: "11,6 kWh"},
				},
			},
			{
				ID: "ahorro", Title: "Ahorro", Icon: "💰",
				KPIs: []KPIEntry{
					{Label: "Ahorro mensual", DisplayValue: "$ 182.400"},
					{Label: "Retorno estimado", DisplayValue: "6,5 años"},
					{Label: "CO₂ evitado", DisplayValue: "412 kg"},
				},
			},
		},
		solarYearly: []YearlyConsumptionRecord{
			{Year: 2018, Consumption: 9.1},
			{Year: 2019, Consumption: 10.4},
			{Year: 2020, Consumption: 10.9},
			{Year: 2021, Consumption: 12.3},
			{Year: 2022, Consumption: 13.8},
		},
		solarShare: 68,
	}
}

// Countries returns the comparison datasets in display order.
func (c *Catalog) Countries() []CountryDataset {
	out := make([]CountryDataset, 0, len(c.countries))
	for _, ds := range c.countries {
		out = append(out, ds.clone())
	}
	return out
}

// Country looks up the dataset of a single country.
func (c *Catalog) Country(country Country) (CountryDataset, bool) {
	for _, ds := range c.countries {
		if ds.Country == country {
			return ds.clone(), true
		}
	}
	return CountryDataset{}, false
}

// Years returns the selectable year filter options, ascending.
func (c *Catalog) Years() []int {
	return slices.Clone(c.years)
}

// DefaultYear is the initial year filter: the latest available year.
func (c *Catalog) DefaultYear() int {
	if len(c.years) == 0 {
		return 0
	}
	return c.years[len(c.years)-1]
}

// HasYear reports whether year is one of the filter options.
func (c *Catalog) HasYear(year int) bool {
	return slices.Contains(c.years, year)
}

// OverviewKPIs returns the KPI cards of the local overview tab.
func (c *Catalog) OverviewKPIs() []KPIEntry {
	return slices.Clone(c.overview)
}

// OverviewSectors returns the sector breakdown charted on local tabs.
func (c *Catalog) OverviewSectors() SectorBreakdown {
	return slices.Clone(c.overviewSector)
}

// Tabs returns the tab strip of the tabbed variant.
func (c *Catalog) Tabs() []TabDescriptor {
	return slices.Clone(c.tabs)
}

// Sections returns the panels of the sections variant.
func (c *Catalog) Sections() []Section {
	out := make([]Section, 0, len(c.sections))
	for _, s := range c.sections {
		s.KPIs = slices.Clone(s.KPIs)
		out = append(out, s)
	}
	return out
}

// SolarYearly returns yearly solar generation in GWh.
func (c *Catalog) SolarYearly() []YearlyConsumptionRecord {
	return slices.Clone(c.solarYearly)
}

// SolarShare is the share of demand covered by solar generation.
func (c *Catalog) SolarShare() RenewableShare {
	return c.solarShare
}

func (d CountryDataset) clone() CountryDataset {
	d.Yearly = slices.Clone(d.Yearly)
	d.Sectors = slices.Clone(d.Sectors)
	return d
}

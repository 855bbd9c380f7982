package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearlyViewInclusiveAscending(t *testing.T) {
	records := []YearlyConsumptionRecord{
		{Year: 2020, Consumption: 140},
		{Year: 2018, Consumption: 150},
		{Year: 2019, Consumption: 160},
		{Year: 2021, Consumption: 170},
	}
	series := YearlyView(records, 2020)
	assert.Equal(t, []string{"2018", "2019", "2020"}, series.Labels)
	assert.Equal(t, []float64{150, 160, 140}, series.Values)
}

func TestYearlyViewEveryFilterValue(t *testing.T) {
	ds, ok := Default().Country(Colombia)
	require.True(t, ok)
	for y := 2010; y <= 2030; y++ {
		series := YearlyView(ds.Yearly, y)
		want := 0
		for _, rec := range ds.Yearly {
			if rec.Year <= y {
				want++
			}
		}
		require.Equal(t, want, series.Len(), "filter %d", y)
		require.Len(t, series.Labels, series.Len())
		for i := 1; i < len(series.Labels); i++ {
			assert.Less(t, series.Labels[i-1], series.Labels[i])
		}
	}
}

func TestYearlyViewBelowMinimumIsEmpty(t *testing.T) {
	ds, _ := Default().Country(Canada)
	series := YearlyView(ds.Yearly, 2017)
	assert.True(t, series.Empty())
	assert.NotNil(t, series.Labels)
	assert.NotNil(t, series.Values)
}

func TestYearlyViewDoesNotMutateInput(t *testing.T) {
	records := []YearlyConsumptionRecord{{Year: 2019, Consumption: 2}, {Year: 2018, Consumption: 1}}
	_ = YearlyView(records, 2022)
	assert.Equal(t, 2019, records[0].Year)
}

func TestRenewableViewSumsToHundred(t *testing.T) {
	for p := 0.0; p <= 100; p += 2.5 {
		series := RenewableView(RenewableShare(p))
		require.Equal(t, []float64{p, 100 - p}, series.Values)
		assert.InDelta(t, 100, series.Values[0]+series.Values[1], 1e-9)
		assert.Equal(t, []string{LabelRenewable, LabelNonRenewable}, series.Labels)
	}
}

func TestRenewableViewClamps(t *testing.T) {
	assert.Equal(t, []float64{0, 100}, RenewableView(-5).Values)
	assert.Equal(t, []float64{100, 0}, RenewableView(130).Values)
}

func TestSectorViewAlignsToLabels(t *testing.T) {
	series := SectorView(SectorBreakdown{60, 40, 30})
	assert.Equal(t, SectorLabels, series.Labels)
	assert.Equal(t, []float64{60, 40, 30, 0, 0}, series.Values)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "12.500", FormatValue(12500))
	assert.Equal(t, "13,8", FormatValue(13.8))
	assert.Equal(t, "40 %", FormatPercent(40))
}

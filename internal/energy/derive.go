package energy

import (
	"slices"
	"strconv"
)

// Series is the label/value pair a chart widget consumes.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Values)
}

// Empty reports whether the series has no points.
func (s Series) Empty() bool {
	return len(s.Values) == 0
}

// Renewable pie labels.
const (
	LabelRenewable    = "Renovable"
	LabelNonRenewable = "No renovable"
)

// YearlyView keeps the records with Year <= maxYear in ascending year order.
// A filter below the first year yields empty, non-nil sequences.
func YearlyView(records []YearlyConsumptionRecord, maxYear int) Series {
	kept := make([]YearlyConsumptionRecord, 0, len(records))
	for _, rec := range records {
		if rec.Year <= maxYear {
			kept = append(kept, rec)
		}
	}
	slices.SortStableFunc(kept, func(a, b YearlyConsumptionRecord) int {
		return a.Year - b.Year
	})
	out := Series{Labels: make([]string, 0, len(kept)), Values: make([]float64, 0, len(kept))}
	for _, rec := range kept {
		out.Labels = append(out.Labels, strconv.Itoa(rec.Year))
		out.Values = append(out.Values, rec.Consumption)
	}
	return out
}

// SectorView pairs a breakdown with SectorLabels. Extra values beyond the
// label list are ignored; missing values are reported as zero.
func SectorView(breakdown SectorBreakdown) Series {
	out := Series{Labels: slices.Clone(SectorLabels), Values: make([]float64, len(SectorLabels))}
	copy(out.Values, breakdown)
	return out
}

// RenewableView splits a share into [p, 100-p]. Out-of-range shares are
// clamped to [0,100].
func RenewableView(share RenewableShare) Series {
	p := float64(share)
	switch {
	case p < 0:
		p = 0
	case p > 100:
		p = 100
	}
	return Series{
		Labels: []string{LabelRenewable, LabelNonRenewable},
		Values: []float64{p, 100 - p},
	}
}

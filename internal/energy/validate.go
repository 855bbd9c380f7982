package energy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidDataset reports a catalog that breaks the record invariants.
var ErrInvalidDataset = errors.New("energy: invalid dataset")

var validate = validator.New()

// Validate checks field constraints and the ordering invariants of every
// dataset in the catalog.
func Validate(c *Catalog) error {
	if c == nil {
		return fmt.Errorf("%w: catalog missing", ErrInvalidDataset)
	}
	for _, ds := range c.countries {
		if err := validate.Struct(ds); err != nil {
			return fmt.Errorf("%w: %s: %s", ErrInvalidDataset, ds.Country, describe(err))
		}
		if err := checkYearly(ds.Yearly); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidDataset, ds.Country, err)
		}
		if len(ds.Sectors) != len(SectorLabels) {
			return fmt.Errorf("%w: %s: %d sector values for %d labels", ErrInvalidDataset, ds.Country, len(ds.Sectors), len(SectorLabels))
		}
	}
	if err := checkYearly(c.solarYearly); err != nil {
		return fmt.Errorf("%w: solar: %v", ErrInvalidDataset, err)
	}
	if err := validate.Var(float64(c.solarShare), "gte=0,lte=100"); err != nil {
		return fmt.Errorf("%w: solar share: %s", ErrInvalidDataset, describe(err))
	}
	if len(c.overviewSector) != len(SectorLabels) {
		return fmt.Errorf("%w: overview: %d sector values for %d labels", ErrInvalidDataset, len(c.overviewSector), len(SectorLabels))
	}
	for i := 1; i < len(c.years); i++ {
		if c.years[i] <= c.years[i-1] {
			return fmt.Errorf("%w: year options not strictly ascending", ErrInvalidDataset)
		}
	}
	for _, kpi := range c.overview {
		if err := validate.Struct(kpi); err != nil {
			return fmt.Errorf("%w: overview kpi: %s", ErrInvalidDataset, describe(err))
		}
	}
	for _, tab := range c.tabs {
		if err := validate.Struct(tab); err != nil {
			return fmt.Errorf("%w: tab %q: %s", ErrInvalidDataset, tab.Label, describe(err))
		}
	}
	seen := make(map[string]struct{}, len(c.sections))
	for _, s := range c.sections {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("%w: section %q: %s", ErrInvalidDataset, s.ID, describe(err))
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidDataset, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

func checkYearly(records []YearlyConsumptionRecord) error {
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return fmt.Errorf("record %d: %s", i, describe(err))
		}
		if i > 0 && rec.Year <= records[i-1].Year {
			return fmt.Errorf("year %d out of order or duplicated", rec.Year)
		}
	}
	return nil
}

func describe(err error) string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

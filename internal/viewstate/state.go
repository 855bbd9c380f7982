// Package viewstate holds the UI state of mounted dashboard views.
package viewstate

import (
	"errors"
	"slices"

	"github.com/energydash/energydash/internal/energy"
	"github.com/energydash/energydash/internal/theme"
)

var (
	// ErrInvalidYear is returned when a year outside the filter options is selected.
	ErrInvalidYear = errors.New("viewstate: year not offered")
	// ErrInvalidIndex is returned when a tab or section index is out of range.
	ErrInvalidIndex = errors.New("viewstate: index out of range")
	// ErrUnmounted is returned when a transition targets a disposed view.
	ErrUnmounted = errors.New("viewstate: view unmounted")
)

// State is the set of independent slots of one view.
type State struct {
	Dark          bool `json:"dark"`
	HighContrast  bool `json:"high_contrast"`
	MaxYear       int  `json:"max_year"`
	ActiveTab     int  `json:"active_tab"`
	ActiveSection int  `json:"active_section"`
}

// Flags returns the theme toggles.
func (s State) Flags() theme.Flags {
	return theme.Flags{Dark: s.Dark, HighContrast: s.HighContrast}
}

// Limits bound the values the slots may take.
type Limits struct {
	Years    []int
	Tabs     int
	Sections int
}

// LimitsFor derives the slot bounds of a variant from the catalog.
func LimitsFor(c *energy.Catalog, variant energy.Variant) Limits {
	l := Limits{Years: c.Years()}
	switch variant {
	case energy.VariantTabs:
		l.Tabs = len(c.Tabs())
	case energy.VariantSections:
		l.Sections = len(c.Sections())
	}
	return l
}

// Initial returns the state a freshly mounted view starts with.
func Initial(c *energy.Catalog) State {
	return State{MaxYear: c.DefaultYear()}
}

func (l Limits) allowsYear(year int) bool {
	return slices.Contains(l.Years, year)
}

package viewstate

import (
	"fmt"
	"sync"
	"time"

	"github.com/energydash/energydash/internal/energy"
	"github.com/energydash/energydash/internal/platform/timer"
)

// View is one mounted dashboard. Every slot transition changes exactly one
// slot; the loading flag drops to false once, delay after Mount.
type View struct {
	mu        sync.Mutex
	variant   energy.Variant
	limits    Limits
	state     State
	loading   bool
	mountedAt time.Time
	readyAt   time.Time
	lastSeen  time.Time
	task      *timer.OneShot
	unmounted bool
	now       func() time.Time
}

// Mount creates a view in the loading state and schedules the flip.
func Mount(variant energy.Variant, limits Limits, initial State, delay time.Duration) *View {
	return mountWithClock(variant, limits, initial, delay, time.Now)
}

func mountWithClock(variant energy.Variant, limits Limits, initial State, delay time.Duration, now func() time.Time) *View {
	mounted := now()
	v := &View{
		variant:   variant,
		limits:    limits,
		state:     initial,
		loading:   true,
		mountedAt: mounted,
		readyAt:   mounted.Add(delay),
		lastSeen:  mounted,
		now:       now,
	}
	v.mu.Lock()
	v.task = timer.After(delay, v.finishLoading)
	v.mu.Unlock()
	return v
}

func (v *View) finishLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted {
		return
	}
	v.loading = false
}

// Variant returns the dashboard flavour the view renders.
func (v *View) Variant() energy.Variant {
	return v.variant
}

// Loading reports whether the cosmetic loading indicator is showing.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// ReadyIn returns the time left until loading ends, zero once it has.
func (v *View) ReadyIn() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.loading {
		return 0
	}
	left := v.readyAt.Sub(v.now())
	if left < 0 {
		return 0
	}
	return left
}

// State returns a snapshot of the slots.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastSeen = v.now()
	return v.state
}

// ToggleDark flips the dark-mode slot.
func (v *View) ToggleDark() (State, error) {
	return v.apply(func(s *State) error {
		s.Dark = !s.Dark
		return nil
	})
}

// ToggleHighContrast flips the high-contrast slot.
func (v *View) ToggleHighContrast() (State, error) {
	return v.apply(func(s *State) error {
		s.HighContrast = !s.HighContrast
		return nil
	})
}

// SetMaxYear sets the inclusive year bound of yearly charts.
func (v *View) SetMaxYear(year int) (State, error) {
	return v.apply(func(s *State) error {
		if !v.limits.allowsYear(year) {
			return fmt.Errorf("%w: %d", ErrInvalidYear, year)
		}
		s.MaxYear = year
		return nil
	})
}

// SelectTab activates a tab by index.
func (v *View) SelectTab(index int) (State, error) {
	return v.apply(func(s *State) error {
		if index < 0 || index >= v.limits.Tabs {
			return fmt.Errorf("%w: tab %d", ErrInvalidIndex, index)
		}
		s.ActiveTab = index
		return nil
	})
}

// SelectSection activates a section by index.
func (v *View) SelectSection(index int) (State, error) {
	return v.apply(func(s *State) error {
		if index < 0 || index >= v.limits.Sections {
			return fmt.Errorf("%w: section %d", ErrInvalidIndex, index)
		}
		s.ActiveSection = index
		return nil
	})
}

func (v *View) apply(change func(*State) error) (State, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted {
		return v.state, ErrUnmounted
	}
	next := v.state
	if err := change(&next); err != nil {
		return v.state, err
	}
	v.state = next
	v.lastSeen = v.now()
	return v.state, nil
}

// Unmount disposes the pending loading flip. The view accepts no further
// transitions afterwards.
func (v *View) Unmount() {
	v.mu.Lock()
	task := v.task
	v.unmounted = true
	v.mu.Unlock()
	task.Dispose()
}

// Unmounted reports whether Unmount was called.
func (v *View) Unmounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unmounted
}

func (v *View) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// Package timer provides one-shot scheduled callbacks with explicit disposal.
package timer

import (
	"sync"
	"time"
)

// OneShot runs a callback once after a delay unless disposed first.
type OneShot struct {
	mu       sync.Mutex
	timer    *time.Timer
	fired    bool
	disposed bool
}

// After schedules fn to run once after d. A non-positive d still runs fn
// asynchronously.
func After(d time.Duration, fn func()) *OneShot {
	o := &OneShot{}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.timer = time.AfterFunc(d, func() {
		o.mu.Lock()
		if o.disposed || o.fired {
			o.mu.Unlock()
			return
		}
		o.fired = true
		o.mu.Unlock()
		fn()
	})
	return o
}

// Dispose cancels the pending callback. It reports true when the callback
// had not fired yet. Safe to call more than once and on a nil receiver.
func (o *OneShot) Dispose() bool {
	if o == nil {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disposed {
		return false
	}
	o.disposed = true
	if o.timer != nil {
		o.timer.Stop()
	}
	return !o.fired
}

// Fired reports whether the callback has started.
func (o *OneShot) Fired() bool {
	if o == nil {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fired
}

// Disposed reports whether Dispose was called.
func (o *OneShot) Disposed() bool {
	if o == nil {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.disposed
}

package viewstate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/energydash/energydash/internal/energy"
)

type viewKey struct {
	session string
	variant energy.Variant
}

// Registry owns the mounted views, one per session and variant.
type Registry struct {
	mu      sync.Mutex
	views   map[viewKey]*View
	catalog *energy.Catalog
	delay   time.Duration
	idleTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewRegistry constructs a registry mounting views with the given loading delay.
func NewRegistry(catalog *energy.Catalog, delay, idleTTL time.Duration, logger *slog.Logger) *Registry {
	if catalog == nil {
		catalog = energy.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		views:   make(map[viewKey]*View),
		catalog: catalog,
		delay:   delay,
		idleTTL: idleTTL,
		logger:  logger,
		now:     time.Now,
	}
}

// View returns the mounted view of a session, mounting it on first access.
func (r *Registry) View(sessionID string, variant energy.Variant) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := viewKey{session: sessionID, variant: variant}
	if v, ok := r.views[key]; ok {
		return v
	}
	v := mountWithClock(variant, LimitsFor(r.catalog, variant), Initial(r.catalog), r.delay, r.now)
	r.views[key] = v
	r.logger.Debug("view mounted", slog.String("variant", string(variant)))
	return v
}

// Lookup returns an already mounted view.
func (r *Registry) Lookup(sessionID string, variant energy.Variant) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[viewKey{session: sessionID, variant: variant}]
	return v, ok
}

// Unmount tears a view down, releasing its pending timer.
func (r *Registry) Unmount(sessionID string, variant energy.Variant) bool {
	r.mu.Lock()
	key := viewKey{session: sessionID, variant: variant}
	v, ok := r.views[key]
	delete(r.views, key)
	r.mu.Unlock()
	if ok {
		v.Unmount()
	}
	return ok
}

// Sweep unmounts views idle for longer than the idle TTL and returns how
// many were removed.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)
	var stale []*View
	r.mu.Lock()
	for key, v := range r.views {
		if v.idleSince().Before(cutoff) {
			stale = append(stale, v)
			delete(r.views, key)
		}
	}
	r.mu.Unlock()
	for _, v := range stale {
		v.Unmount()
	}
	return len(stale)
}

// Run sweeps idle views every interval until ctx is cancelled, then closes
// the registry.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("swept idle views", slog.Int("count", n))
			}
		}
	}
}

// Close unmounts every view.
func (r *Registry) Close() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[viewKey]*View)
	r.mu.Unlock()
	for _, v := range views {
		v.Unmount()
	}
}

// Len returns the number of mounted views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Catalog exposes the catalog views are bounded by.
func (r *Registry) Catalog() *energy.Catalog {
	return r.catalog
}

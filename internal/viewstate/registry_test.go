package viewstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energydash/energydash/internal/energy"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRegistryMountsOncePerSessionAndVariant(t *testing.T) {
	reg := NewRegistry(nil, time.Hour, time.Hour, nil)
	t.Cleanup(reg.Close)

	a := reg.View("s1", energy.VariantComparison)
	b := reg.View("s1", energy.VariantComparison)
	c := reg.View("s1", energy.VariantSections)
	d := reg.View("s2", energy.VariantComparison)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.NotSame(t, a, d)
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, energy.Default().DefaultYear(), a.State().MaxYear)
}

func TestRegistryUnmountDisposesView(t *testing.T) {
	reg := NewRegistry(nil, time.Hour, time.Hour, nil)
	v := reg.View("s1", energy.VariantTabs)

	assert.True(t, reg.Unmount("s1", energy.VariantTabs))
	assert.False(t, reg.Unmount("s1", energy.VariantTabs))
	assert.True(t, v.Unmounted())
	_, ok := reg.Lookup("s1", energy.VariantTabs)
	assert.False(t, ok)

	fresh := reg.View("s1", energy.VariantTabs)
	assert.NotSame(t, v, fresh)
	assert.True(t, fresh.Loading(), "remounting restarts the loading phase")
	reg.Close()
}

func TestRegistrySweepRemovesIdleViews(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	reg := NewRegistry(nil, time.Hour, 10*time.Minute, nil)
	reg.now = clock.Now
	t.Cleanup(reg.Close)

	idle := reg.View("idle", energy.VariantComparison)
	clock.Advance(8 * time.Minute)
	active := reg.View("active", energy.VariantComparison)
	clock.Advance(5 * time.Minute)

	assert.Equal(t, 1, reg.Sweep())
	assert.True(t, idle.Unmounted())
	assert.False(t, active.Unmounted())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryRunClosesOnCancel(t *testing.T) {
	reg := NewRegistry(nil, time.Hour, time.Hour, nil)
	v := reg.View("s1", energy.VariantComparison)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "registry did not stop")
	}
	assert.True(t, v.Unmounted())
	assert.Zero(t, reg.Len())
}

package refresh

import (
	"sync"
	"testing"
	"time"
)

// memStore is an in-memory TimestampStore for tests.
type memStore struct {
	mu    sync.Mutex
	t     time.Time
	ok    bool
	saves int
}

func (m *memStore) LoadLastGenerated() (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t, m.ok, nil
}

func (m *memStore) SaveLastGenerated(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t, m.ok = t, true
	m.saves++
	return nil
}

func newTestController(t *testing.T, store TimestampStore, interval time.Duration) *Controller {
	t.Helper()
	c, err := NewController(store, interval)
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return c
}

func TestController_NeverGenerated(t *testing.T) {
	c := newTestController(t, &memStore{}, 24*time.Hour)

	if c.State() != NeverGenerated {
		t.Errorf("expected never-generated, got %s", c.State())
	}
	if !c.ShouldGenerate(false) {
		t.Error("never-generated state must allow generation")
	}
}

func TestController_FreshGating(t *testing.T) {
	now := time.Now()
	store := &memStore{t: now.Add(-23 * time.Hour), ok: true}
	c := newTestController(t, store, 24*time.Hour)
	c.now = func() time.Time { return now }

	if c.State() != Fresh {
		t.Errorf("23h elapsed of 24h interval should be fresh, got %s", c.State())
	}
	if c.ShouldGenerate(false) {
		t.Error("fresh state must gate non-forced generation")
	}
}

func TestController_StaleAllowsGeneration(t *testing.T) {
	now := time.Now()
	store := &memStore{t: now.Add(-25 * time.Hour), ok: true}
	c := newTestController(t, store, 24*time.Hour)
	c.now = func() time.Time { return now }

	if c.State() != Stale {
		t.Errorf("25h elapsed of 24h interval should be stale, got %s", c.State())
	}
	if !c.ShouldGenerate(false) {
		t.Error("stale state must allow generation")
	}
}

func TestController_ExactBoundaryIsStale(t *testing.T) {
	now := time.Now()
	store := &memStore{t: now.Add(-24 * time.Hour), ok: true}
	c := newTestController(t, store, 24*time.Hour)
	c.now = func() time.Time { return now }

	if c.State() != Stale {
		t.Errorf("elapsed == interval should be stale, got %s", c.State())
	}
}

func TestController_ForceBypassesCooldown(t *testing.T) {
	now := time.Now()
	store := &memStore{t: now.Add(-time.Hour), ok: true}
	c := newTestController(t, store, 24*time.Hour)
	c.now = func() time.Time { return now }

	if !c.ShouldGenerate(true) {
		t.Error("forced request must be honored in the fresh state")
	}
}

func TestController_MarkGeneratedPersists(t *testing.T) {
	store := &memStore{}
	c := newTestController(t, store, 24*time.Hour)

	genTime := time.Now()
	if err := c.MarkGenerated(genTime); err != nil {
		t.Fatalf("MarkGenerated failed: %v", err)
	}

	if store.saves != 1 {
		t.Errorf("expected 1 save, got %d", store.saves)
	}
	last, ok := c.LastGenerated()
	if !ok || !last.Equal(genTime) {
		t.Errorf("expected last=%v, got %v (ok=%v)", genTime, last, ok)
	}
	if c.now().Sub(genTime) < 24*time.Hour && c.State() != Fresh {
		t.Errorf("state after generation should be fresh, got %s", c.State())
	}
}

func TestController_LoadsPersistedTimestamp(t *testing.T) {
	saved := time.Now().Add(-30 * time.Hour)
	store := &memStore{t: saved, ok: true}
	c := newTestController(t, store, 24*time.Hour)

	last, ok := c.LastGenerated()
	if !ok || !last.Equal(saved) {
		t.Errorf("expected persisted timestamp %v, got %v (ok=%v)", saved, last, ok)
	}
}

func TestController_RejectsNonPositiveInterval(t *testing.T) {
	if _, err := NewController(&memStore{}, 0); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestController_AutoRefreshTriggersWhenStale(t *testing.T) {
	now := time.Now()
	store := &memStore{t: now.Add(-time.Hour), ok: true}
	c := newTestController(t, store, 20*time.Millisecond)
	// One hour elapsed against a 20ms interval: permanently stale.

	var mu sync.Mutex
	calls := 0
	c.StartAutoRefresh(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	defer c.Stop()

	time.Sleep(70 * time.Millisecond)
	mu.Lock()
	got := calls
	mu.Unlock()
	if got == 0 {
		t.Error("auto-refresh should have triggered at least once while stale")
	}
}

func TestController_AutoRefreshStops(t *testing.T) {
	store := &memStore{t: time.Now().Add(-time.Hour), ok: true}
	c := newTestController(t, store, 20*time.Millisecond)

	var mu sync.Mutex
	calls := 0
	c.StartAutoRefresh(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	time.Sleep(30 * time.Millisecond)
	c.Stop()
	mu.Lock()
	after := calls
	mu.Unlock()

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	final := calls
	mu.Unlock()

	if final > after+1 {
		t.Errorf("auto-refresh kept firing after Stop: %d -> %d", after, final)
	}

	// Double stop must not panic.
	c.Stop()
}

func TestController_AutoRefreshSkipsWhenFresh(t *testing.T) {
	store := &memStore{}
	c := newTestController(t, store, 40*time.Millisecond)
	_ = c.MarkGenerated(time.Now().Add(time.Hour)) // generated "in the future": always fresh

	var mu sync.Mutex
	calls := 0
	c.StartAutoRefresh(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	defer c.Stop()

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	got := calls
	mu.Unlock()
	if got != 0 {
		t.Errorf("auto-refresh must not trigger while fresh, got %d calls", got)
	}
}

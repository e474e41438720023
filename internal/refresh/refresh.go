package refresh

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// State describes where the controller sits in its refresh cycle.
type State int

const (
	// NeverGenerated means no brief has been produced yet.
	NeverGenerated State = iota
	// Fresh means the last brief is younger than the refresh interval.
	Fresh
	// Stale means the refresh interval has elapsed since the last brief.
	Stale
)

func (s State) String() string {
	switch s {
	case NeverGenerated:
		return "never-generated"
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// TimestampStore persists the last-generated timestamp across sessions.
// Load reports ok=false when no timestamp has ever been saved.
type TimestampStore interface {
	LoadLastGenerated() (t time.Time, ok bool, err error)
	SaveLastGenerated(t time.Time) error
}

// Controller decides whether a new brief must be produced, given the
// configured refresh interval and the persisted last-generation time.
// It owns no pipeline logic; callers consult ShouldGenerate before
// running the pipeline and call MarkGenerated after an accepted run.
type Controller struct {
	store    TimestampStore
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	last      time.Time
	hasLast   bool
	stopAuto  chan struct{}
	autoAlive bool
}

// NewController creates a controller, loading any persisted timestamp.
func NewController(store TimestampStore, interval time.Duration) (*Controller, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %v", interval)
	}

	c := &Controller{
		store:    store,
		interval: interval,
		now:      time.Now,
	}

	if store != nil {
		last, ok, err := store.LoadLastGenerated()
		if err != nil {
			return nil, fmt.Errorf("failed to load last-generated timestamp: %w", err)
		}
		c.last, c.hasLast = last, ok
	}

	return c, nil
}

// State reports the current refresh state, computed from wall clock and
// the stored timestamp on every call.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	if !c.hasLast {
		return NeverGenerated
	}
	if c.now().Sub(c.last) >= c.interval {
		return Stale
	}
	return Fresh
}

// ShouldGenerate reports whether a new brief must be produced. A forced
// request is honored even when Fresh; this is a deliberate cooldown
// bypass, not a bug.
func (c *Controller) ShouldGenerate(force bool) bool {
	if force {
		return true
	}
	return c.State() != Fresh
}

// MarkGenerated records an accepted generation at t and persists it.
func (c *Controller) MarkGenerated(t time.Time) error {
	c.mu.Lock()
	c.last, c.hasLast = t, true
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.SaveLastGenerated(t); err != nil {
			return fmt.Errorf("failed to persist last-generated timestamp: %w", err)
		}
	}
	return nil
}

// LastGenerated returns the recorded generation time, with ok=false
// before the first accepted generation.
func (c *Controller) LastGenerated() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.hasLast
}

// StartAutoRefresh schedules a periodic check (period = the refresh
// interval) that invokes generate only when the state is Stale.
// Stop tears the timer down; starting twice is a no-op.
func (c *Controller) StartAutoRefresh(generate func()) {
	c.mu.Lock()
	if c.autoAlive {
		c.mu.Unlock()
		return
	}
	c.autoAlive = true
	c.stopAuto = make(chan struct{})
	stop := c.stopAuto
	c.mu.Unlock()

	ticker := time.NewTicker(c.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if c.State() == Stale {
					log.Info().Str("state", Stale.String()).Msg("Auto-refresh triggering generation")
					generate()
				}
			}
		}
	}()
}

// Stop cancels the auto-refresh timer. Safe to call multiple times and
// without a prior StartAutoRefresh.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.autoAlive {
		return
	}
	c.autoAlive = false
	close(c.stopAuto)
}

package streak

import (
	"sync"

	"github.com/josephgoksu/streakwing/internal/clock"
)

// Guard keeps two registration runs in one process from overlapping and
// remembers which (streak, day) pairs have already been claimed today.
// Construct one per process and share it between every trigger.
type Guard struct {
	mu      sync.Mutex
	running bool
	date    clock.CivilDate
	claimed map[string]struct{}
}

// NewGuard returns an idle Guard.
func NewGuard() *Guard {
	return &Guard{claimed: make(map[string]struct{})}
}

// Acquire starts a run for today. If another run is in progress it returns ok=false.
// Otherwise the caller must call release exactly once when the run ends;
// extra calls are harmless.
func (g *Guard) Acquire(today clock.CivilDate) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return func() {}, false
	}
	g.running = true
	if g.date != today {
		g.claimed = make(map[string]struct{})
		g.date = today
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.running = false
			g.mu.Unlock()
		})
	}, true
}

// Claim records (id, today) and reports whether this call made the claim.
func (g *Guard) Claim(id string, today clock.CivilDate) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.date != today {
		g.claimed = make(map[string]struct{})
		g.date = today
	}
	if _, ok := g.claimed[id]; ok {
		return false
	}
	g.claimed[id] = struct{}{}
	return true
}

// Forget drops the claim on (id, today) so a corrected streak can be processed again.
func (g *Guard) Forget(id string, today clock.CivilDate) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.date == today {
		delete(g.claimed, id)
	}
}

// Running reports whether a run currently holds the guard.
func (g *Guard) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

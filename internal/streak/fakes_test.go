package streak

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/josephgoksu/streakwing/internal/clock"
	"github.com/josephgoksu/streakwing/internal/kv"
	"github.com/josephgoksu/streakwing/models"
	"github.com/josephgoksu/streakwing/store"
	"github.com/josephgoksu/streakwing/types"
)

// fakeGateway records every call and can fail or block per streak.
type fakeGateway struct {
	mu     sync.Mutex
	calls  []models.Streak
	tokens []string
	fail   map[string]error
	// block, when set, is received from before returning.
	block   chan struct{}
	entered chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{fail: make(map[string]error)}
}

func (g *fakeGateway) CreateDailyTask(ctx context.Context, token string, s models.Streak) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, s)
	g.tokens = append(g.tokens, token)
	err := g.fail[s.ID]
	block, entered := g.block, g.entered
	g.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return "task-" + s.ID, nil
}

func (g *fakeGateway) Calls() []models.Streak {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Streak(nil), g.calls...)
}

// failingPatchStore fails Patch for the listed ids.
type failingPatchStore struct {
	store.StreakStore
	failIDs map[string]bool
}

func (s *failingPatchStore) Patch(ctx context.Context, id string, p models.StreakPatch) (models.Streak, error) {
	if s.failIDs[id] {
		return models.Streak{}, errors.New("disk full")
	}
	return s.StreakStore.Patch(ctx, id, p)
}

func fixedClock(instant string) *clock.Resolver {
	t, err := time.Parse(time.RFC3339, instant)
	if err != nil {
		panic(err)
	}
	return clock.NewResolver(clock.WithNow(func() time.Time { return t }))
}

func noSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	var mu sync.Mutex
	return func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		defer mu.Unlock()
		if delays != nil {
			*delays = append(*delays, d)
		}
		return ctx.Err()
	}
}

func seedStore(ctx context.Context, streaks ...models.Streak) *store.KVStreakStore {
	st := store.NewKVStreakStore(kv.NewMemoryStore(), "")
	for _, s := range streaks {
		if err := st.Insert(ctx, s); err != nil {
			panic(err)
		}
	}
	return st
}

func streakAt(id string, day int, last clock.CivilDate) models.Streak {
	s := models.NewStreak(id, "Habit "+id, "", models.PriorityNormal, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), last)
	s.CurrentDay = day
	return s
}

var testPrefs = StaticPreferences(types.Preferences{Timezone: "UTC", Credential: "tok"})

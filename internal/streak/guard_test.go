package streak

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_AcquireIsExclusive(t *testing.T) {
	g := NewGuard()
	release, ok := g.Acquire("2024-01-02")
	require.True(t, ok)

	_, ok = g.Acquire("2024-01-02")
	assert.False(t, ok)

	release()
	release()
	_, ok = g.Acquire("2024-01-02")
	assert.True(t, ok, "released guard can be acquired again")
}

func TestGuard_ClaimIsTestAndSet(t *testing.T) {
	g := NewGuard()
	assert.True(t, g.Claim("a", "2024-01-02"))
	assert.False(t, g.Claim("a", "2024-01-02"))
	assert.True(t, g.Claim("b", "2024-01-02"))

	g.Forget("a", "2024-01-02")
	assert.True(t, g.Claim("a", "2024-01-02"))
}

func TestGuard_NewDayClearsClaims(t *testing.T) {
	g := NewGuard()
	release, ok := g.Acquire("2024-01-02")
	require.True(t, ok)
	require.True(t, g.Claim("a", "2024-01-02"))
	release()

	release, ok = g.Acquire("2024-01-03")
	require.True(t, ok)
	defer release()
	assert.True(t, g.Claim("a", "2024-01-03"))
}

func TestGuard_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	g := NewGuard()
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Claim("same", "2024-01-02") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

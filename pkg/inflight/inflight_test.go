package inflight

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AcquireReleaseCycle(t *testing.T) {
	r := NewRegistry()

	require.True(t, r.TryAcquire("k1"))
	assert.False(t, r.TryAcquire("k1"), "second acquire while held must fail")
	assert.Equal(t, 1, r.Len())

	r.Release("k1")
	assert.Equal(t, 0, r.Len())
	assert.True(t, r.TryAcquire("k1"), "key must be acquirable again after release")
}

func TestRegistry_IndependentKeys(t *testing.T) {
	r := NewRegistry()
	require.True(t, r.TryAcquire("k1"))
	require.True(t, r.TryAcquire("k2"))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ConcurrentAcquireSingleWinner(t *testing.T) {
	r := NewRegistry()

	var winners int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if r.TryAcquire("contested") {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), winners)
}

func TestRegistry_ReleaseWithoutHoldPanics(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() { r.Release("never-acquired") })
}

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/3-lines-studio/postpage/internal/clock"
	"github.com/3-lines-studio/postpage/internal/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var start = time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC)

type fakeGenerator struct {
	clock   *clock.Stub
	calls   atomic.Int32
	mu      sync.Mutex
	found   bool
	err     error
	version int
	gate    chan struct{}
}

func (g *fakeGenerator) generate(ctx context.Context, slug string) (core.PageResult, error) {
	g.calls.Add(1)
	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return core.PageResult{}, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return core.PageResult{}, g.err
	}
	g.version++
	result := core.PageResult{Slug: slug, GeneratedAt: g.clock.Now(), StaleAfter: 30 * time.Minute}
	if g.found {
		result.Outcome = core.OutcomeRendered
		result.HTML = []byte{byte('0' + g.version)}
	}
	return result, nil
}

func (g *fakeGenerator) set(found bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.found = found
	g.err = err
}

func newFixture(found bool) (*PageCache, *fakeGenerator, *clock.Stub) {
	stub := clock.NewStub(start)
	gen := &fakeGenerator{clock: stub, found: found}
	return New(gen.generate, WithClock(stub)), gen, stub
}

func waitForCalls(t *testing.T, gen *fakeGenerator, want int32) {
	t.Helper()
	require.Eventually(t, func() bool { return gen.calls.Load() >= want }, time.Second, 5*time.Millisecond)
}

func TestGetGeneratesOnMiss(t *testing.T) {
	c, gen, _ := newFixture(true)
	defer c.Close()

	result, err := c.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, result.Found())
	assert.Equal(t, "1", string(result.HTML))
	assert.Equal(t, int32(1), gen.calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestGetServesFreshWithoutRegenerating(t *testing.T) {
	c, gen, stub := newFixture(true)
	defer c.Close()

	_, err := c.Get(context.Background(), "a")
	require.NoError(t, err)

	stub.Advance(29 * time.Minute)
	result, err := c.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(result.HTML))
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestGetServesStaleWhileRevalidating(t *testing.T) {
	c, gen, stub := newFixture(true)
	defer c.Close()

	_, err := c.Get(context.Background(), "a")
	require.NoError(t, err)

	stub.Advance(31 * time.Minute)
	result, err := c.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(result.HTML), "stale page is served immediately")

	waitForCalls(t, gen, 2)
	require.Eventually(t, func() bool {
		result, err := c.Get(context.Background(), "a")
		return err == nil && string(result.HTML) == "2"
	}, time.Second, 5*time.Millisecond)
}

func TestNotFoundIsNotCached(t *testing.T) {
	c, gen, _ := newFixture(false)
	defer c.Close()

	for i := 0; i < 2; i++ {
		result, err := c.Get(context.Background(), "missing-post")
		require.NoError(t, err)
		assert.False(t, result.Found())
	}
	assert.Equal(t, int32(2), gen.calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestRevalidationToNotFoundEvicts(t *testing.T) {
	c, gen, stub := newFixture(true)
	defer c.Close()

	_, err := c.Get(context.Background(), "a")
	require.NoError(t, err)

	gen.set(false, nil)
	stub.Advance(time.Hour)
	_, err = c.Get(context.Background(), "a")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRevalidationErrorKeepsStalePage(t *testing.T) {
	c, gen, stub := newFixture(true)
	defer c.Close()

	_, err := c.Get(context.Background(), "a")
	require.NoError(t, err)

	gen.set(true, errors.New("template broke"))
	stub.Advance(time.Hour)
	_, err = c.Get(context.Background(), "a")
	require.NoError(t, err)
	waitForCalls(t, gen, 2)

	c.Close()
	assert.Equal(t, 1, c.Len())
}

func TestConcurrentMissesShareOneGeneration(t *testing.T) {
	stub := clock.NewStub(start)
	gen := &fakeGenerator{clock: stub, found: true, gate: make(chan struct{})}
	c := New(gen.generate, WithClock(stub))
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := c.Get(context.Background(), "a")
			assert.NoError(t, err)
			assert.True(t, result.Found())
		}()
	}

	waitForCalls(t, gen, 1)
	time.Sleep(20 * time.Millisecond)
	close(gen.gate)
	wg.Wait()

	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestGetRespectsCallerCancellation(t *testing.T) {
	stub := clock.NewStub(start)
	gen := &fakeGenerator{clock: stub, found: true, gate: make(chan struct{})}
	c := New(gen.generate, WithClock(stub))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)

	c.Close()
}

func TestRefreshForcesRegeneration(t *testing.T) {
	c, gen, _ := newFixture(true)
	defer c.Close()

	_, err := c.Get(context.Background(), "a")
	require.NoError(t, err)

	result, err := c.Refresh(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "2", string(result.HTML))
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestWarm(t *testing.T) {
	c, gen, _ := newFixture(true)
	defer c.Close()

	rendered, err := c.Warm(context.Background(), []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, rendered)
	assert.Equal(t, int32(3), gen.calls.Load())
	assert.Equal(t, 3, c.Len())
}

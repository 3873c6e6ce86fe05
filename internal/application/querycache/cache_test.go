package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newCache(staleTime time.Duration) (*Cache, *clock) {
	c := New(staleTime, zap.NewNop())
	clk := &clock{t: time.Date(2030, 1, 2, 12, 0, 0, 0, time.UTC)}
	c.now = clk.now
	return c, clk
}

func counting(calls *int32, value interface{}) Loader {
	return func(context.Context) (interface{}, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

func TestFetchServesFreshEntries(t *testing.T) {
	c, clk := newCache(time.Minute)
	key := Key{Operation: "recipes", Params: ""}
	var calls int32

	first, err := c.Fetch(context.Background(), key, counting(&calls, "a"))
	require.NoError(t, err)
	second, err := c.Fetch(context.Background(), key, counting(&calls, "b"))
	require.NoError(t, err)

	assert.EqualValues(t, 1, calls)
	assert.Equal(t, "a", second.Value)
	assert.Equal(t, first.Revision, second.Revision)

	clk.t = clk.t.Add(time.Minute)
	peek, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, peek.Stale)

	third, err := c.Fetch(context.Background(), key, counting(&calls, "c"))
	require.NoError(t, err)
	assert.Equal(t, "c", third.Value)
	assert.Greater(t, third.Revision, first.Revision)
}

func TestInvalidateOnlyTouchesOneOperation(t *testing.T) {
	c, _ := newCache(time.Hour)
	ctx := context.Background()
	var calls int32

	for _, key := range []Key{{"recipes", ""}, {"recipes", "thai"}, {"recipe", "42"}} {
		_, err := c.Fetch(ctx, key, counting(&calls, key.Params))
		require.NoError(t, err)
	}

	assert.Equal(t, 2, c.Invalidate("recipes"))
	assert.Equal(t, 0, c.Invalidate("bookings"))

	stale, _ := c.Peek(Key{"recipes", "thai"})
	assert.True(t, stale.Stale)
	fresh, _ := c.Peek(Key{"recipe", "42"})
	assert.False(t, fresh.Stale)

	_, err := c.Fetch(ctx, Key{"recipes", "thai"}, counting(&calls, "thai"))
	require.NoError(t, err)
	assert.EqualValues(t, 4, calls)
}

func TestFailedLoadKeepsPreviousEntry(t *testing.T) {
	c, _ := newCache(time.Hour)
	key := Key{"bookings", "user"}
	var calls int32
	_, err := c.Fetch(context.Background(), key, counting(&calls, []string{"one"}))
	require.NoError(t, err)
	c.Invalidate("bookings")

	_, err = c.Fetch(context.Background(), key, func(context.Context) (interface{}, error) {
		return nil, errors.New("offline")
	})
	require.EqualError(t, err, "offline")

	entry, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, []string{"one"}, entry.Value)
	assert.True(t, entry.Stale)
}

func TestConcurrentFetchesShareOneLoad(t *testing.T) {
	c, _ := newCache(time.Hour)
	key := Key{"recipes.popular", ""}
	var calls int32
	release := make(chan struct{})

	load := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 4, nil
	}

	var wg sync.WaitGroup
	results := make([]Entry, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := c.Fetch(context.Background(), key, load)
			assert.NoError(t, err)
			results[i] = entry
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
	for _, r := range results {
		assert.Equal(t, 4, r.Value)
	}
}

func TestInvalidateSupersedesLoadInFlight(t *testing.T) {
	c, _ := newCache(time.Hour)
	key := Key{"bookings", "user-1"}
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan Entry)
	go func() {
		entry, err := c.Fetch(context.Background(), key, func(context.Context) (interface{}, error) {
			close(started)
			<-release
			return "before-mutation", nil
		})
		assert.NoError(t, err)
		done <- entry
	}()
	<-started

	// The booking is created while the list is still loading
	c.Invalidate("bookings")

	// A fetch after the mutation must not join the superseded load
	var calls int32
	after, err := c.Fetch(context.Background(), key, counting(&calls, "after-mutation"))
	require.NoError(t, err)
	assert.Equal(t, "after-mutation", after.Value)
	assert.EqualValues(t, 1, calls)

	close(release)
	superseded := <-done
	assert.Equal(t, "before-mutation", superseded.Value)
	assert.True(t, superseded.Stale)

	// The late result does not replace the newer entry
	latest, err := c.Fetch(context.Background(), key, counting(&calls, "unexpected"))
	require.NoError(t, err)
	assert.Equal(t, "after-mutation", latest.Value)
	assert.Equal(t, after.Revision, latest.Revision)
	assert.EqualValues(t, 1, calls)
}

func TestLoadFinishingAfterInvalidateIsStoredStale(t *testing.T) {
	c, _ := newCache(time.Hour)
	key := Key{"bookings", ""}
	var calls int32

	_, err := c.Fetch(context.Background(), key, func(context.Context) (interface{}, error) {
		c.Invalidate("bookings")
		return "before-mutation", nil
	})
	require.NoError(t, err)

	entry, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, entry.Stale)

	next, err := c.Fetch(context.Background(), key, counting(&calls, "after-mutation"))
	require.NoError(t, err)
	assert.Equal(t, "after-mutation", next.Value)
	assert.EqualValues(t, 1, calls)
}

func TestGetIsTyped(t *testing.T) {
	c, _ := newCache(time.Hour)
	ctx := context.Background()

	n, entry, err := Get(ctx, c, Key{"count", ""}, func(context.Context) (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.EqualValues(t, 1, entry.Revision)

	_, _, err = Get(ctx, c, Key{"count", ""}, func(context.Context) (string, error) { return "x", nil })
	assert.Error(t, err)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestVisitorCacheFetchesOnce(t *testing.T) {
	var calls int32
	c := NewVisitorCache(func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "CgtVisitor", nil
	})

	for i := 0; i < 3; i++ {
		got, err := c.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "CgtVisitor", got)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestVisitorCacheSingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	c := NewVisitorCache(func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "CgtShared", nil
	})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Get(context.Background())
		}(i)
	}
	// Give every caller a chance to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "CgtShared", r)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestVisitorCacheDoesNotCacheFailure(t *testing.T) {
	var calls int32
	c := NewVisitorCache(func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", errors.New("boom")
		}
		return "CgsSecond", nil
	})

	_, err := c.Get(context.Background())
	require.Error(t, err)
	_, ok := c.Peek()
	assert.False(t, ok)

	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CgsSecond", got)
}

func TestVisitorCacheTruncates(t *testing.T) {
	long := "Cgt" + strings.Repeat("x", 200)
	c := NewVisitorCache(func(ctx context.Context) (string, error) {
		return long, nil
	})
	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, MaxVisitorDataLen)
	assert.Equal(t, long[:MaxVisitorDataLen], got)
}

func TestVisitorCacheSetOverridesAndRefresh(t *testing.T) {
	var calls int32
	c := NewVisitorCache(func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "CgtFetched", nil
	})
	c.Set("CgtOverride")
	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CgtOverride", got)
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))

	got, err = c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CgtFetched", got)
	cached, _ := c.Peek()
	assert.Equal(t, "CgtFetched", cached)
}

func TestVisitorCacheCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	c := NewVisitorCache(func(ctx context.Context) (string, error) {
		<-release
		return "CgtLate", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	// The detached fetch still completes and populates the cache.
	assert.Eventually(t, func() bool {
		_, ok := c.Peek()
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestVisitorCacheNilFetch(t *testing.T) {
	c := NewVisitorCache(nil)
	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

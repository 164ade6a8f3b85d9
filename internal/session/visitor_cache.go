package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// MaxVisitorDataLen bounds cached visitor ids; upstream appends optional
// trailing data that only grows the request body.
const MaxVisitorDataLen = 80

const (
	fetchKey            = "visitor"
	defaultFetchTimeout = 10 * time.Second
)

// FetchFunc retrieves a fresh visitor id from upstream.
type FetchFunc func(ctx context.Context) (string, error)

// VisitorCache holds the process-wide visitor id. The first Get performs the
// fetch; concurrent callers share that in-flight fetch. Failed or empty
// fetches are not cached, so a later Get tries again.
type VisitorCache struct {
	fetch        FetchFunc
	fetchTimeout time.Duration

	group singleflight.Group
	mu    sync.RWMutex
	token string
}

func NewVisitorCache(fetch FetchFunc) *VisitorCache {
	return &VisitorCache{
		fetch:        fetch,
		fetchTimeout: defaultFetchTimeout,
	}
}

// Peek returns the cached id without fetching.
func (c *VisitorCache) Peek() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// Set overrides the cached id. An empty value clears the cache.
func (c *VisitorCache) Set(token string) {
	token = truncate(strings.TrimSpace(token))
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Get returns the cached id, fetching it once if absent.
func (c *VisitorCache) Get(ctx context.Context) (string, error) {
	if token, ok := c.Peek(); ok {
		return token, nil
	}
	return c.load(ctx)
}

// Refresh discards the cached id and fetches a new one. The old id stays in
// place if the fetch fails.
func (c *VisitorCache) Refresh(ctx context.Context) (string, error) {
	return c.load(ctx)
}

func (c *VisitorCache) load(ctx context.Context) (string, error) {
	if c.fetch == nil {
		return "", nil
	}
	ch := c.group.DoChan(fetchKey, func() (interface{}, error) {
		// Detached from the first caller so its cancellation does not fail
		// every waiter.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		token, err := c.fetch(fetchCtx)
		if err != nil {
			return "", err
		}
		token = truncate(strings.TrimSpace(token))
		if token != "" {
			c.mu.Lock()
			c.token = token
			c.mu.Unlock()
		}
		return token, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func truncate(token string) string {
	if len(token) > MaxVisitorDataLen {
		return token[:MaxVisitorDataLen]
	}
	return token
}

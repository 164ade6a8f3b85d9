package playerjs

import (
	"testing"
	"time"
)

func TestMemoryCacheExpires(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := NewMemoryCache(time.Hour).(*memoryCache)
	c.now = func() time.Time { return now }

	c.Set("p1:main", "body")
	if got, ok := c.Get("p1:main"); !ok || got != "body" {
		t.Fatalf("Get() = %q, %v", got, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := c.Get("p1:main"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestMemoryCacheWithoutTTL(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := NewMemoryCache(0).(*memoryCache)
	c.now = func() time.Time { return now }
	c.Set("k", "v")
	now = now.Add(1000 * time.Hour)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("entry without ttl should not expire")
	}
}

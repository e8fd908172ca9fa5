// Package query is a small stale-time query cache. Values are kept in a
// go-cache store that expires them after the gc time; concurrent fetches of
// the same key are collapsed with singleflight. Errors are never cached and
// nothing is retried.
package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// FetchFunc produces the value for a key
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Stats is a point-in-time view of cache activity
type Stats struct {
	Hits    int64
	Misses  int64
	Fetches int64
	Shared  int64
	Entries int
}

// Client is the query cache
type Client struct {
	store  *cache.Cache
	group  singleflight.Group
	gcTime time.Duration
	now    func() time.Time

	// gens counts invalidations per key so a fetch that was in flight
	// across one does not store its result
	mu   sync.Mutex
	gens map[string]uint64

	hits    atomic.Int64
	misses  atomic.Int64
	fetches atomic.Int64
	shared  atomic.Int64
}

// NewClient creates a query cache whose entries are dropped gcTime after they were stored
func NewClient(gcTime time.Duration) *Client {
	if gcTime <= 0 {
		gcTime = 5 * time.Minute
	}
	return &Client{
		store:  cache.New(gcTime, 2*gcTime),
		gcTime: gcTime,
		now:    time.Now,
		gens:   make(map[string]uint64),
	}
}

// Key joins key parts, e.g. Key("posts", 3) == "posts/3"
func Key(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, "/")
}

// Fetch returns the cached value for key if it is younger than staleTime,
// otherwise calls fn (once per key across concurrent callers) and stores the result.
func (c *Client) Fetch(ctx context.Context, key string, staleTime time.Duration, fn FetchFunc) (any, error) {
	if v, ok := c.fresh(key, staleTime); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	ch := c.group.DoChan(key, func() (any, error) {
		c.fetches.Add(1)
		gen := c.generation(key)
		// detached from the cancellation of whichever caller started it
		v, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gens[key] == gen {
			c.store.SetDefault(key, entry{value: v, fetchedAt: c.now()})
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.shared.Add(1)
		}
		if res.Err != nil {
			logrus.WithFields(logrus.Fields{"component": "query", "key": key}).Debugf("fetch failed: %v", res.Err)
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Prefetch warms key unless a fresh value is already cached
func (c *Client) Prefetch(ctx context.Context, key string, staleTime time.Duration, fn FetchFunc) error {
	if _, ok := c.fresh(key, staleTime); ok {
		return nil
	}
	_, err := c.Fetch(ctx, key, staleTime, fn)
	return err
}

// GetData returns whatever is cached for key, fresh or stale
func (c *Client) GetData(key string) (any, bool) {
	raw, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	return raw.(entry).value, true
}

// SetData stores v for key as if it had just been fetched
func (c *Client) SetData(key string, v any) {
	c.store.SetDefault(key, entry{value: v, fetchedAt: c.now()})
}

// Invalidate drops key so the next Fetch goes to the network
func (c *Client) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
	c.store.Delete(key)
}

// InvalidatePrefix drops every key starting with prefix
func (c *Client) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.gens {
		if strings.HasPrefix(k, prefix) {
			c.gens[k]++
		}
	}
	n := 0
	for k := range c.store.Items() {
		if strings.HasPrefix(k, prefix) {
			c.store.Delete(k)
			n++
		}
	}
	return n
}

// Stats returns cache counters
func (c *Client) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Fetches: c.fetches.Load(),
		Shared:  c.shared.Load(),
		Entries: c.store.ItemCount(),
	}
}

// generation registers key and returns its invalidation count
func (c *Client) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gens[key]
	if !ok {
		c.gens[key] = 0
	}
	return g
}

func (c *Client) fresh(key string, staleTime time.Duration) (any, bool) {
	if staleTime <= 0 {
		return nil, false
	}
	raw, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	e := raw.(entry)
	if c.now().Sub(e.fetchedAt) >= staleTime {
		return nil, false
	}
	return e.value, true
}

// Fetch is the typed form of Client.Fetch
func Fetch[T any](ctx context.Context, c *Client, key string, staleTime time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, staleTime, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query: cached value for %q is %T", key, v)
	}
	return t, nil
}

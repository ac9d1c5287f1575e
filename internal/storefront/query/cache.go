// Package query caches server reads and invalidates them after mutations.
package query

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Options configures a Cache.
type Options struct {
	// StaleTime ages entries out on top of explicit invalidation. Zero keeps
	// entries fresh until invalidated.
	StaleTime time.Duration
	Now       func() time.Time
	Logger    *zap.Logger
}

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
	stale     bool
}

// Cache stores the last successful result per Key.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	known     map[string]Key
	gen       map[string]uint64
	group     singleflight.Group
	staleTime time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewCache constructs an empty Cache.
func NewCache(opts Options) *Cache {
	c := &Cache{
		entries:   map[string]*entry{},
		known:     map[string]Key{},
		gen:       map[string]uint64{},
		staleTime: opts.StaleTime,
		now:       opts.Now,
		logger:    opts.Logger,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Fetcher loads a fresh value from the server.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Fetch returns the cached value for key when it is fresh and otherwise calls
// fetch. Concurrent fetches of one key share a single call. When fetch fails
// the previous value, if any, is returned alongside the error and stays cached.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch Fetcher[T]) (T, error) {
	id := key.String()

	c.mu.Lock()
	if e, ok := c.entries[id]; ok && c.freshLocked(e) {
		c.mu.Unlock()
		value, ok := e.value.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("query: cached %s holds %T", id, e.value)
		}
		return value, nil
	}
	c.known[id] = key
	gen := c.gen[id]
	c.mu.Unlock()

	v, err, _ := c.group.Do(fmt.Sprintf("%s#%d", id, gen), func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[id] = &entry{
			key:       key,
			value:     value,
			fetchedAt: c.now(),
			// Invalidated while in flight: keep the data but refetch next time.
			stale: c.gen[id] != gen,
		}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		c.logger.Debug("query fetch failed", zap.String("key", id), zap.Error(err))
		var zero T
		if prev, ok := Peek[T](c, key); ok {
			return prev, err
		}
		return zero, err
	}
	value, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("query: cached %s holds %T", id, v)
	}
	return value, nil
}

// Peek returns the cached value for key without fetching, fresh or not.
func Peek[T any](c *Cache, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

// Invalidate marks every entry selected by any filter stale and returns the
// affected keys in sorted order. Entries are kept so that readers still see
// the previous data until the refetch completes.
func (c *Cache) Invalidate(filters ...Key) []string {
	c.mu.Lock()
	var hit []string
	for id, key := range c.known {
		for _, f := range filters {
			if !f.Matches(key) {
				continue
			}
			// Bumping the generation also outdates fetches still in flight.
			c.gen[id]++
			if e, ok := c.entries[id]; ok {
				e.stale = true
				hit = append(hit, id)
			}
			break
		}
	}
	c.mu.Unlock()

	sort.Strings(hit)
	if len(hit) > 0 {
		c.logger.Debug("query invalidated", zap.Strings("keys", hit))
	}
	return hit
}

// Stale reports whether key is cached and needs a refetch.
func (c *Cache) Stale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	return ok && !c.freshLocked(e)
}

// Keys lists cached keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for id := range c.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.known {
		c.gen[id]++
	}
	c.entries = map[string]*entry{}
}

func (c *Cache) freshLocked(e *entry) bool {
	if e.stale {
		return false
	}
	if c.staleTime > 0 && c.now().Sub(e.fetchedAt) >= c.staleTime {
		return false
	}
	return true
}

// Mutate runs a write against the server and invalidates keys only after it
// succeeds. A failed mutation leaves the cache untouched.
func Mutate[T any](ctx context.Context, c *Cache, run func(ctx context.Context) (T, error), invalidate ...Key) (T, error) {
	result, err := run(ctx)
	if err != nil {
		c.logger.Warn("query mutation failed", zap.Error(err))
		return result, err
	}
	c.Invalidate(invalidate...)
	return result, nil
}

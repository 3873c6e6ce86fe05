// Package querycache caches the planner's remote query results. Entries are
// keyed by operation and parameters, and a mutation invalidates every entry
// of the operations it affects.
package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Key identifies one query result
type Key struct {
	Operation string
	Params    string
}

func (k Key) String() string {
	return k.Operation + "|" + k.Params
}

// Entry is a cached result. Revision increases every time any entry is
// stored, so a changed revision means a new result.
type Entry struct {
	Value     interface{}
	FetchedAt time.Time
	Revision  uint64
	Stale     bool
}

// Loader fetches the value of a query
type Loader func(ctx context.Context) (interface{}, error)

// Cache is safe for concurrent use
type Cache struct {
	mu        sync.RWMutex
	entries   map[Key]*Entry
	revision  uint64
	staleTime time.Duration
	now       func() time.Time

	// generations counts the invalidations of each operation
	generations map[string]uint64

	group  singleflight.Group
	logger *zap.Logger
}

// New creates a cache whose entries go stale after staleTime. A zero
// staleTime makes every entry stale as soon as it is stored.
func New(staleTime time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		entries:     make(map[Key]*Entry),
		generations: make(map[string]uint64),
		staleTime:   staleTime,
		now:         time.Now,
		logger:      logger.Named("query-cache"),
	}
}

// Fetch returns the cached entry for key when it is fresh, otherwise runs
// load and stores its result. Concurrent fetches of one key share a single
// load. A failed load leaves the previous entry in place. A load that was
// already running when its operation was invalidated is stored stale, and
// fetches started after the invalidation do not join it.
func (c *Cache) Fetch(ctx context.Context, key Key, load Loader) (Entry, error) {
	entry, ok, generation := c.fresh(key)
	if ok {
		return entry, nil
	}

	flight := fmt.Sprintf("%s#%d", key, generation)
	v, err, shared := c.group.Do(flight, func() (interface{}, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return c.store(key, value, generation), nil
	})
	if err != nil {
		c.logger.Debug("Query failed",
			zap.String("operation", key.Operation),
			zap.String("params", key.Params),
			zap.Error(err),
		)
		return Entry{}, err
	}

	entry, ok = v.(Entry)
	if !ok {
		return Entry{}, fmt.Errorf("querycache: unexpected result %T for %s", v, key)
	}
	c.logger.Debug("Query loaded",
		zap.String("operation", key.Operation),
		zap.String("params", key.Params),
		zap.Uint64("revision", entry.Revision),
		zap.Bool("shared", shared),
	)
	return entry, nil
}

// Peek returns the entry for key without loading. The entry's Stale flag
// reflects the stale time.
func (c *Cache) Peek(key Key) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	out := *entry
	out.Stale = c.isStale(entry)
	return out, true
}

// Invalidate marks every entry of operation stale so the next Fetch reloads
// it. Loads of operation still in flight are superseded as well.
func (c *Cache) Invalidate(operation string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[operation]++
	n := 0
	for key, entry := range c.entries {
		if key.Operation == operation {
			entry.Stale = true
			n++
		}
	}
	if n > 0 {
		c.logger.Debug("Invalidated queries", zap.String("operation", operation), zap.Int("entries", n))
	}
	return n
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*Entry)
}

// Len returns the number of stored entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// fresh returns the entry for key when it is fresh, along with the
// operation's current invalidation generation
func (c *Cache) fresh(key Key) (Entry, bool, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	generation := c.generations[key.Operation]
	entry, ok := c.entries[key]
	if !ok || c.isStale(entry) {
		return Entry{}, false, generation
	}
	return *entry, true, generation
}

// store records value for key. A value loaded before the operation's last
// invalidation is kept only as a stale placeholder and never replaces an
// entry loaded since.
func (c *Cache) store(key Key, value interface{}, generation uint64) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revision++
	entry := &Entry{
		Value:     value,
		FetchedAt: c.now(),
		Revision:  c.revision,
		Stale:     c.generations[key.Operation] != generation,
	}
	if _, exists := c.entries[key]; exists && entry.Stale {
		return *entry
	}
	c.entries[key] = entry
	return *entry
}

func (c *Cache) isStale(entry *Entry) bool {
	return entry.Stale || c.now().Sub(entry.FetchedAt) >= c.staleTime
}

// Get fetches key and asserts the value's type
func Get[T any](ctx context.Context, c *Cache, key Key, load func(ctx context.Context) (T, error)) (T, Entry, error) {
	entry, err := c.Fetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, Entry{}, err
	}
	value, ok := entry.Value.(T)
	if !ok {
		var zero T
		return zero, entry, fmt.Errorf("querycache: %s holds %T", key, entry.Value)
	}
	return value, entry, nil
}

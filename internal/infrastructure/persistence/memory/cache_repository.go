// Package memory provides in-memory cache repository implementation
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/savorly/savorly/internal/ports/outbound"
)

// CacheItem represents a cached item. A zero ExpiresAt never expires.
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

func (i CacheItem) expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// CacheRepository implements in-memory cache repository
type CacheRepository struct {
	data  map[string]CacheItem
	mutex sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

// NewCacheRepository creates a new in-memory cache repository that sweeps
// expired items every cleanupInterval
func NewCacheRepository(cleanupInterval time.Duration) *CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]CacheItem),
		stop: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go repo.cleanup(cleanupInterval)
	}

	return repo
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists || item.expired(time.Now()) {
		return nil, outbound.ErrCacheMiss
	}

	return append([]byte(nil), item.Value...), nil
}

// Set stores a value in cache with TTL. A non-positive TTL keeps the value until deleted.
func (r *CacheRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := CacheItem{Value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.ExpiresAt = time.Now().Add(ttl)
	}

	r.mutex.Lock()
	r.data[key] = item
	r.mutex.Unlock()
	return nil
}

// Delete removes a value from cache
func (r *CacheRepository) Delete(_ context.Context, key string) error {
	r.mutex.Lock()
	delete(r.data, key)
	r.mutex.Unlock()
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(_ context.Context, key string) (bool, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	return exists && !item.expired(time.Now()), nil
}

// Increment adds one to a decimal counter stored under key
func (r *CacheRepository) Increment(_ context.Context, key string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var current int64
	if item, exists := r.data[key]; exists && !item.expired(time.Now()) {
		n, err := strconv.ParseInt(string(item.Value), 10, 64)
		if err != nil {
			return 0, err
		}
		current = n
	}

	current++
	r.data[key] = CacheItem{Value: []byte(strconv.FormatInt(current, 10))}
	return current, nil
}

// Len returns the number of stored items, expired ones included
func (r *CacheRepository) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.data)
}

// Close stops the cleanup goroutine
func (r *CacheRepository) Close() error {
	r.once.Do(func() { close(r.stop) })
	return nil
}

func (r *CacheRepository) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			r.mutex.Lock()
			for key, item := range r.data {
				if item.expired(now) {
					delete(r.data, key)
				}
			}
			r.mutex.Unlock()
		}
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

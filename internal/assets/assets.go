// Package assets fetches baked terrain data from disk or HTTP(S) and caches it.
package assets

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/grassfield/internal/logger"
)

// Ticket identifies one asynchronous load for log correlation.
type Ticket = uuid.UUID

// Manager loads raw asset bytes through a Fetcher and caches the results.
type Manager struct {
	fetcher *Fetcher
	cache   *Cache
	wg      sync.WaitGroup
	log     *zap.Logger
}

// NewManager creates a new asset manager.
func NewManager(fetcher *Fetcher) *Manager {
	if fetcher == nil {
		fetcher = NewFetcher(nil)
	}
	return &Manager{
		fetcher: fetcher,
		cache:   NewCache(),
		log:     logger.Named("assets"),
	}
}

// Load returns the bytes at path, from cache when possible.
func (m *Manager) Load(ctx context.Context, path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	data, err := m.fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	m.cache.Set(path, data)
	return data, nil
}

// LoadAsync loads path on a new goroutine and reports through done.
// The returned ticket is passed to done and tagged on every log line.
func (m *Manager) LoadAsync(ctx context.Context, path string, done func(Ticket, []byte, error)) Ticket {
	ticket := uuid.New()
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()

		m.log.Debug("load started", zap.Stringer("ticket", ticket), zap.String("path", path))
		data, err := m.Load(ctx, path)
		if err != nil {
			m.log.Error("load failed", zap.Stringer("ticket", ticket), zap.String("path", path), zap.Error(err))
		} else {
			m.log.Debug("load finished", zap.Stringer("ticket", ticket), zap.Int("bytes", len(data)))
		}
		done(ticket, data, err)
	}()

	return ticket
}

// Invalidate drops a cached entry so the next Load fetches again.
func (m *Manager) Invalidate(path string) {
	m.cache.Delete(path)
}

// Cache returns the manager's cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close waits for outstanding async loads and clears the cache.
func (m *Manager) Close() {
	m.wg.Wait()
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes one item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

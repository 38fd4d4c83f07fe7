// Package assets handles mesh loading, caching and hot reload.
package assets

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/logger"
)

// Manager loads meshes from disk and keeps built meshes cached by path.
// Cached meshes are shared; callers must not modify them.
type Manager struct {
	opts  model.LoadOptions
	cache *Cache
	mu    sync.Mutex // serializes builds
}

// NewManager creates a new asset manager building meshes with opts.
func NewManager(opts model.LoadOptions) *Manager {
	return &Manager{
		opts:  opts,
		cache: NewCache(),
	}
}

// Key returns the cache key for path.
func Key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Load returns the mesh for path, building it on a cache miss.
func (m *Manager) Load(path string) (*model.Mesh, error) {
	key := Key(path)
	if mesh, ok := m.cache.Get(key); ok {
		return mesh, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have built it while we waited.
	if mesh, ok := m.cache.Peek(key); ok {
		return mesh, nil
	}

	mesh, err := model.Load(path, m.opts)
	if err != nil {
		return nil, fmt.Errorf("loading mesh %s: %w", path, err)
	}
	m.cache.Set(key, mesh)

	logger.Named("assets").Info("mesh loaded",
		zap.String("path", key),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", len(mesh.Faces)),
	)
	return mesh, nil
}

// Reload drops the cached mesh for path and builds it again.
func (m *Manager) Reload(path string) (*model.Mesh, error) {
	m.Invalidate(path)
	return m.Load(path)
}

// Invalidate drops the cached mesh for path.
func (m *Manager) Invalidate(path string) {
	m.cache.Delete(Key(path))
}

// Cache returns the manager's mesh cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close releases all cached meshes.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is a simple in-memory cache for built meshes.
type Cache struct {
	data map[string]*model.Mesh
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*model.Mesh),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (*model.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mesh, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return mesh, ok
}

// Peek retrieves an item without touching the stats.
func (c *Cache) Peek(key string) (*model.Mesh, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mesh, ok := c.data[key]
	return mesh, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, mesh *model.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = mesh
}

// Delete removes an item from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*model.Mesh)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

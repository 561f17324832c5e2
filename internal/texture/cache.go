package texture

import (
	"image"
	"os"
	"sync"
)

// Resolver resolves a texture reference to a decoded image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. References are tried as paths
// first and then by stem through the optional search index.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA
	index *Index
}

// NewCache creates a texture cache. index may be nil.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
	}
}

// Resolve loads and caches a texture. Returns nil if it cannot be found or
// decoded; a failed load is cached too.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path := texName
	if _, err := os.Stat(path); err != nil {
		p, ok := c.index.ResolvePath(texName)
		if !ok {
			return nil
		}
		path = p
	}

	c.mu.RLock()
	if img, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return img
	}
	c.mu.RUnlock()

	img, _ := LoadTexture(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, exists := c.items[path]; exists {
		return existing
	}
	c.items[path] = img
	return img
}

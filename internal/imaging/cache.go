package imaging

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// GridCache keeps decoded pixel grids for files on disk, keyed by path.
//
// An entry is reused only while the file's size and modification time are
// unchanged, so a file rewritten in place is decoded again on the next Load.
// GridCache is safe for concurrent use.
//
//	cache := imaging.NewGridCache()
//	grid, err := cache.Load("/path/to/swatch.png")
type GridCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	grid    *PixelGrid
	size    int64
	modTime time.Time
}

// NewGridCache creates an empty cache.
func NewGridCache() *GridCache {
	return &GridCache{entries: make(map[string]cacheEntry)}
}

// Load returns the decoded grid for path, reading and decoding the file only
// when it is not cached or has changed since it was cached.
//
// Decoding failures are returned as *DecodeError; I/O failures are wrapped.
func (c *GridCache) Load(path string) (*PixelGrid, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}

	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		return e.grid, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	grid, err := DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = cacheEntry{grid: grid, size: info.Size(), modTime: info.ModTime()}
	c.mu.Unlock()

	return grid, nil
}

// Len returns the number of cached grids.
func (c *GridCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Evict removes path from the cache. Unknown paths are ignored.
func (c *GridCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Clear drops every cached grid.
func (c *GridCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

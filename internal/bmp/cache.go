package bmp

import (
	"sync"

	appLog "signadmin/internal/log"
)

// maxCacheEntries bounds decoded-image memory on constrained hosts. The
// cache is flushed wholesale rather than tracking per-entry recency; icon
// sets are small enough that a full re-decode after a flush is cheap.
const maxCacheEntries = 20

// Cache memoizes decoded images by a caller-supplied key (typically the
// image path or download ref). Decoding is pure, so two racing fills for
// the same key are harmless.
type Cache struct {
	mu     sync.Mutex
	images map[string]*Image
}

// NewCache returns an empty decode cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string]*Image)}
}

// Decode returns the cached image for key, decoding and caching data on a
// miss. Decode failures are not cached.
func (c *Cache) Decode(key string, data []byte) (*Image, error) {
	c.mu.Lock()
	if im, ok := c.images[key]; ok {
		c.mu.Unlock()
		return im, nil
	}
	c.mu.Unlock()

	im, err := Decode(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.images) >= maxCacheEntries {
		appLog.Debug("bmp: cache full, flushing", "entries", len(c.images))
		c.images = make(map[string]*Image)
	}
	c.images[key] = im
	c.mu.Unlock()

	return im, nil
}

// Len reports the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

package reconcile

import (
	"fmt"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process Cache used when the on-disk store cannot
// open. Snapshots then survive for the life of the process only.
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{c: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryCache) Get(key string) (string, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", fmt.Errorf("cache key %q not found", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("cache key %q holds %T, want string", key, v)
	}
	return s, nil
}

func (m *MemoryCache) Set(key, value string) error {
	m.c.Set(key, value, gocache.NoExpiration)
	return nil
}

var _ Cache = (*MemoryCache)(nil)

package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type ttlcacheBackend struct {
	c *ttlcache.Cache[int, string]
}

// NewTTLCache creates a TTL-based cache. The TTL is long since only
// capacity eviction is being compared.
func NewTTLCache(capacity int) Cache {
	return newLibrary("ttlcache", capacity, func(capacity int) backend {
		c := ttlcache.New[int, string](
			ttlcache.WithCapacity[int, string](uint64(capacity)), //nolint:gosec // capacity always positive
			ttlcache.WithTTL[int, string](time.Hour),
		)
		go c.Start()
		return &ttlcacheBackend{c: c}
	})
}

func (b *ttlcacheBackend) get(id int) (string, bool) {
	item := b.c.Get(id)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

func (b *ttlcacheBackend) set(id int, content string) {
	b.c.Set(id, content, ttlcache.DefaultTTL)
}

func (*ttlcacheBackend) keys() []int { return nil }
func (b *ttlcacheBackend) len() int  { return b.c.Len() }
func (b *ttlcacheBackend) close()    { b.c.Stop() }

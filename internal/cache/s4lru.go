package cache

import (
	"github.com/dgryski/go-s4lru"
)

type s4lruBackend struct {
	c *s4lru.Cache
}

// NewS4LRU creates a four-segment LRU cache. The library needs a multiple of
// four, so it is rounded up and the wrapper trims the extra entries.
func NewS4LRU(capacity int) Cache {
	return newLibrary("s4lru", capacity, func(capacity int) backend {
		return &s4lruBackend{c: s4lru.New((capacity + 3) / 4 * 4)}
	})
}

func (b *s4lruBackend) get(id int) (string, bool) {
	v, ok := b.c.Get(key(id))
	if !ok {
		return "", false
	}
	return v.(string), true //nolint:errcheck,revive // type is known from set
}

func (b *s4lruBackend) set(id int, content string) { b.c.Set(key(id), content) }
func (*s4lruBackend) keys() []int                  { return nil }
func (b *s4lruBackend) len() int                   { return b.c.Len() }
func (b *s4lruBackend) remove(id int)              { b.c.Remove(key(id)) }
func (*s4lruBackend) close()                       {}

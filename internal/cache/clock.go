package cache

import (
	"github.com/Code-Hex/go-generics-cache/policy/clock"
)

type clockBackend struct {
	c *clock.Cache[int, string]
}

// NewClock creates a clock-based cache.
func NewClock(capacity int) Cache {
	return newLibrary("clock", capacity, func(capacity int) backend {
		return &clockBackend{c: clock.NewCache[int, string](clock.WithCapacity(capacity))}
	})
}

func (b *clockBackend) get(id int) (string, bool)  { return b.c.Get(id) }
func (b *clockBackend) set(id int, content string) { b.c.Set(id, content) }
func (*clockBackend) keys() []int                  { return nil }
func (b *clockBackend) len() int                   { return b.c.Len() }
func (*clockBackend) close()                       {}

package cache

import (
	"github.com/scalalang2/golang-fifo/sieve"
)

type sieveBackend struct {
	c *sieve.Sieve[int, string]
}

// NewSieve creates a SIEVE cache.
func NewSieve(capacity int) Cache {
	return newLibrary("sieve", capacity, func(capacity int) backend {
		return &sieveBackend{c: sieve.New[int, string](capacity, 0)}
	})
}

func (b *sieveBackend) get(id int) (string, bool)  { return b.c.Get(id) }
func (b *sieveBackend) set(id int, content string) { b.c.Set(id, content) }
func (*sieveBackend) keys() []int                  { return nil }
func (b *sieveBackend) len() int                   { return b.c.Len() }
func (*sieveBackend) close()                       {}

package cache

import "github.com/Yiling-J/theine-go"

type theineBackend struct {
	c *theine.Cache[int, string]
}

// NewTheine creates a Theine cache.
func NewTheine(capacity int) Cache {
	return newLibrary("theine", capacity, func(capacity int) backend {
		c, _ := theine.NewBuilder[int, string](int64(capacity)).Build() //nolint:errcheck // capacity always positive
		return &theineBackend{c: c}
	})
}

func (b *theineBackend) get(id int) (string, bool)  { return b.c.Get(id) }
func (b *theineBackend) set(id int, content string) { b.c.Set(id, content, 1) }
func (*theineBackend) keys() []int                  { return nil }
func (b *theineBackend) len() int                   { return b.c.Len() }
func (b *theineBackend) remove(id int)              { b.c.Delete(id) }
func (b *theineBackend) close()                     { b.c.Close() }

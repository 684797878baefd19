package cache

import (
	"github.com/maypok86/otter/v2"
)

type otterBackend struct {
	c *otter.Cache[int, string]
}

// NewOtter creates an Otter cache. Otter evicts in batches, so it can run
// past a small MaximumSize until the wrapper trims it.
func NewOtter(capacity int) Cache {
	return newLibrary("otter", capacity, func(capacity int) backend {
		return &otterBackend{c: otter.Must(&otter.Options[int, string]{MaximumSize: capacity})}
	})
}

func (b *otterBackend) get(id int) (string, bool)  { return b.c.GetIfPresent(id) }
func (b *otterBackend) set(id int, content string) { b.c.Set(id, content) }
func (*otterBackend) keys() []int                  { return nil }
func (b *otterBackend) len() int                   { return b.c.EstimatedSize() }
func (b *otterBackend) remove(id int)              { b.c.Invalidate(id) }
func (*otterBackend) close()                       {}

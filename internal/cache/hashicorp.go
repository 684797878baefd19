package cache

import lru "github.com/hashicorp/golang-lru/v2"

type hashicorpLRU struct {
	c *lru.Cache[int, string]
}

// NewLRURef creates an LRU backed by hashicorp/golang-lru, useful as a
// cross-check for the in-house LRU.
func NewLRURef(capacity int) Cache {
	return newLibrary("lru-ref", capacity, func(capacity int) backend {
		c, _ := lru.New[int, string](capacity) //nolint:errcheck // capacity always positive
		return &hashicorpLRU{c: c}
	})
}

func (b *hashicorpLRU) get(id int) (string, bool)  { return b.c.Get(id) }
func (b *hashicorpLRU) set(id int, content string) { b.c.Add(id, content) }
func (b *hashicorpLRU) keys() []int                { return b.c.Keys() }
func (b *hashicorpLRU) len() int                   { return b.c.Len() }
func (*hashicorpLRU) close()                       {}

type hashicorp2Q struct {
	c *lru.TwoQueueCache[int, string]
}

// NewTwoQueueRef creates hashicorp's 2Q, which sizes its recent segment
// and tracks ghost entries, unlike the floating split of NewTwoQueue.
// The ghost list needs at least one slot, so capacity 1 keeps a full one.
func NewTwoQueueRef(capacity int) Cache {
	return newLibrary("2q-ref", capacity, func(capacity int) backend {
		ghost := lru.Default2QGhostEntries
		if capacity < 2 {
			ghost = 1
		}
		c, _ := lru.New2QParams[int, string](capacity, lru.Default2QRecentRatio, ghost) //nolint:errcheck // capacity always positive
		return &hashicorp2Q{c: c}
	})
}

func (b *hashicorp2Q) get(id int) (string, bool)  { return b.c.Get(id) }
func (b *hashicorp2Q) set(id int, content string) { b.c.Add(id, content) }
func (b *hashicorp2Q) keys() []int                { return b.c.Keys() }
func (b *hashicorp2Q) len() int                   { return b.c.Len() }
func (*hashicorp2Q) close()                       {}

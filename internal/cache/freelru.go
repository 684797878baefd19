package cache

import (
	"encoding/binary"

	lru "github.com/elastic/go-freelru"
	"github.com/zeebo/xxh3"
)

// hashID spreads small sequential ids across freelru's buckets.
func hashID(id int) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id)) //nolint:gosec // ids are non-negative
	return uint32(xxh3.Hash(buf[:]))
}

type freeLRUBackend struct {
	c *lru.SyncedLRU[int, string]
}

// NewFreeLRU creates a synced freelru cache.
func NewFreeLRU(capacity int) Cache {
	return newLibrary("freelru", capacity, func(capacity int) backend {
		c, _ := lru.NewSynced[int, string](uint32(capacity), hashID) //nolint:errcheck,gosec // capacity always positive
		return &freeLRUBackend{c: c}
	})
}

func (b *freeLRUBackend) get(id int) (string, bool)  { return b.c.Get(id) }
func (b *freeLRUBackend) set(id int, content string) { b.c.Add(id, content) }
func (*freeLRUBackend) keys() []int                  { return nil }
func (b *freeLRUBackend) len() int                   { return b.c.Len() }
func (*freeLRUBackend) close()                       {}

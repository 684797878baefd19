package cache

import "github.com/coocood/freecache"

// freecacheEntrySize estimates key + content + ~32 bytes of internal overhead
// for a short text item. freecache sizes by bytes, not entries.
const freecacheEntrySize = 1200

type freecacheBackend struct {
	c *freecache.Cache
}

// NewFreecache creates a freecache sized for capacity items of roughly
// freecacheEntrySize bytes. The byte floor holds far more than capacity
// entries; the wrapper trims the excess.
func NewFreecache(capacity int) Cache {
	return newLibrary("freecache", capacity, func(capacity int) backend {
		cacheBytes := max(capacity*freecacheEntrySize,
			// minimum 512KB
			512*1024)
		return &freecacheBackend{c: freecache.NewCache(cacheBytes)}
	})
}

func (b *freecacheBackend) get(id int) (string, bool) {
	v, err := b.c.Get([]byte(key(id)))
	if err != nil {
		return "", false
	}
	return string(v), true
}

func (b *freecacheBackend) set(id int, content string) {
	b.c.Set([]byte(key(id)), []byte(content), 0) //nolint:errcheck,gosec // best-effort set
}

func (*freecacheBackend) keys() []int     { return nil }
func (b *freecacheBackend) len() int      { return int(b.c.EntryCount()) }
func (b *freecacheBackend) remove(id int) { b.c.Del([]byte(key(id))) }
func (*freecacheBackend) close()          {}

package cache

import "github.com/vmihailenco/go-tinylfu"

type tinyLFUBackend struct {
	c *tinylfu.SyncT
}

// NewTinyLFU creates a TinyLFU cache. Capacity is tiny compared to the
// library's usual sizing, so the sample window is kept at ten times it.
func NewTinyLFU(capacity int) Cache {
	return newLibrary("tinylfu", capacity, func(capacity int) backend {
		b := &tinyLFUBackend{c: tinylfu.NewSync(capacity, capacity*10)}
		if capacity < 2 {
			return tinyLFUTrimmed{b}
		}
		return b
	})
}

func (b *tinyLFUBackend) get(id int) (string, bool) {
	v, ok := b.c.Get(key(id))
	if !ok {
		return "", false
	}
	return v.(string), true //nolint:errcheck,revive // type is known from set
}

func (b *tinyLFUBackend) set(id int, content string) {
	b.c.Set(&tinylfu.Item{Key: key(id), Value: content})
}

func (*tinyLFUBackend) keys() []int { return nil }
func (*tinyLFUBackend) len() int    { return -1 }
func (*tinyLFUBackend) close()      {}

// tinyLFUTrimmed is used at capacity 1, where the window and the main
// segment each keep one entry.
type tinyLFUTrimmed struct {
	*tinyLFUBackend
}

func (b tinyLFUTrimmed) remove(id int) { b.c.Del(key(id)) }

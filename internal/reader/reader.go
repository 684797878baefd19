// Package reader serves items to an interactive session through a cache.
package reader

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tstromberg/policybench/internal/cache"
	"github.com/tstromberg/policybench/internal/store"
)

// ErrInvalidID is returned for ids outside the item range. It is checked
// before the cache is consulted, so it never counts as a miss.
var ErrInvalidID = errors.New("invalid item id")

// Page is one item as served to the reader.
type Page struct {
	ID      int
	Content string
	Hit     bool
	Elapsed time.Duration
}

// Reader opens items through a cache, filling it from a store on a miss.
type Reader struct {
	cache cache.Cache
	store store.Store
	min   int
	max   int
}

// New returns a reader for ids [minID, maxID].
func New(c cache.Cache, st store.Store, minID, maxID int) *Reader {
	return &Reader{cache: c, store: st, min: minID, max: maxID}
}

// Open returns the content of id, from the cache when possible.
func (r *Reader) Open(id int) (Page, error) {
	if id < r.min || id > r.max {
		return Page{}, fmt.Errorf("%w: %d not in %d-%d", ErrInvalidID, id, r.min, r.max)
	}

	start := time.Now()
	content, ok := r.cache.Get(id)
	if !ok {
		var err error
		content, err = r.store.Fetch(id)
		if err != nil {
			slog.Debug("caching empty item", "id", id, "error", err)
		}
		r.cache.Set(id, content)
	}
	return Page{ID: id, Content: content, Hit: ok, Elapsed: time.Since(start)}, nil
}

// Use switches to another cache. The previous cache is closed.
func (r *Reader) Use(c cache.Cache) {
	r.cache.Close()
	r.cache = c
}

// Cache returns the cache in use.
func (r *Reader) Cache() cache.Cache { return r.cache }

// Stats returns the current cache's counters.
func (r *Reader) Stats() cache.Stats { return r.cache.Stats() }

// Keys returns the cached ids, least favoured first.
func (r *Reader) Keys() []int { return r.cache.Keys() }

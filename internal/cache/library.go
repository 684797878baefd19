package cache

import "strconv"

// backend is a third-party cache narrowed to what the benchmark needs.
type backend interface {
	get(id int) (string, bool)
	set(id int, content string)
	// keys returns nil when the library cannot enumerate without
	// disturbing its own ordering.
	keys() []int
	// len returns -1 when the library does not report its size.
	len() int
	close()
}

// remover is implemented by backends that can hold more entries than asked
// for: byte-sized, rounded-up, or lazily evicting libraries. The wrapper
// trims them back to capacity after every insert.
type remover interface {
	remove(id int)
}

// library adapts a backend to Cache. Hit and miss counting happens here so
// every library is measured the same way; Clear rebuilds the backend since
// not every library can purge itself.
type library struct {
	base
	open func(capacity int) backend
	b    backend
	// admitted holds the ids of a remover backend, least recently used
	// first. It is a superset of what the backend holds: ids the library
	// dropped on its own leave it on their next miss.
	admitted *order
}

func newLibrary(name string, capacity int, open func(capacity int) backend) *library {
	b := newBase(name, capacity)
	l := &library{base: b, open: open, b: open(b.capacity)}
	if _, ok := l.b.(remover); ok {
		l.admitted = newOrder(b.capacity + 1)
	}
	return l
}

func (c *library) Get(id int) (string, bool) {
	content, ok := c.b.get(id)
	if !ok {
		if c.admitted != nil {
			c.admitted.remove(id)
		}
		c.miss()
		return "", false
	}
	if c.admitted != nil {
		c.admitted.moveToBack(id)
	}
	c.hit()
	return content, true
}

func (c *library) Set(id int, content string) {
	c.b.set(id, content)
	c.narrate("store", "id", id)
	if c.admitted == nil {
		return
	}
	if c.admitted.contains(id) {
		c.admitted.moveToBack(id)
	} else {
		c.admitted.pushBack(id)
	}
	c.trim()
}

// trim removes least recently used ids until the backend fits capacity.
func (c *library) trim() {
	r := c.b.(remover) //nolint:errcheck,forcetypeassert // admitted is only set for removers
	for c.size() > c.capacity {
		id, ok := c.admitted.popFront()
		if !ok {
			return
		}
		r.remove(id)
		c.narrate("trim", "id", id)
	}
}

// size is the backend's own count, or the admitted upper bound when the
// library cannot report one.
func (c *library) size() int {
	if n := c.b.len(); n >= 0 {
		return n
	}
	if c.admitted != nil {
		return c.admitted.len()
	}
	return -1
}

func (c *library) Clear() {
	c.b.close()
	c.b = c.open(c.capacity)
	if c.admitted != nil {
		c.admitted.reset()
	}
	c.stats = Stats{}
}

func (c *library) Keys() []int { return c.b.keys() }
func (c *library) Len() int    { return c.size() }
func (c *library) Close()      { c.b.close() }

func key(id int) string {
	return strconv.Itoa(id)
}

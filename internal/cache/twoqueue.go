package cache

// twoQueueCache splits entries into a probationary FIFO for ids seen once
// and a protected LRU for ids read again after insertion. Both segments
// share one capacity; their sizes float.
type twoQueueCache struct {
	base
	probation *order
	protected *order
	data      map[int]string
}

// NewTwoQueue creates a segmented 2Q cache.
func NewTwoQueue(capacity int) Cache {
	b := newBase("2q", capacity)
	return &twoQueueCache{
		base:      b,
		probation: newOrder(b.capacity),
		protected: newOrder(b.capacity),
		data:      make(map[int]string, b.capacity),
	}
}

func (c *twoQueueCache) Get(id int) (string, bool) {
	content, ok := c.data[id]
	if !ok {
		c.miss()
		return "", false
	}
	c.hit()
	if c.probation.remove(id) {
		c.protected.pushBack(id)
		c.narrate("promote", "id", id, "from", "probation", "to", "protected")
	} else {
		c.protected.moveToBack(id)
	}
	return content, true
}

func (c *twoQueueCache) Set(id int, content string) {
	if _, ok := c.data[id]; ok {
		c.data[id] = content
		return
	}
	if len(c.data) >= c.capacity {
		c.evict()
	}
	c.probation.pushBack(id)
	c.data[id] = content
	c.narrate("store", "id", id, "probation", c.probation.len(), "protected", c.protected.len())
}

// evict drops the oldest probationary id, falling back to the least
// recently used protected id only when probation is empty.
func (c *twoQueueCache) evict() {
	if victim, ok := c.probation.popFront(); ok {
		delete(c.data, victim)
		c.narrate("evict", "id", victim, "segment", "probation")
		return
	}
	if victim, ok := c.protected.popFront(); ok {
		delete(c.data, victim)
		c.narrate("evict", "id", victim, "segment", "protected")
	}
}

func (c *twoQueueCache) Clear() {
	c.probation.reset()
	c.protected.reset()
	clear(c.data)
	c.stats = Stats{}
}

// Keys lists probationary ids oldest first, then protected ids oldest first.
func (c *twoQueueCache) Keys() []int {
	return append(c.probation.keys(), c.protected.keys()...)
}

func (c *twoQueueCache) Len() int { return len(c.data) }

// Segments returns the probationary and protected ids, oldest first.
func (c *twoQueueCache) Segments() (probation, protected []int) {
	return c.probation.keys(), c.protected.keys()
}

// Segmented is implemented by caches that split entries into a
// probationary and a protected segment.
type Segmented interface {
	Segments() (probation, protected []int)
}

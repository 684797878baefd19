package cache

// fifoCache evicts in insertion order, ignoring how often or how recently
// an entry was read.
type fifoCache struct {
	base
	queue *order
	data  map[int]string
}

// NewFIFO creates a first-in, first-out cache.
func NewFIFO(capacity int) Cache {
	b := newBase("fifo", capacity)
	return &fifoCache{
		base:  b,
		queue: newOrder(b.capacity),
		data:  make(map[int]string, b.capacity),
	}
}

func (c *fifoCache) Get(id int) (string, bool) {
	content, ok := c.data[id]
	if !ok {
		c.miss()
		return "", false
	}
	c.hit()
	return content, true
}

func (c *fifoCache) Set(id int, content string) {
	if _, ok := c.data[id]; ok {
		c.data[id] = content
		return
	}
	if len(c.data) >= c.capacity {
		if victim, ok := c.queue.popFront(); ok {
			delete(c.data, victim)
			c.narrate("evict", "id", victim, "reason", "oldest insert")
		}
	}
	c.queue.pushBack(id)
	c.data[id] = content
	c.narrate("store", "id", id, "size", len(c.data), "capacity", c.capacity)
}

func (c *fifoCache) Clear() {
	c.queue.reset()
	clear(c.data)
	c.stats = Stats{}
}

func (c *fifoCache) Keys() []int { return c.queue.keys() }
func (c *fifoCache) Len() int    { return len(c.data) }

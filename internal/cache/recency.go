package cache

// recencyCache keeps ids ordered by last use. LRU evicts the stalest id;
// MRU evicts the freshest one.
type recencyCache struct {
	base
	queue     *order
	data      map[int]string
	evictMost bool
}

// NewLRU creates a least-recently-used cache.
func NewLRU(capacity int) Cache {
	return newRecency("lru", capacity, false)
}

// NewMRU creates a most-recently-used cache. It is rarely a good choice and
// is kept as a contrast for workloads where recency does not predict reuse.
func NewMRU(capacity int) Cache {
	return newRecency("mru", capacity, true)
}

func newRecency(name string, capacity int, evictMost bool) *recencyCache {
	b := newBase(name, capacity)
	return &recencyCache{
		base:      b,
		queue:     newOrder(b.capacity),
		data:      make(map[int]string, b.capacity),
		evictMost: evictMost,
	}
}

func (c *recencyCache) Get(id int) (string, bool) {
	content, ok := c.data[id]
	if !ok {
		c.miss()
		return "", false
	}
	c.hit()
	c.queue.moveToBack(id)
	return content, true
}

func (c *recencyCache) Set(id int, content string) {
	if _, ok := c.data[id]; ok {
		c.data[id] = content
		c.queue.moveToBack(id)
		return
	}
	if len(c.data) >= c.capacity {
		c.evict()
	}
	c.queue.pushBack(id)
	c.data[id] = content
	c.narrate("store", "id", id, "size", len(c.data), "capacity", c.capacity)
}

func (c *recencyCache) evict() {
	var (
		victim int
		ok     bool
		reason string
	)
	if c.evictMost {
		victim, ok = c.queue.popBack()
		reason = "most recently used"
	} else {
		victim, ok = c.queue.popFront()
		reason = "least recently used"
	}
	if !ok {
		return
	}
	delete(c.data, victim)
	c.narrate("evict", "id", victim, "reason", reason)
}

func (c *recencyCache) Clear() {
	c.queue.reset()
	clear(c.data)
	c.stats = Stats{}
}

func (c *recencyCache) Keys() []int { return c.queue.keys() }
func (c *recencyCache) Len() int    { return len(c.data) }

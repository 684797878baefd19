package cache

// nilSlot marks the absence of a neighbour or an empty list end.
const nilSlot = -1

type slot struct {
	id         int
	prev, next int32
}

// order is a doubly linked sequence of ids stored in an arena.
// index maps every linked id to its slot, so membership, removal and
// moves are O(1). Freed slots are reused before the arena grows.
type order struct {
	slots      []slot
	free       []int32
	index      map[int]int32
	head, tail int32
}

func newOrder(capacity int) *order {
	return &order{
		slots: make([]slot, 0, capacity),
		index: make(map[int]int32, capacity),
		head:  nilSlot,
		tail:  nilSlot,
	}
}

func (o *order) len() int { return len(o.index) }

func (o *order) contains(id int) bool {
	_, ok := o.index[id]
	return ok
}

// pushBack appends id as the newest element. id must not already be linked.
func (o *order) pushBack(id int) {
	var s int32
	if n := len(o.free); n > 0 {
		s = o.free[n-1]
		o.free = o.free[:n-1]
	} else {
		o.slots = append(o.slots, slot{})
		s = int32(len(o.slots) - 1) //nolint:gosec // bounded by cache capacity
	}
	o.slots[s] = slot{id: id, prev: o.tail, next: nilSlot}
	if o.tail != nilSlot {
		o.slots[o.tail].next = s
	} else {
		o.head = s
	}
	o.tail = s
	o.index[id] = s
}

func (o *order) unlink(s int32) {
	sl := o.slots[s]
	if sl.prev != nilSlot {
		o.slots[sl.prev].next = sl.next
	} else {
		o.head = sl.next
	}
	if sl.next != nilSlot {
		o.slots[sl.next].prev = sl.prev
	} else {
		o.tail = sl.prev
	}
}

// remove unlinks id and reports whether it was present.
func (o *order) remove(id int) bool {
	s, ok := o.index[id]
	if !ok {
		return false
	}
	o.unlink(s)
	delete(o.index, id)
	o.free = append(o.free, s)
	return true
}

// moveToBack makes id the newest element.
func (o *order) moveToBack(id int) {
	s, ok := o.index[id]
	if !ok || s == o.tail {
		return
	}
	o.unlink(s)
	o.slots[s].prev = o.tail
	o.slots[s].next = nilSlot
	o.slots[o.tail].next = s
	o.tail = s
}

func (o *order) front() (int, bool) {
	if o.head == nilSlot {
		return 0, false
	}
	return o.slots[o.head].id, true
}

func (o *order) back() (int, bool) {
	if o.tail == nilSlot {
		return 0, false
	}
	return o.slots[o.tail].id, true
}

func (o *order) popFront() (int, bool) {
	id, ok := o.front()
	if ok {
		o.remove(id)
	}
	return id, ok
}

func (o *order) popBack() (int, bool) {
	id, ok := o.back()
	if ok {
		o.remove(id)
	}
	return id, ok
}

// keys returns ids from oldest to newest.
func (o *order) keys() []int {
	ids := make([]int, 0, len(o.index))
	for s := o.head; s != nilSlot; s = o.slots[s].next {
		ids = append(ids, o.slots[s].id)
	}
	return ids
}

func (o *order) reset() {
	o.slots = o.slots[:0]
	o.free = o.free[:0]
	clear(o.index)
	o.head, o.tail = nilSlot, nilSlot
}

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// unbounded never evicts on its own, like a byte-sized library with room
// to spare.
type unbounded struct {
	m       map[int]string
	removed []int
}

func (u *unbounded) get(id int) (string, bool) {
	v, ok := u.m[id]
	return v, ok
}

func (u *unbounded) set(id int, content string) { u.m[id] = content }
func (*unbounded) keys() []int                  { return nil }
func (u *unbounded) len() int                   { return len(u.m) }
func (*unbounded) close()                       {}

func (u *unbounded) remove(id int) {
	delete(u.m, id)
	u.removed = append(u.removed, id)
}

func newUnbounded(capacity int) (*library, *unbounded) {
	u := &unbounded{m: make(map[int]string)}
	return newLibrary("unbounded", capacity, func(int) backend { return u }), u
}

func TestLibrary_TrimsLeastRecentlyUsed(t *testing.T) {
	c, u := newUnbounded(3)
	c.Set(1, "a")
	c.Set(2, "b")
	c.Set(3, "c")
	c.Get(1)
	c.Set(4, "d")

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []int{2}, u.removed)
	_, ok := c.Get(2)
	assert.False(t, ok)
	_, ok = c.Get(1)
	assert.True(t, ok)
}

func TestLibrary_OverwriteDoesNotTrim(t *testing.T) {
	c, u := newUnbounded(2)
	c.Set(1, "a")
	c.Set(2, "b")
	c.Set(1, "a2")

	assert.Empty(t, u.removed)
	assert.Equal(t, 2, c.Len())
	c.Set(3, "c")
	assert.Equal(t, []int{2}, u.removed, "overwrite refreshed 1")
}

func TestLibrary_MissForgetsLibraryEvictions(t *testing.T) {
	c, u := newUnbounded(2)
	c.Set(1, "a")
	c.Set(2, "b")
	delete(u.m, 1) // dropped by the library itself
	c.Get(1)
	c.Set(3, "c")

	assert.Empty(t, u.removed)
	assert.Equal(t, []int{2, 3}, c.admitted.keys())
}

func TestLibrary_ClearResetsAdmitted(t *testing.T) {
	c, u := newUnbounded(2)
	c.Set(1, "a")
	c.Set(2, "b")
	c.Clear()
	clear(u.m)

	assert.Zero(t, c.admitted.len())
	assert.Equal(t, Stats{}, c.Stats())
}

func TestLibrary_ExactBackendIsNotTracked(t *testing.T) {
	c := NewLRURef(2).(*library)
	assert.Nil(t, c.admitted)
}

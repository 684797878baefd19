// Package cache provides fixed-capacity item caches with pluggable eviction policies.
package cache

import "log/slog"

// Cache is the contract shared by every eviction policy.
// Implementations are not safe for concurrent use.
type Cache interface {
	// Get returns the cached content for id, counting a hit or a miss.
	// Stateful policies may reorder on a hit. Get never evicts.
	Get(id int) (string, bool)
	// Set stores content for id. An existing id is overwritten in place;
	// a new id evicts exactly one entry when the cache is full.
	Set(id int, content string)
	Stats() Stats
	Name() string
	// Clear empties the cache and zeroes its statistics.
	Clear()
	// Keys returns the cached ids, least favoured first.
	Keys() []int
	// SetQuiet suppresses narration. It never changes cache behavior.
	SetQuiet(quiet bool)
	Len() int
	Capacity() int
	Close()
}

// Factory creates a new cache instance with the given capacity.
type Factory func(capacity int) Cache

// Stats holds lookup counters since the last Clear.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Lookups returns the number of Get calls counted.
func (s Stats) Lookups() int64 {
	return s.Hits + s.Misses
}

// HitRate returns the hit percentage. The denominator is floored at 1.
func (s Stats) HitRate() float64 {
	return HitRate(s.Hits, s.Misses)
}

// HitRate returns hits as a percentage of hits+misses, treating an empty
// sample as zero rather than dividing by zero.
func HitRate(hits, misses int64) float64 {
	return float64(hits) * 100 / float64(max(hits+misses, 1))
}

// base carries the bookkeeping every policy shares.
type base struct {
	name     string
	capacity int
	stats    Stats
	quiet    bool
	log      *slog.Logger
}

func newBase(name string, capacity int) base {
	return base{
		name:     name,
		capacity: max(capacity, 1),
		log:      slog.Default().With("policy", name),
	}
}

func (b *base) Name() string        { return b.name }
func (b *base) Capacity() int       { return b.capacity }
func (b *base) Stats() Stats        { return b.stats }
func (b *base) SetQuiet(quiet bool) { b.quiet = quiet }
func (*base) Close()                {}

func (b *base) hit()  { b.stats.Hits++ }
func (b *base) miss() { b.stats.Misses++ }

// narrate logs a cache event unless the cache is quiet.
func (b *base) narrate(msg string, args ...any) {
	if b.quiet {
		return
	}
	b.log.Debug(msg, args...)
}

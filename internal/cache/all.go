package cache

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned when a policy name is not registered.
var ErrUnknownPolicy = errors.New("unknown policy")

// registry maps policy names to their factory functions.
var registry = map[string]Factory{
	"fifo":      NewFIFO,
	"lru":       NewLRU,
	"mru":       NewMRU,
	"2q":        NewTwoQueue,
	"lru-ref":   NewLRURef,
	"2q-ref":    NewTwoQueueRef,
	"otter":     NewOtter,
	"theine":    NewTheine,
	"ttlcache":  NewTTLCache,
	"ristretto": NewRistretto,
	"tinylfu":   NewTinyLFU,
	"sieve":     NewSieve,
	"s3-fifo":   NewS3FIFO,
	"freelru":   NewFreeLRU,
	"freecache": NewFreecache,
	"s4lru":     NewS4LRU,
	"clock":     NewClock,
}

// labels are the human-readable policy names used in reports.
var labels = map[string]string{
	"fifo": "FIFO (First-In, First-Out)",
	"lru":  "LRU (Least Recently Used)",
	"mru":  "MRU (Most Recently Used)",
	"2q":   "2Q (Two Queues)",
}

// defaultOrder defines the evaluation order of the in-house policies.
// Winner ties are broken by this order.
var defaultOrder = []string{"fifo", "lru", "mru", "2q"}

// referenceOrder lists third-party caches available for comparison.
var referenceOrder = []string{
	"lru-ref", "2q-ref", "otter", "theine", "ttlcache", "ristretto", "tinylfu",
	"sieve", "s3-fifo", "freelru", "freecache", "s4lru", "clock",
}

// Filter holds the current policy filter (nil = the in-house policies).
var Filter map[string]bool

// SetFilter sets which policies to include in benchmarks. "all" selects every
// registered policy, in-house first.
func SetFilter(names []string) {
	if len(names) == 0 {
		Filter = nil
		return
	}
	Filter = make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "all" {
			for _, n := range AvailableNames() {
				Filter[n] = true
			}
			continue
		}
		Filter[name] = true
	}
}

// All returns factories for the selected policies in evaluation order.
func All() []Factory {
	var factories []Factory
	for _, name := range AllNames() {
		factories = append(factories, registry[name])
	}
	return factories
}

// AllNames returns the names of the selected policies in evaluation order.
func AllNames() []string {
	if Filter == nil {
		return defaultOrder
	}
	var names []string
	for _, name := range AvailableNames() {
		if Filter[name] {
			names = append(names, name)
		}
	}
	return names
}

// AvailableNames returns every registered policy name (ignoring filter).
func AvailableNames() []string {
	names := make([]string, 0, len(defaultOrder)+len(referenceOrder))
	names = append(names, defaultOrder...)
	return append(names, referenceOrder...)
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	return f, nil
}

// New creates the policy registered under name.
func New(name string, capacity int) (Cache, error) {
	f, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return f(capacity), nil
}

// Label returns the long display name of a policy, or name itself.
func Label(name string) string {
	if l, ok := labels[name]; ok {
		return l
	}
	return name
}

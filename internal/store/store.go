// Package store provides the slow backing stores that caches front.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultDelay stands in for the latency of a real disk or network read.
const DefaultDelay = 100 * time.Millisecond

var (
	// ErrNotFound is returned when an id is outside the store or has no item.
	ErrNotFound = errors.New("item not found")
	// ErrEmpty is returned when an item exists but holds no content.
	ErrEmpty = errors.New("item is empty")
)

// Store loads item content by id.
type Store interface {
	Fetch(id int) (string, error)
}

// Dir serves items from numbered text files (1.txt, 2.txt, ...) in a
// directory. Concurrent reads of the same id share one file read.
type Dir struct {
	path  string
	min   int
	max   int
	delay time.Duration
	group singleflight.Group
}

// NewDir returns a store for ids [min, max] under path. Every Fetch sleeps
// for delay before touching the file.
func NewDir(path string, minID, maxID int, delay time.Duration) *Dir {
	return &Dir{path: path, min: minID, max: maxID, delay: delay}
}

// Fetch reads the item file for id.
func (d *Dir) Fetch(id int) (string, error) {
	time.Sleep(d.delay)
	if id < d.min || id > d.max {
		return "", fmt.Errorf("fetch %d: %w", id, ErrNotFound)
	}

	v, err, _ := d.group.Do(strconv.Itoa(id), func() (any, error) {
		data, err := os.ReadFile(d.filename(id))
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		if err != nil {
			return "", err
		}
		if len(data) == 0 {
			return "", ErrEmpty
		}
		return string(data), nil
	})
	if err != nil {
		return "", fmt.Errorf("fetch %d: %w", id, err)
	}
	return v.(string), nil //nolint:errcheck,revive // type is known from Do
}

func (d *Dir) filename(id int) string {
	return filepath.Join(d.path, strconv.Itoa(id)+".txt")
}

// Synthetic fabricates content for every id in range, after a delay.
type Synthetic struct {
	min   int
	max   int
	delay time.Duration
}

// NewSynthetic returns a store that answers every id in [min, max].
func NewSynthetic(minID, maxID int, delay time.Duration) *Synthetic {
	return &Synthetic{min: minID, max: maxID, delay: delay}
}

// Fetch returns placeholder content for id.
func (s *Synthetic) Fetch(id int) (string, error) {
	time.Sleep(s.delay)
	if id < s.min || id > s.max {
		return "", fmt.Errorf("fetch %d: %w", id, ErrNotFound)
	}
	return "simulated content for item " + strconv.Itoa(id), nil
}

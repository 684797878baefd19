// Package main measures memory usage for a single eviction policy.
// Run in isolated process for accurate measurements.
package main

import (
	"flag"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/tstromberg/policybench/internal/cache"
)

var keepAlive any

func main() {
	policy := flag.String("policy", "", "policy to measure")
	capacity := flag.Int("cap", 32768, "capacity")
	valSize := flag.Int("valSize", 1024, "item content size in bytes")
	flag.Parse()

	if *policy == "" {
		fmt.Println(`{"error":"policy name required"}`)
		return
	}

	runtime.GC()
	debug.FreeOSMemory()

	items, err := fill(*policy, *capacity, *valSize)
	if err != nil {
		fmt.Printf(`{"error":%q}`, err.Error())
		return
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)
	runtime.GC()
	debug.FreeOSMemory()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	fmt.Printf(`{"name":%q, "items":%d, "bytes":%d}`, *policy, items, mem.Alloc)
}

// fill stores capacity distinct items and returns how many are held.
func fill(name string, capacity, valSize int) (int, error) {
	content := func() string { return strings.Repeat("x", valSize) }

	if name == "baseline" {
		m := make(map[int]string, capacity)
		for i := range capacity {
			m[i] = content()
		}
		keepAlive = m
		return len(m), nil
	}

	c, err := cache.New(name, capacity)
	if err != nil {
		return 0, err
	}
	c.SetQuiet(true)
	for i := range capacity {
		c.Set(i, content())
	}
	keepAlive = c
	if n := c.Len(); n >= 0 {
		return n, nil
	}
	return capacity, nil
}

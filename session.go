package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tstromberg/policybench/internal/cache"
	"github.com/tstromberg/policybench/internal/config"
	"github.com/tstromberg/policybench/internal/reader"
)

const sessionHelp = `commands:
  <id>           open item id
  use <policy>   switch policy (empties the cache)
  stats          show hits and misses
  keys           show cached ids
  help           show this text
  quit           leave the session
`

// previewLen bounds how much of an item is echoed back.
const previewLen = 200

// readSession serves items from in until quit, EOF, or ctx is done. It starts
// with the trial winner when there is one.
func readSession(ctx context.Context, cfg config.Config, winner string, in io.Reader, out io.Writer) error {
	policy := winner
	if policy == "" {
		policy = cache.AllNames()[0]
	}
	c, err := cache.New(policy, cfg.Capacity)
	if err != nil {
		return err
	}
	r := reader.New(c, cfg.NewStore(), cfg.Workload.MinID, cfg.Workload.MaxID)
	defer func() { r.Cache().Close() }()

	fmt.Fprintf(out, "reading with %s, capacity %d, items %d-%d\n", cache.Label(policy), cfg.Capacity, cfg.Workload.MinID, cfg.Workload.MaxID)
	fmt.Fprint(out, sessionHelp)

	sc := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd := strings.ToLower(fields[0]); cmd {
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			fmt.Fprint(out, sessionHelp)
		case "stats":
			s := r.Stats()
			fmt.Fprintf(out, "%s: %d hits, %d misses (%.2f%%)\n", r.Cache().Name(), s.Hits, s.Misses, s.HitRate())
		case "keys":
			fmt.Fprintf(out, "%d/%d cached: %v\n", r.Cache().Len(), r.Cache().Capacity(), r.Keys())
		case "use":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: use <policy>")
				continue
			}
			next, err := cache.New(fields[1], cfg.Capacity)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			r.Use(next)
			fmt.Fprintf(out, "now reading with %s\n", cache.Label(next.Name()))
		default:
			id, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintf(out, "unknown command %q, try help\n", cmd)
				continue
			}
			page, err := r.Open(id)
			if errors.Is(err, reader.ErrInvalidID) {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			if err != nil {
				return err
			}
			writePage(out, page)
		}
	}
}

func writePage(out io.Writer, p reader.Page) {
	source := "miss"
	if p.Hit {
		source = "hit"
	}
	text := p.Content
	if len(text) > previewLen {
		text = text[:previewLen] + "..."
	}
	if text == "" {
		text = "(empty)"
	}
	fmt.Fprintf(out, "item %d [%s, %s]\n%s\n", p.ID, source, p.Elapsed.Round(time.Microsecond), text)
}

// textsplit cuts a plain-text book into numbered items for the directory store.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tstromberg/policybench/internal/config"
	"github.com/tstromberg/policybench/internal/store"
)

func main() {
	in := flag.String("in", "", "Text file to split (- for stdin)")
	dir := flag.String("dir", "texts", "Directory to write N.txt items into")
	words := flag.Int("words", store.DefaultWordsPerItem, "Words per item")
	start := flag.Int("start", 0, "First item id (0 continues after the highest existing id)")
	clean := flag.Bool("clean", true, "Strip front matter, page numbers, and repeated lines first")
	verifyOnly := flag.Bool("verify-only", false, "Only report word counts of existing items")
	minWords := flag.Int("min", store.DefaultWordsPerItem, "Minimum words per item when verifying")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(*logLevel)})))

	if !*verifyOnly {
		if *in == "" {
			fmt.Fprintln(os.Stderr, "error: -in is required")
			flag.Usage()
			os.Exit(2)
		}
		ids, err := split(*in, *dir, *words, *start, *clean)
		if err != nil {
			slog.Error("split failed", "input", *in, "error", err)
			os.Exit(1)
		}
		if len(ids) > 0 {
			fmt.Printf("wrote %d items (%d-%d) to %s\n", len(ids), ids[0], ids[len(ids)-1], *dir)
		}
	}

	v, err := store.Verify(*dir, *minWords)
	if err != nil {
		slog.Error("verify failed", "dir", *dir, "error", err)
		os.Exit(1)
	}
	printVerification(v)
	if *verifyOnly && !v.OK() {
		os.Exit(1)
	}
}

func split(path, dir string, words, start int, clean bool) ([]int, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // path comes from the operator
		if err != nil {
			return nil, err
		}
		defer f.Close() //nolint:errcheck // read-only
		r = f
	}
	if clean {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		r = strings.NewReader(store.Clean(string(bytes.ToValidUTF8(data, nil))))
	}
	return store.Split(r, dir, words, start)
}

func printVerification(v store.Verification) {
	fmt.Printf("%d items, %d words, %.0f words/item on average\n", len(v.Files), v.Total, v.Mean())
	if v.OK() {
		fmt.Printf("every item has at least %d words\n", v.MinWords)
		return
	}
	fmt.Printf("%d items under %d words:\n", len(v.Short), v.MinWords)
	for _, fc := range v.Short {
		fmt.Printf("  %d.txt: %d words\n", fc.ID, fc.Words)
	}
}

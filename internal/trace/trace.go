// Package trace records and replays item access traces.
//
// A trace is plain text with one item id per line. Files whose name ends in
// .zst are zstd-compressed. Lines may carry extra comma-separated columns
// after the id; a non-numeric first line is treated as a header.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

var (
	// ErrEmpty is returned when a trace holds no ids.
	ErrEmpty = errors.New("trace has no ids")
	// ErrInvalidID is returned for a negative id or one outside the
	// item range.
	ErrInvalidID = errors.New("invalid trace id")
)

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst") || strings.HasSuffix(path, ".zstd")
}

// Write saves ids to path, one per line.
func Write(path string, ids []int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close trace: %w", cerr)
		}
	}()

	var w io.Writer = f
	if compressed(path) {
		enc, zerr := zstd.NewWriter(f)
		if zerr != nil {
			return fmt.Errorf("create zstd encoder: %w", zerr)
		}
		defer func() {
			if cerr := enc.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("flush zstd: %w", cerr)
			}
		}()
		w = enc
	}

	bw := bufio.NewWriter(w)
	for _, id := range ids {
		bw.WriteString(strconv.Itoa(id)) //nolint:errcheck // Flush reports the first write error
		bw.WriteByte('\n')               //nolint:errcheck // same
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}

// Load reads the ids stored at path.
func Load(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	var r io.Reader = f
	if compressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	return Parse(r)
}

// Parse reads ids from r in trace format. Negative ids are rejected.
func Parse(r io.Reader) ([]int, error) {
	scanner := bufio.NewScanner(r)
	var ids []int
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		field, _, _ := strings.Cut(text, ",")
		id, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if id < 0 {
			return nil, fmt.Errorf("line %d: %w: %d", line, ErrInvalidID, id)
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan trace: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrEmpty
	}
	return ids, nil
}

// CheckRange reports the first id outside [minID, maxID].
func CheckRange(ids []int, minID, maxID int) error {
	for i, id := range ids {
		if id < minID || id > maxID {
			return fmt.Errorf("op %d: %w: %d not in %d-%d", i+1, ErrInvalidID, id, minID, maxID)
		}
	}
	return nil
}

// Info describes a trace for console output.
func Info(path string, ids []int) string {
	unique := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	return fmt.Sprintf("%s (%d ops, %d unique ids)", path, len(ids), len(unique))
}

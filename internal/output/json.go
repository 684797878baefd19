package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

func compressed(filename string) bool {
	return strings.HasSuffix(filename, ".zst")
}

// WriteJSON writes benchmark results to a JSON file, zstd-compressed when
// filename ends in .zst.
func WriteJSON(filename string, results Results) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var w io.Writer = f
	if compressed(filename) {
		zw, zerr := zstd.NewWriter(f)
		if zerr != nil {
			return fmt.Errorf("create zstd encoder: %w", zerr)
		}
		defer func() {
			if cerr := zw.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = zw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// ReadJSON loads results written by WriteJSON.
func ReadJSON(filename string) (Results, error) {
	var results Results
	f, err := os.Open(filename)
	if err != nil {
		return results, err
	}
	defer f.Close() //nolint:errcheck // read-only

	var r io.Reader = f
	if compressed(filename) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return results, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return results, fmt.Errorf("decode results: %w", err)
	}
	return results, nil
}

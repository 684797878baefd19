package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// DefaultWordsPerItem is the size of the chunks Split writes.
const DefaultWordsPerItem = 1000

// ErrNoText is returned when Split finds nothing to write.
var ErrNoText = errors.New("no text to split")

var (
	chapterStart = regexp.MustCompile(`(?i)(cap[íi]tulo\s+[i1]\b|chapter\s+(1|one|i)\b|introdu[çc][ãa]o|introduction|pr[óo]logo|prologue)`)
	pageNumber   = regexp.MustCompile(`^\s*\d+\s*$`)
	spaces       = regexp.MustCompile(` +`)
)

// Clean strips front matter, page numbers and repeated header lines from a
// book's text. Content is assumed to start at the first chapter, prologue or
// introduction heading, else at the first line longer than 100 characters.
func Clean(text string) string {
	if loc := chapterStart.FindStringIndex(text); loc != nil {
		text = text[loc[0]:]
	} else {
		for _, line := range strings.Split(text, "\n") {
			if len(strings.TrimSpace(line)) > 100 {
				text = text[strings.Index(text, line):]
				break
			}
		}
	}

	var out []string
	last := ""
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= 2 || trimmed == last || pageNumber.MatchString(trimmed) {
			continue
		}
		out = append(out, spaces.ReplaceAllString(line, " "))
		last = trimmed
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// LastID returns the highest N among the N.txt files in dir, or 0.
func LastID(dir string) (int, error) {
	ids, err := itemIDs(dir)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	return ids[len(ids)-1], nil
}

func itemIDs(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var ids []int
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".txt")
		if !ok || e.IsDir() {
			continue
		}
		if id, err := strconv.Atoi(name); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Split writes the words of r into dir as numbered item files of wordsPer
// words each. Numbering begins at start, or after the highest existing item
// when start is below 1. It returns the ids written.
func Split(r io.Reader, dir string, wordsPer, start int) ([]int, error) {
	if wordsPer < 1 {
		wordsPer = DefaultWordsPerItem
	}
	if start < 1 {
		last, err := LastID(dir)
		if err != nil {
			return nil, err
		}
		start = last + 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)

	var ids []int
	words := make([]string, 0, wordsPer)
	flush := func() error {
		id := start + len(ids)
		path := filepath.Join(dir, strconv.Itoa(id)+".txt")
		if err := os.WriteFile(path, []byte(strings.Join(words, " ")), 0o644); err != nil { //nolint:gosec // item files are world-readable text
			return fmt.Errorf("write item %d: %w", id, err)
		}
		ids = append(ids, id)
		words = words[:0]
		return nil
	}

	for sc.Scan() {
		words = append(words, sc.Text())
		if len(words) == wordsPer {
			if err := flush(); err != nil {
				return ids, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return ids, fmt.Errorf("scan words: %w", err)
	}
	if len(words) > 0 {
		if err := flush(); err != nil {
			return ids, err
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoText
	}
	return ids, nil
}

// FileCount is the word count of one item file.
type FileCount struct {
	ID    int `json:"id"`
	Words int `json:"words"`
}

// Verification summarizes the word counts of an item directory.
type Verification struct {
	MinWords int         `json:"min_words"`
	Files    []FileCount `json:"files"`
	Short    []FileCount `json:"short"`
	Total    int         `json:"total"`
}

// OK reports whether every file met the minimum.
func (v Verification) OK() bool { return len(v.Short) == 0 }

// Mean returns the average words per file.
func (v Verification) Mean() float64 {
	if len(v.Files) == 0 {
		return 0
	}
	return float64(v.Total) / float64(len(v.Files))
}

// Verify counts the words in every item file under dir, in id order, and
// lists those below minWords.
func Verify(dir string, minWords int) (Verification, error) {
	v := Verification{MinWords: minWords}
	ids, err := itemIDs(dir)
	if err != nil {
		return v, err
	}
	for _, id := range ids {
		data, err := os.ReadFile(filepath.Join(dir, strconv.Itoa(id)+".txt"))
		if err != nil {
			return v, fmt.Errorf("read item %d: %w", id, err)
		}
		fc := FileCount{ID: id, Words: len(strings.Fields(string(data)))}
		v.Files = append(v.Files, fc)
		v.Total += fc.Words
		if fc.Words < minWords {
			v.Short = append(v.Short, fc)
		}
	}
	return v, nil
}

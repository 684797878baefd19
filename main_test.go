package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/policybench/internal/config"
)

func TestParseIntList(t *testing.T) {
	got, err := parseIntList("5, 10,,40")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 10, 40}, got)

	_, err = parseIntList("5,x")
	assert.ErrorContains(t, err, `"x"`)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"fifo", "lru"}, splitList(" FIFO, ,lru "))
	assert.Nil(t, splitList(""))
}

func sessionConfig() config.Config {
	cfg := config.Default()
	cfg.Store.Delay = 0
	cfg.Capacity = 2
	return cfg
}

func TestReadSession(t *testing.T) {
	in := strings.NewReader("1\n1\nstats\n999\nbogus\nuse fifo\nkeys\n2\nstats\nquit\n3\n")
	var out bytes.Buffer
	require.NoError(t, readSession(context.Background(), sessionConfig(), "lru", in, &out))

	s := out.String()
	assert.Contains(t, s, "reading with LRU (Least Recently Used)")
	assert.Contains(t, s, "item 1 [miss,")
	assert.Contains(t, s, "item 1 [hit,")
	assert.Contains(t, s, "simulated content for item 1")
	assert.Contains(t, s, "lru: 1 hits, 1 misses (50.00%)")
	assert.Contains(t, s, "invalid item id")
	assert.Contains(t, s, `unknown command "bogus"`)
	assert.Contains(t, s, "now reading with FIFO (First-In, First-Out)")
	assert.Contains(t, s, "0/2 cached: []")
	assert.Contains(t, s, "fifo: 0 hits, 1 misses (0.00%)")
	assert.NotContains(t, s, "item 3", "input after quit is ignored")
}

func TestReadSession_DefaultPolicyAndEOF(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, readSession(context.Background(), sessionConfig(), "", strings.NewReader("use nope\n"), &out))
	assert.Contains(t, out.String(), "reading with FIFO")
	assert.Contains(t, out.String(), "unknown policy")
}

func TestReadSession_UnknownWinner(t *testing.T) {
	err := readSession(context.Background(), sessionConfig(), "nope", strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

package cache

import (
	"github.com/scalalang2/golang-fifo/s3fifo"
)

type s3fifoBackend struct {
	c *s3fifo.S3FIFO[int, string]
}

// NewS3FIFO creates an S3-FIFO cache.
func NewS3FIFO(capacity int) Cache {
	return newLibrary("s3-fifo", capacity, func(capacity int) backend {
		return &s3fifoBackend{c: s3fifo.New[int, string](capacity, 0)}
	})
}

func (b *s3fifoBackend) get(id int) (string, bool)  { return b.c.Get(id) }
func (b *s3fifoBackend) set(id int, content string) { b.c.Set(id, content) }
func (*s3fifoBackend) keys() []int                  { return nil }
func (b *s3fifoBackend) len() int                   { return b.c.Len() }
func (*s3fifoBackend) close()                       {}

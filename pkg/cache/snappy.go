package cache

import (
	"context"
	"time"

	"github.com/golang/snappy"
)

// Compressed snappy-encodes payloads before handing them to the wrapped
// cache. Layout results are repetitive JSON and shrink several times.
type Compressed struct {
	inner Cache
}

// NewCompressed wraps c.
func NewCompressed(c Cache) *Compressed {
	return &Compressed{inner: c}
}

// Get decodes the stored payload. A payload that fails to decode is
// deleted and reported as a miss.
func (c *Compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, hit, err := c.inner.Get(ctx, key)
	if err != nil || !hit {
		return nil, false, err
	}
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		_ = c.inner.Delete(ctx, key)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *Compressed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, snappy.Encode(nil, data), ttl)
}

func (c *Compressed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *Compressed) Clear(ctx context.Context) error {
	if cl, ok := c.inner.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

func (c *Compressed) Close() error {
	return c.inner.Close()
}

var (
	_ Cache   = (*Compressed)(nil)
	_ Clearer = (*Compressed)(nil)
)

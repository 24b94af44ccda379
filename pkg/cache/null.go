package cache

import (
	"context"
	"time"
)

// NullCache stands in when caching is turned off. Every Get misses and
// writes are dropped, so layouts, artifacts and downloads are recomputed on
// each request. Reason records why caching is off for logs and status output.
type NullCache struct {
	Reason string
}

// NewNullCache returns a disabled cache. An empty reason reads as "disabled".
func NewNullCache(reason string) Cache {
	if reason == "" {
		reason = "disabled"
	}
	return &NullCache{Reason: reason}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *NullCache) Delete(context.Context, string) error { return nil }

func (c *NullCache) Close() error { return nil }

// Disabled reports whether c is a NullCache (or nil) and why.
func Disabled(c Cache) (reason string, ok bool) {
	switch nc := c.(type) {
	case nil:
		return "no cache configured", true
	case *NullCache:
		return nc.Reason, true
	}
	return "", false
}

var _ Cache = (*NullCache)(nil)

package httputil

import (
	"context"
	"time"

	"github.com/matzehuels/storyboard/pkg/cache"
	"github.com/matzehuels/storyboard/pkg/observability"
)

// Cache is a namespaced view of a [cache.Cache] for fetched response bodies.
//
// Keys are built with the backend's [cache.Keyer], so a scoped keyer keeps
// tenants apart and the same key never collides with render artifacts:
//
//	images := httputil.NewCache(backend, nil, time.Hour).Namespace("image")
//	images.Set(ctx, url, body)  // stored under "http:image:<url>"
//
// Hits, misses and writes are reported to [observability.Cache] with the
// key type "http".
type Cache struct {
	backend   cache.Cache
	keyer     cache.Keyer
	ttl       time.Duration
	namespace string
}

// NewCache wraps backend. A nil backend disables caching and a nil keyer
// uses [cache.NewDefaultKeyer]. A TTL of 0 means entries never expire.
func NewCache(backend cache.Cache, keyer cache.Keyer, ttl time.Duration) *Cache {
	if backend == nil {
		backend = cache.NewNullCache("no http cache backend")
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cache{backend: backend, keyer: keyer, ttl: ttl}
}

// TTL returns the time-to-live for entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the cached body for key. Backend errors count as misses.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := c.backend.Get(ctx, c.key(key))
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "http")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "http")
	return data, true
}

// Set stores body under key.
func (c *Cache) Set(ctx context.Context, key string, body []byte) error {
	if err := c.backend.Set(ctx, c.key(key), body, c.ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, "http", len(body))
	return nil
}

// Delete drops key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.backend.Delete(ctx, c.key(key))
}

// Namespace returns a view whose keys are additionally prefixed. Calls
// chain: Namespace("a").Namespace("b") uses the namespace "a.b".
func (c *Cache) Namespace(ns string) *Cache {
	out := *c
	if out.namespace == "" {
		out.namespace = ns
	} else if ns != "" {
		out.namespace += "." + ns
	}
	return &out
}

func (c *Cache) key(key string) string {
	return c.keyer.HTTPKey(c.namespace, key)
}

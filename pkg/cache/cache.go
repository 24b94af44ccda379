// Package cache provides the byte cache behind render artifacts, fitted
// layouts and remote fetches.
//
// Backends implement [Cache]:
//   - [NullCache]: caching disabled
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: shared cache for server deployments
//
// Keys are built by a [Keyer] so every backend agrees on the layout. A
// [ScopedKeyer] prefixes keys per tenant.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLHTTP     = time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value and whether it was found. Expired entries are
	// misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the layout parameters that change the fitted layout.
type LayoutKeyOpts struct {
	Strategy      string  `json:"strategy"`
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
}

// ArtifactKeyOpts are the sink parameters that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Images bool    `json:"images,omitempty"`
	Sheet  bool    `json:"sheet,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey keys a fetched HTTP body.
	HTTPKey(namespace, key string) string

	// LayoutKey keys the fitted layout of a render input.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

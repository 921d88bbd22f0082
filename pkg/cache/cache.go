// Package cache provides content-addressed caching for layout and render
// results.
//
// A laid-out diagram is fully determined by the diagram content and the
// resolved layout options, so both stages cache on a hash of their inputs:
//   - layout results key on hash(diagram) + options
//   - rendered artifacts key on hash(layout) + format
//
// Backends:
//   - file: directory-based cache for CLI usage
//   - redis: shared cache for server deployments
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per key type.
const (
	// TTLLayout is the default TTL for cached layout results.
	TTLLayout = 24 * time.Hour

	// TTLRender is the default TTL for cached rendered artifacts.
	TTLRender = 7 * 24 * time.Hour
)

// LayoutKeyOpts are the inputs that change a layout result for the same
// diagram content.
type LayoutKeyOpts struct {
	ResizeContainer bool    `json:"resize_container"`
	PaddingFactor   float64 `json:"padding_factor"`
	Gap             float64 `json:"gap"`
	Padding         string  `json:"padding"`
	HAlign          string  `json:"h_align"`
}

// RenderKeyOpts are the inputs that change a rendered artifact for the
// same layout.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Keyer generates cache keys. Implementations must be deterministic:
// equal inputs always produce equal keys.
type Keyer interface {
	// LayoutKey generates a key for a layout result.
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string

	// RenderKey generates a key for a rendered artifact.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a layout result.
func (k *DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", diagramHash, opts)
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}

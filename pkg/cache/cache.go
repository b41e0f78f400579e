// Package cache provides a small byte cache used to memoize rendered
// graph artifacts. Rendering a document to SVG shells out to graphviz,
// which dominates the latency of the render endpoint; since documents
// hash stably, the rendered bytes can be reused for as long as the
// document is unchanged.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// RenderKey builds the cache key for a rendered artifact. The digest is
// the document's canonical content hash, so edits to the document
// naturally invalidate the cached render.
func RenderKey(digest, format string, detailed bool) string {
	return fmt.Sprintf("render:%s:%s:%t", format, digest, detailed)
}

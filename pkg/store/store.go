// Package store provides named storage for portable documents.
//
// The server and CLI use a store to pass documents between sessions and
// collaborators: an export is put under a key, an AI or teammate fetches
// it, edits it, and puts it back for rebuild. Backends:
//   - memory: in-process storage for development/testing
//   - file: JSON files in a config directory for CLI workflows
//   - redis: shared storage for multi-instance server deployments
//
// All backends are safe for concurrent use. Entries may carry a TTL so
// abandoned documents age out instead of accumulating.
package store

import (
	"context"
	"time"

	"github.com/nodewire/nodewire/pkg/document"
)

// Entry is one stored document with its bookkeeping.
type Entry struct {
	Key       string            `json:"key"`
	Document  document.Document `json:"document"`
	UpdatedAt time.Time         `json:"updated_at"`
	ExpiresAt time.Time         `json:"expires_at,omitempty"`
}

// Expired reports whether the entry's TTL has lapsed. Entries without a
// TTL never expire.
func (e *Entry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a document by key.
	// Returns nil, nil if the key doesn't exist or the entry expired.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores a document under key, replacing any previous entry.
	Set(ctx context.Context, key string, doc document.Document) error

	// Delete removes a document. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the stored keys in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the default document lifetime for TTL-enabled backends.
const DefaultTTL = 7 * 24 * time.Hour

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/observability"
)

// MemoryStore is an in-process store for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	ttl     time.Duration
}

// NewMemoryStore creates an in-memory store. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	if err := errors.ValidateStoreKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || e.Expired() {
		observability.Store().OnStoreGet(ctx, "memory", false)
		return nil, nil
	}
	observability.Store().OnStoreGet(ctx, "memory", true)

	copied := *e
	return &copied, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, doc document.Document) error {
	if err := errors.ValidateStoreKey(key); err != nil {
		return err
	}

	e := &Entry{
		Key:       key,
		Document:  doc,
		UpdatedAt: time.Now(),
	}
	if s.ttl > 0 {
		e.ExpiresAt = e.UpdatedAt.Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()

	observability.Store().OnStorePut(ctx, "memory", len(doc.Nodes))
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := errors.ValidateStoreKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	observability.Store().OnStoreDelete(ctx, "memory")
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k, e := range s.entries {
		if !e.Expired() {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Close() error { return nil }

// Cleanup removes expired entries.
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if e.Expired() {
			delete(s.entries, k)
		}
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/observability"
)

// FileStore keeps documents as JSON files in a config directory, one
// file per key.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	ttl     time.Duration
}

// NewFileStore creates a file-based store. If baseDir is empty, it
// defaults to ~/.config/nodewire/documents/. ttl <= 0 disables expiry.
func NewFileStore(baseDir string, ttl time.Duration) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "nodewire", "documents")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, ttl: ttl}, nil
}

func (s *FileStore) entryPath(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

func (s *FileStore) Get(ctx context.Context, key string) (*Entry, error) {
	if err := errors.ValidateStoreKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.entryPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			observability.Store().OnStoreGet(ctx, "file", false)
			return nil, nil
		}
		return nil, fmt.Errorf("read document file: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse document entry: %w", err)
	}

	if e.Expired() {
		os.Remove(path)
		observability.Store().OnStoreGet(ctx, "file", false)
		return nil, nil
	}
	observability.Store().OnStoreGet(ctx, "file", true)
	return &e, nil
}

func (s *FileStore) Set(ctx context.Context, key string, doc document.Document) error {
	if err := errors.ValidateStoreKey(key); err != nil {
		return err
	}

	e := Entry{
		Key:       key,
		Document:  doc,
		UpdatedAt: time.Now(),
	}
	if s.ttl > 0 {
		e.ExpiresAt = e.UpdatedAt.Add(s.ttl)
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.entryPath(key), data, 0600); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	observability.Store().OnStorePut(ctx, "file", len(doc.Nodes))
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := errors.ValidateStoreKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.entryPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove document file: %w", err)
	}
	observability.Store().OnStoreDelete(ctx, "file")
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error { return nil }

// Cleanup removes expired entry files.
func (s *FileStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read document dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		if e.Expired() {
			os.Remove(path)
		}
	}
	return nil
}

// Path returns the base directory for document files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

package store

import (
	"context"
	"testing"
	"time"

	"github.com/nodewire/nodewire/pkg/document"
)

// backends that can run without external services.
func testStores(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(0),
		"file":   file,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	doc := document.Starter()

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			if err := s.Set(ctx, "shader-v1", doc); err != nil {
				t.Fatalf("Set: %v", err)
			}

			e, err := s.Get(ctx, "shader-v1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if e == nil {
				t.Fatal("entry missing")
			}
			if len(e.Document.Nodes) != len(doc.Nodes) {
				t.Errorf("nodes = %d, want %d", len(e.Document.Nodes), len(doc.Nodes))
			}
			if e.UpdatedAt.IsZero() {
				t.Error("UpdatedAt not set")
			}

			keys, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(keys) != 1 || keys[0] != "shader-v1" {
				t.Errorf("keys = %v", keys)
			}

			if err := s.Delete(ctx, "shader-v1"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if e, _ := s.Get(ctx, "shader-v1"); e != nil {
				t.Error("entry survived delete")
			}
		})
	}
}

func TestStoreMissingKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			e, err := s.Get(ctx, "absent")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if e != nil {
				t.Errorf("entry = %+v, want nil", e)
			}
			// Deleting an absent key is fine.
			if err := s.Delete(ctx, "absent"); err != nil {
				t.Errorf("Delete: %v", err)
			}
		})
	}
}

func TestStoreRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			for _, key := range []string{"", "a/b", "..", "x\\y"} {
				if err := s.Set(ctx, key, document.Document{FormatVersion: document.CurrentVersion}); err == nil {
					t.Errorf("Set(%q) accepted", key)
				}
				if _, err := s.Get(ctx, key); err == nil {
					t.Errorf("Get(%q) accepted", key)
				}
			}
		})
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Nanosecond)

	if err := s.Set(ctx, "ephemeral", document.Starter()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(time.Millisecond)

	if e, _ := s.Get(ctx, "ephemeral"); e != nil {
		t.Error("expired entry still readable")
	}
	if keys, _ := s.List(ctx); len(keys) != 0 {
		t.Errorf("keys = %v", keys)
	}

	if err := s.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), time.Nanosecond)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	if err := s.Set(ctx, "ephemeral", document.Starter()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(time.Millisecond)

	if err := s.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("keys = %v", keys)
	}
}

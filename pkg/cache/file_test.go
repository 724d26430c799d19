package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"
)

func TestFileCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() failed: %v", err)
	}

	payload := []byte(`{"indicador": "0004167"}`)
	if err := c.Set(ctx, ClassData, "key1", payload); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, hit, err := c.Get(ctx, ClassData, "key1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !hit {
		t.Fatal("Get() missed a freshly stored entry")
	}
	if string(got) != string(payload) {
		t.Errorf("Get() = %q, want the exact stored bytes", got)
	}
}

func TestFileCache_Miss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	got, hit, err := c.Get(ctx, ClassData, "missing")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if hit || got != nil {
		t.Error("Get() should miss for an unknown key")
	}
}

func TestFileCache_ClassesDoNotCollide(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, ClassData, "key", []byte("data")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	_, hit, err := c.Get(ctx, ClassMetadata, "key")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if hit {
		t.Error("same key in another class should miss")
	}
}

func TestFileCache_ExpiredReadsAsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, ClassData, "key", []byte("stale")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	// Rewind the on-disk expiry below the TTL floor.
	path := c.path(ClassData, "key")
	expired, _ := json.Marshal(fileEntry{
		Payload:   []byte("stale"),
		CreatedAt: time.Now().Add(-48 * time.Hour),
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	})
	if err := os.WriteFile(path, expired, 0o644); err != nil {
		t.Fatalf("rewriting entry failed: %v", err)
	}

	_, hit, err := c.Get(ctx, ClassData, "key")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if hit {
		t.Error("expired entry should read as a miss")
	}

	// The expired file is removed on the way out.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}
}

func TestFileCache_CorruptEntryReadsAsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, ClassData, "key", []byte("x")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := os.WriteFile(c.path(ClassData, "key"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("corrupting entry failed: %v", err)
	}

	_, hit, err := c.Get(ctx, ClassData, "key")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if hit {
		t.Error("corrupt entry should read as a miss")
	}
}

func TestFileCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, ClassData, "key", []byte("old")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := c.Set(ctx, ClassData, "key", []byte("new")); err != nil {
		t.Fatalf("second Set() failed: %v", err)
	}

	got, hit, _ := c.Get(ctx, ClassData, "key")
	if !hit || string(got) != "new" {
		t.Errorf("Get() = %q, %v; want new, true", got, hit)
	}
}

func TestFileCache_ClearNamespace(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	c.Set(ctx, ClassData, "d1", []byte("1"))
	c.Set(ctx, ClassData, "d2", []byte("2"))
	c.Set(ctx, ClassMetadata, "m1", []byte("3"))

	removed, err := c.Clear(ctx, NamespaceData)
	if err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Clear() removed %d entries, want 2", removed)
	}

	// The other namespace is untouched.
	_, hit, _ := c.Get(ctx, ClassMetadata, "m1")
	if !hit {
		t.Error("clearing data namespace should not touch metadata entries")
	}
	_, hit, _ = c.Get(ctx, ClassData, "d1")
	if hit {
		t.Error("cleared entry should miss")
	}
}

func TestFileCache_ClearAll(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	c.Set(ctx, ClassData, "d1", []byte("1"))
	c.Set(ctx, ClassMetadata, "m1", []byte("2"))

	removed, err := c.Clear(ctx, "")
	if err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Clear() removed %d entries, want 2", removed)
	}
}

func TestFileCache_Stats(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	c.Set(ctx, ClassData, "d1", []byte("1"))
	c.Set(ctx, ClassData, "d2", []byte("2"))
	c.Set(ctx, ClassMetadata, "m1", []byte("3"))

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("total entries = %d, want 3", stats.Entries)
	}
	if stats.Namespaces[NamespaceData].Entries != 2 {
		t.Errorf("data entries = %d, want 2", stats.Namespaces[NamespaceData].Entries)
	}
	if stats.Namespaces[NamespaceMetadata].Entries != 1 {
		t.Errorf("metadata entries = %d, want 1", stats.Namespaces[NamespaceMetadata].Entries)
	}
	if stats.Bytes == 0 {
		t.Error("byte count should be non-zero")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, ClassData, "key", []byte("value")); err != nil {
		t.Errorf("Set() failed: %v", err)
	}
	_, hit, err := c.Get(ctx, ClassData, "key")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if hit {
		t.Error("NullCache should always miss")
	}

	removed, err := c.Clear(ctx, "")
	if err != nil || removed != 0 {
		t.Errorf("Clear() = %d, %v; want 0, nil", removed, err)
	}
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tmcosta/goine/pkg/ine"
)

// FileCache stores one entry per file under <dir>/<namespace>/, with the
// filename derived from the entry key. Writes go through a temp file and
// rename, so concurrent readers across processes never observe a torn
// entry. Reads are non-mutating apart from removing entries found
// expired or corrupt.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &ine.CacheError{Op: "init", Err: err}
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root directory.
func (c *FileCache) Dir() string { return c.dir }

// fileEntry is the on-disk envelope around the payload bytes.
type fileEntry struct {
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns the payload stored under key, or a miss when the entry
// does not exist, has expired, or is unreadable as an entry. Expired
// and corrupt entries are removed on the way out.
func (c *FileCache) Get(ctx context.Context, class Class, key string) ([]byte, bool, error) {
	path := c.path(class, key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &ine.CacheError{Op: "get", Err: err}
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Payload, true, nil
}

// Set stores payload under key with the class TTL, overwriting any
// previous entry. The write is atomic per key.
func (c *FileCache) Set(ctx context.Context, class Class, key string, payload []byte) error {
	now := time.Now()
	data, err := json.Marshal(fileEntry{
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(class.TTL()),
	})
	if err != nil {
		return &ine.CacheError{Op: "set", Err: err}
	}

	path := c.path(class, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &ine.CacheError{Op: "set", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return &ine.CacheError{Op: "set", Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &ine.CacheError{Op: "set", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &ine.CacheError{Op: "set", Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return &ine.CacheError{Op: "set", Err: err}
	}
	return nil
}

// Clear removes every entry in namespace, or in all namespaces when
// namespace is empty. It returns the number of entries removed.
func (c *FileCache) Clear(ctx context.Context, namespace string) (int, error) {
	namespaces := []string{NamespaceData, NamespaceMetadata}
	if namespace != "" {
		namespaces = []string{namespace}
	}

	removed := 0
	for _, ns := range namespaces {
		dir := filepath.Join(c.dir, ns)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return removed, &ine.CacheError{Op: "clear", Err: err}
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return removed, &ine.CacheError{Op: "clear", Err: err}
			}
			removed++
		}
	}
	return removed, nil
}

// Stats walks the cache directory and reports entry counts and payload
// sizes per namespace.
func (c *FileCache) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Namespaces: make(map[string]NamespaceStats)}
	for _, ns := range []string{NamespaceData, NamespaceMetadata} {
		dir := filepath.Join(c.dir, ns)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return stats, &ine.CacheError{Op: "stats", Err: err}
		}
		nsStats := NamespaceStats{}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			nsStats.Entries++
			nsStats.Bytes += info.Size()
		}
		stats.Namespaces[ns] = nsStats
		stats.Entries += nsStats.Entries
		stats.Bytes += nsStats.Bytes
	}
	return stats, nil
}

// Close does nothing for the file cache.
func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(class Class, key string) string {
	return filepath.Join(c.dir, class.Namespace(), fmt.Sprintf("%s.json", key))
}

var _ Cache = (*FileCache)(nil)

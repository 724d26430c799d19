// Package cache provides the persistent response cache used by the
// endpoint clients.
//
// Entries are raw upstream payload bytes keyed by request identity
// (endpoint + sorted query parameters + language, see [Key]) and grouped
// into namespaces by TTL class: catalogue and metadata responses live
// for seven days, data responses for one day. An expired entry behaves
// exactly like a cold miss — no caller ever observes bytes older than
// their TTL class.
//
// Three backends implement [Cache]: [FileCache] (the default, one file
// per entry with atomic replace), [RedisCache] (shared cache over
// go-redis), and [NullCache] (caching disabled).
//
// Storage failures are wrapped in *ine.CacheError and never silently
// swallowed; callers are expected to fall back to a direct network
// fetch and log the condition.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Class is the TTL policy attached to a category of cached entries.
// Classes are fixed per endpoint type, not per call.
type Class int

const (
	// ClassData covers data-endpoint responses (1 day).
	ClassData Class = iota
	// ClassMetadata covers catalogue and metadata responses (7 days).
	ClassMetadata
)

// Namespace names for [Cache.Clear] and [Stats].
const (
	NamespaceData     = "data"
	NamespaceMetadata = "metadata"
)

// Namespace returns the namespace entries of this class are stored in.
func (c Class) Namespace() string {
	if c == ClassMetadata {
		return NamespaceMetadata
	}
	return NamespaceData
}

// TTL returns the expiry duration for this class.
func (c Class) TTL() time.Duration {
	if c == ClassMetadata {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// Cache is a key -> payload store with per-class TTL.
//
// Get treats expired entries as misses. Set always overwrites. Clear
// removes every entry in a namespace (or all namespaces for ""), with
// no partial eviction policy — entries self-expire. All storage-layer
// failures come back as *ine.CacheError.
type Cache interface {
	Get(ctx context.Context, class Class, key string) ([]byte, bool, error)
	Set(ctx context.Context, class Class, key string, payload []byte) error
	Clear(ctx context.Context, namespace string) (int, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// NamespaceStats is the per-namespace slice of [Stats].
type NamespaceStats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
}

// Stats summarizes cache occupancy.
type Stats struct {
	Entries    int                       `json:"entries"`
	Bytes      int64                     `json:"bytes"`
	Namespaces map[string]NamespaceStats `json:"namespaces"`
}

// Key derives the deterministic cache key for a request: a SHA-256 hash
// over the endpoint identity, the sorted query parameters, and the
// response language. Identical requests always map to the same key.
func Key(endpoint string, params url.Values, lang string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(endpoint)
	for _, k := range keys {
		vals := append([]string(nil), params[k]...)
		sort.Strings(vals)
		for _, v := range vals {
			b.WriteByte('&')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	b.WriteString("#lang=")
	b.WriteString(lang)

	h := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(h[:])
}

package cache

import "context"

// NullCache is a no-op cache that never stores anything.
// Used when caching is disabled or a real backend fails to initialize.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() *NullCache { return &NullCache{} }

// Get always reports a miss.
func (*NullCache) Get(ctx context.Context, class Class, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (*NullCache) Set(ctx context.Context, class Class, key string, payload []byte) error {
	return nil
}

// Clear does nothing.
func (*NullCache) Clear(ctx context.Context, namespace string) (int, error) { return 0, nil }

// Stats reports an empty cache.
func (*NullCache) Stats(ctx context.Context) (Stats, error) {
	return Stats{Namespaces: map[string]NamespaceStats{}}, nil
}

// Close does nothing.
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)

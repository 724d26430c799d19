package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tmcosta/goine/pkg/ine"
)

// keyPrefix scopes all goine entries inside a shared Redis instance.
const keyPrefix = "goine"

// RedisCache implements Cache on a Redis instance, for setups where
// several client processes share one cache. Expiry is delegated to
// Redis TTLs, so an expired entry is a genuine miss, and SET is atomic
// per key.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache connects to the Redis instance at addr (host:port) and
// verifies the connection with a ping.
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, &ine.CacheError{Op: "init", Err: err}
	}
	return &RedisCache{rdb: rdb}, nil
}

func redisKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, namespace, key)
}

// Get returns the payload stored under key, with expiry handled by the
// Redis TTL.
func (c *RedisCache) Get(ctx context.Context, class Class, key string) ([]byte, bool, error) {
	payload, err := c.rdb.Get(ctx, redisKey(class.Namespace(), key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &ine.CacheError{Op: "get", Err: err}
	}
	return payload, true, nil
}

// Set stores payload under key with the class TTL, overwriting any
// previous entry.
func (c *RedisCache) Set(ctx context.Context, class Class, key string, payload []byte) error {
	if err := c.rdb.Set(ctx, redisKey(class.Namespace(), key), payload, class.TTL()).Err(); err != nil {
		return &ine.CacheError{Op: "set", Err: err}
	}
	return nil
}

// Clear removes every goine entry in namespace ("" for all) and returns
// the number of entries removed.
func (c *RedisCache) Clear(ctx context.Context, namespace string) (int, error) {
	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, namespace)
	if namespace == "" {
		pattern = keyPrefix + ":*"
	}

	removed := 0
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, &ine.CacheError{Op: "clear", Err: err}
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, &ine.CacheError{Op: "clear", Err: err}
	}
	return removed, nil
}

// Stats scans the goine keyspace and reports entry counts and payload
// sizes per namespace.
func (c *RedisCache) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Namespaces: make(map[string]NamespaceStats)}
	for _, ns := range []string{NamespaceData, NamespaceMetadata} {
		nsStats := NamespaceStats{}
		iter := c.rdb.Scan(ctx, 0, fmt.Sprintf("%s:%s:*", keyPrefix, ns), 100).Iterator()
		for iter.Next(ctx) {
			size, err := c.rdb.StrLen(ctx, iter.Val()).Result()
			if err != nil {
				continue
			}
			nsStats.Entries++
			nsStats.Bytes += size
		}
		if err := iter.Err(); err != nil {
			return stats, &ine.CacheError{Op: "stats", Err: err}
		}
		stats.Namespaces[ns] = nsStats
		stats.Entries += nsStats.Entries
		stats.Bytes += nsStats.Bytes
	}
	return stats, nil
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error { return c.rdb.Close() }

var _ Cache = (*RedisCache)(nil)

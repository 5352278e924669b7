package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sceneforge/internal/core"
)

// keyPrefix namespaces sceneforge entries within a shared Redis instance.
const keyPrefix = "sceneforge:"

// RedisStore is the Redis-backed Store for multi-instance deployments.
// Expiry is enforced by Redis itself; capacity is left to Redis eviction
// policy since entries are small and short-lived.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the Redis instance at url and verifies the
// connection before returning. Non-positive ttl falls back to DefaultTTL.
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	slog.Info("redis model cache connected", "ttl", ttl)

	return &RedisStore{client: client, ttl: ttl}, nil
}

// Get retrieves the cached records for key. Decode failures are treated as a
// miss; the damaged entry is dropped.
func (s *RedisStore) Get(ctx context.Context, key string) ([]core.ModelRecord, bool) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("redis cache read failed", "error", err)
		}
		return nil, false
	}

	var records []core.ModelRecord
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("dropping undecodable cache entry", "key", key, "error", err)
		_ = s.client.Del(ctx, keyPrefix+key).Err()
		return nil, false
	}
	return records, true
}

// Set stores records under key with the configured TTL. Write failures are
// logged and swallowed: the cache is an optimization, never a dependency.
func (s *RedisStore) Set(ctx context.Context, key string, records []core.ModelRecord) {
	data, err := json.Marshal(records)
	if err != nil {
		slog.Warn("failed to marshal cache entry", "key", key, "error", err)
		return
	}
	if err := s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		slog.Warn("redis cache write failed", "key", key, "error", err)
	}
}

// Clear removes all sceneforge entries.
func (s *RedisStore) Clear(ctx context.Context) {
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		_ = s.client.Del(ctx, iter.Val()).Err()
	}
	if err := iter.Err(); err != nil {
		slog.Warn("redis cache clear failed", "error", err)
	}
}

// Len returns the number of live sceneforge entries.
func (s *RedisStore) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count := 0
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

var _ Store = (*RedisStore)(nil)

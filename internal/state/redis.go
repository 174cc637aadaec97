package state

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash key the redis store uses when none is
// configured.
const DefaultRedisKey = "release-notifier:last_seen"

// RedisStore keeps the whole record in a single hash, one field per
// repository.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to redis using a redis:// URL and verifies the
// connection with a ping.
func NewRedisStore(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required for the redis state backend")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}, nil
}

// Load reads the full hash into a record.
func (s *RedisStore) Load(ctx context.Context) (Record, error) {
	vals, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load state hash %s: %w", s.key, err)
	}

	rec := make(Record, len(vals))
	for repo, tag := range vals {
		rec[repo] = tag
	}
	return rec, nil
}

// Persist writes every entry of the record into the hash. Fields for
// repositories absent from rec are left untouched.
func (s *RedisStore) Persist(ctx context.Context, rec Record) error {
	if len(rec) == 0 {
		return nil
	}
	if err := s.client.HSet(ctx, s.key, map[string]string(rec)).Err(); err != nil {
		return fmt.Errorf("failed to persist state hash %s: %w", s.key, err)
	}
	return nil
}

// Close closes the redis client.
func (s *RedisStore) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

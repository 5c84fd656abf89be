package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding all records.
const DefaultRedisKey = "bilingo:records"

// RedisRemote stores records as fields of a single Redis hash.
type RedisRemote struct {
	client *redis.Client
	key    string
}

// RedisConfig holds configuration for the Redis tier.
type RedisConfig struct {
	URL string // Redis connection URL (e.g., "redis://localhost:6379")
	Key string // Hash key (default: "bilingo:records")
}

// NewRedisRemote creates a new Redis tier with the given configuration.
func NewRedisRemote(cfg RedisConfig) (*RedisRemote, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return NewRedisRemoteFromClient(client, cfg.Key), nil
}

// NewRedisRemoteFromClient creates a RedisRemote from an existing Redis client.
func NewRedisRemoteFromClient(client *redis.Client, key string) *RedisRemote {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisRemote{
		client: client,
		key:    key,
	}
}

// LoadAll implements Remote.
func (r *RedisRemote) LoadAll(ctx context.Context) (map[string][]byte, error) {
	vals, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(vals))
	for k, v := range vals {
		out[k] = []byte(v)
	}
	return out, nil
}

// Upsert implements Remote. HSET replaces an existing field.
func (r *RedisRemote) Upsert(ctx context.Context, key string, value []byte) error {
	return r.client.HSet(ctx, r.key, key, string(value)).Err()
}

// Close closes the Redis connection.
func (r *RedisRemote) Close() error {
	return r.client.Close()
}

// Ping tests the Redis connection.
func (r *RedisRemote) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ Remote = (*RedisRemote)(nil)

package resource

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store. It lets several server processes
// share one fetched result.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures RedisStore behavior.
type RedisStoreOption func(*RedisStore)

// WithRedisPrefix sets the key prefix.
// Default: "userform:resource:".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(r *RedisStore) { r.prefix = prefix }
}

// NewRedisStore creates a RedisStore. The client is not closed by the
// store, as it may be shared with other components.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	r := &RedisStore{
		client: client,
		prefix: "userform:resource:",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

// Save stores data with ttl; zero ttl keeps the key until deleted.
func (r *RedisStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}

// Load returns (nil, nil) for a missing key.
func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Prefix returns the current key prefix.
func (r *RedisStore) Prefix() string {
	return r.prefix
}

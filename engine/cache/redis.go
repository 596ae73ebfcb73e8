package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis is a networked capability.Cache backed by a Redis key/value
// store, for deployments sharing a cache across processes or hosts.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an already-configured client. prefix namespaces every
// key (e.g. "rosflow:cache:") to keep the cache's keyspace separate
// from other Redis tenants.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *Redis) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

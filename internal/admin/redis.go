package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore stores each session token as a key with a TTL, so
// expiry is enforced by Redis itself.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

func NewRedisSessionStore(client *redis.Client, prefix string) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: prefix}
}

var _ SessionStore = (*RedisSessionStore)(nil)

func (r *RedisSessionStore) key(token string) string {
	return r.prefix + ":" + token
}

func (r *RedisSessionStore) Put(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("admin: failed to store session in redis: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Exists(ctx context.Context, token string) (bool, error) {
	_, err := r.client.Get(ctx, r.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("admin: failed to check session in redis: %w", err)
	}
	return true, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("admin: failed to delete session from redis: %w", err)
	}
	return nil
}

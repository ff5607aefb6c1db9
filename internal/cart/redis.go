package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage stores each cart as a single JSON value under one key, fully
// replaced on every write. Abandoned carts expire with the TTL.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, prefix string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix, ttl: ttl}
}

var _ Storage = (*RedisStorage)(nil)

func (r *RedisStorage) key(cartID string) string {
	return r.prefix + ":" + cartID
}

func (r *RedisStorage) Save(ctx context.Context, cartID string, items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cart: failed to marshal cart %s: %w", cartID, err)
	}
	if err := r.client.Set(ctx, r.key(cartID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cart: failed to save cart %s: %w", cartID, err)
	}
	return nil
}

func (r *RedisStorage) Load(ctx context.Context, cartID string) ([]LineItem, error) {
	data, err := r.client.Get(ctx, r.key(cartID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []LineItem{}, nil
		}
		return nil, fmt.Errorf("cart: failed to load cart %s: %w", cartID, err)
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("cart: corrupt cart snapshot %s: %w", cartID, err)
	}
	return items, nil
}

func (r *RedisStorage) Delete(ctx context.Context, cartID string) error {
	if err := r.client.Del(ctx, r.key(cartID)).Err(); err != nil {
		return fmt.Errorf("cart: failed to delete cart %s: %w", cartID, err)
	}
	return nil
}

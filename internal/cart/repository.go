package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Repository persists cart contents.
type Repository interface {
	Get(ctx context.Context, sessionID string) ([]Item, error)
	Save(ctx context.Context, sessionID string, items []Item) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisRepository stores carts in Redis keyed by session ID, sharing the
// session lifetime so an expired session drops its cart too.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRepository constructs a RedisRepository.
func NewRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

// Get loads cart items, returning an empty slice for unknown sessions.
func (r *RedisRepository) Get(ctx context.Context, sessionID string) ([]Item, error) {
	payload, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var items []Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save replaces the whole cart.
func (r *RedisRepository) Save(ctx context.Context, sessionID string, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err()
}

// Clear removes the cart.
func (r *RedisRepository) Clear(ctx context.Context, sessionID string) error {
	err := r.client.Del(ctx, r.key(sessionID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (r *RedisRepository) key(sessionID string) string {
	return "cart:" + sessionID
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/cart-store/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStorage stores the cart as a JSON string value. A zero ttl keeps it
// until the next write.
type RedisStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, key string, ttl time.Duration) *RedisStorage {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStorage{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (r *RedisStorage) Load(ctx context.Context) (domain.Cart, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return Decode(data)
}

func (r *RedisStorage) Save(ctx context.Context, cart domain.Cart) error {
	data, err := Encode(cart)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, string(data), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Key() string {
	return r.key
}

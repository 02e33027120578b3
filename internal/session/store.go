package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/onlineshop/tvshop/internal/models"
)

// Store keeps per-session state outside the handlers. The cart is the only
// value stored today, one JSON blob under the session key.
type Store interface {
	GetCart(ctx context.Context, key string) (models.Cart, error)
	SetCart(ctx context.Context, key string, cart models.Cart) error
	DeleteCart(ctx context.Context, key string) error
}

const cartTTL = 24 * time.Hour

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func cartKey(key string) string { return "cart:" + key }

func (s *RedisStore) GetCart(ctx context.Context, key string) (models.Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return models.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return cart, nil
}

func (s *RedisStore) SetCart(ctx context.Context, key string, cart models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.rdb.Set(ctx, cartKey(key), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteCart(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, cartKey(key)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

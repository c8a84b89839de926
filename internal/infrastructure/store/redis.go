// Package store provides the storefront's only durable resource: the
// per-session cart sequence, kept as a single JSON array under one key, plus
// a short-lived cache for catalog sections.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/pizzacraft-storefront/internal/client"
	"github.com/example/pizzacraft-storefront/internal/domain/cart"
)

// Carts outlive catalog cache entries by a wide margin: a returning session
// should find its cart, while catalog data may go stale within minutes.
const (
	cartBaseTTL    = 7 * 24 * time.Hour
	catalogBaseTTL = 15 * time.Minute
)

// RedisCartStore persists each session's cart under cart:<sessionID>.
type RedisCartStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCartStore(c *redis.Client) *RedisCartStore {
	return &RedisCartStore{client: c, baseTTL: cartBaseTTL}
}

func (r *RedisCartStore) Load(ctx context.Context, sessionID string) ([]cart.Item, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrNoSavedCart
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []cart.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return items, nil
}

func (r *RedisCartStore) Save(ctx context.Context, sessionID string, items []cart.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Minute
	if err := r.client.Set(ctx, cartKey(sessionID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// RedisCatalogCache implements client.CatalogCache with catalog:<type> keys.
type RedisCatalogCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCatalogCache(c *redis.Client) *RedisCatalogCache {
	return &RedisCatalogCache{client: c, baseTTL: catalogBaseTTL}
}

func (r *RedisCatalogCache) Get(ctx context.Context, kind string) ([]client.Ingredient, error) {
	data, err := r.client.Get(ctx, catalogKey(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, client.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []client.Ingredient
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	return items, nil
}

func (r *RedisCatalogCache) Set(ctx context.Context, kind string, items []client.Ingredient) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, catalogKey(kind), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func catalogKey(kind string) string {
	return "catalog:" + kind
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/pedidos-client/internal/core/domain"
)

const (
	restaurantsKey = "catalog:restaurants"
	menuKeyPrefix  = "catalog:menu:"
)

// RedisCatalogCache keeps restaurant and menu lists as JSON strings with
// a TTL.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{client: client, ttl: ttl}
}

func (r *RedisCatalogCache) GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool, error) {
	var restaurants []domain.Restaurant
	ok, err := r.get(ctx, restaurantsKey, &restaurants)
	return restaurants, ok, err
}

func (r *RedisCatalogCache) SetRestaurants(ctx context.Context, restaurants []domain.Restaurant) error {
	return r.set(ctx, restaurantsKey, restaurants)
}

func (r *RedisCatalogCache) GetMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, bool, error) {
	var items []domain.MenuItem
	ok, err := r.get(ctx, menuKeyPrefix+restaurantID, &items)
	return items, ok, err
}

func (r *RedisCatalogCache) SetMenu(ctx context.Context, restaurantID string, items []domain.MenuItem) error {
	return r.set(ctx, menuKeyPrefix+restaurantID, items)
}

func (r *RedisCatalogCache) get(ctx context.Context, key string, out any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		// a corrupt entry behaves like a miss and is overwritten on the next set
		return false, nil
	}
	return true, nil
}

func (r *RedisCatalogCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/logger"
)

// Mock CatalogCache
type mockCache struct {
	mu          sync.Mutex
	restaurants []domain.Restaurant
	menus       map[string][]domain.MenuItem
	readErr     error
}

func newMockCache() *mockCache {
	return &mockCache{menus: make(map[string][]domain.MenuItem)}
}

func (c *mockCache) GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	return c.restaurants, c.restaurants != nil, nil
}

func (c *mockCache) SetRestaurants(ctx context.Context, restaurants []domain.Restaurant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restaurants = restaurants
	return nil
}

func (c *mockCache) GetMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	items, ok := c.menus[restaurantID]
	return items, ok, nil
}

func (c *mockCache) SetMenu(ctx context.Context, restaurantID string, items []domain.MenuItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menus[restaurantID] = items
	return nil
}

func TestCatalog_ReadThrough(t *testing.T) {
	backend := newMockBackend()
	catalog := NewCatalog(backend, newMockCache(), logger.Discard())
	ctx := context.Background()

	first := catalog.Restaurants(ctx)
	second := catalog.Restaurants(ctx)

	if len(first) != 2 || len(second) != 2 {
		t.Errorf("expected 2 restaurants twice, got %d and %d", len(first), len(second))
	}
	if backend.restaurantHit != 1 {
		t.Errorf("expected 1 backend call, got %d", backend.restaurantHit)
	}

	catalog.Menu(ctx, "r1")
	catalog.Menu(ctx, "r1")
	catalog.Menu(ctx, "r2")
	if backend.menuHit != 2 {
		t.Errorf("expected 2 menu calls, got %d", backend.menuHit)
	}
}

func TestCatalog_FailuresAreNotCached(t *testing.T) {
	backend := newMockBackend()
	backend.listErr = &domain.TransportError{Op: "list restaurants", Err: errors.New("refused")}
	cache := newMockCache()
	catalog := NewCatalog(backend, cache, logger.Discard())
	ctx := context.Background()

	if got := catalog.Restaurants(ctx); got == nil || len(got) != 0 {
		t.Errorf("expected an empty list on failure, got %v", got)
	}

	backend.listErr = nil
	if got := catalog.Restaurants(ctx); len(got) != 2 {
		t.Errorf("expected the backend to be asked again, got %d restaurants", len(got))
	}
	if backend.restaurantHit != 2 {
		t.Errorf("expected 2 backend calls, got %d", backend.restaurantHit)
	}
}

func TestCatalog_CacheErrorFallsBackToBackend(t *testing.T) {
	backend := newMockBackend()
	cache := newMockCache()
	cache.readErr = errors.New("redis down")
	catalog := NewCatalog(backend, cache, logger.Discard())

	if got := catalog.Menu(context.Background(), "r2"); len(got) != 1 {
		t.Errorf("expected menu from backend, got %d items", len(got))
	}
}

func TestCatalog_OrderHistory(t *testing.T) {
	backend := newMockBackend()
	backend.history["cliente-1"] = []domain.Order{{ID: "o1"}, {ID: "o2"}}
	catalog := NewCatalog(backend, nil, logger.Discard())

	if got := catalog.OrderHistory(context.Background(), "cliente-1"); len(got) != 2 {
		t.Errorf("expected 2 orders, got %d", len(got))
	}
	if got := catalog.OrderHistory(context.Background(), "cliente-2"); len(got) != 0 {
		t.Errorf("expected no orders, got %d", len(got))
	}
}

func TestCatalog_ReloadBypassesCache(t *testing.T) {
	backend := newMockBackend()
	cache := newMockCache()
	catalog := NewCatalog(backend, cache, logger.Discard())
	ctx := context.Background()

	catalog.Menu(ctx, "r1")
	backend.menus["r1"] = backend.menus["r1"][:1]

	if got := catalog.Menu(ctx, "r1"); len(got) != 2 {
		t.Errorf("expected cached menu with 2 items, got %d", len(got))
	}
	if got := catalog.ReloadMenu(ctx, "r1"); len(got) != 1 {
		t.Errorf("expected reloaded menu with 1 item, got %d", len(got))
	}
	if got := catalog.Menu(ctx, "r1"); len(got) != 1 {
		t.Errorf("expected cache repopulated by reload, got %d items", len(got))
	}
	if backend.menuHit != 2 {
		t.Errorf("expected 2 backend calls, got %d", backend.menuHit)
	}

	catalog.Restaurants(ctx)
	catalog.ReloadRestaurants(ctx)
	if backend.restaurantHit != 2 {
		t.Errorf("expected reload to reach the backend, got %d calls", backend.restaurantHit)
	}
}

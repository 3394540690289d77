package service

import (
	"context"
	"log/slog"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/logger"
	"github.com/rl1809/pedidos-client/internal/port"
)

// Catalog serves restaurant and menu reference data through an optional
// read-through cache. Failures degrade to empty lists and are never cached.
type Catalog struct {
	backend port.Backend
	cache   port.CatalogCache
	log     *logger.Logger
}

// NewCatalog builds a catalog. cache may be nil.
func NewCatalog(backend port.Backend, cache port.CatalogCache, log *logger.Logger) *Catalog {
	return &Catalog{backend: backend, cache: cache, log: log}
}

func (c *Catalog) Restaurants(ctx context.Context) []domain.Restaurant {
	return c.restaurants(ctx, true)
}

// ReloadRestaurants skips the cached copy and repopulates it.
func (c *Catalog) ReloadRestaurants(ctx context.Context) []domain.Restaurant {
	return c.restaurants(ctx, false)
}

func (c *Catalog) restaurants(ctx context.Context, useCache bool) []domain.Restaurant {
	requestID := logger.GenerateRequestID()

	if useCache && c.cache != nil {
		cached, ok, err := c.cache.GetRestaurants(ctx)
		if err != nil {
			c.log.Warn("cache_read_failed", requestID, "restaurant cache unavailable")
		} else if ok {
			return cached
		}
	}

	restaurants, err := c.backend.ListRestaurants(ctx)
	if err != nil {
		c.log.Error("restaurants_fetch_failed", requestID, "failed to list restaurants", err)
		return []domain.Restaurant{}
	}

	if c.cache != nil {
		if err := c.cache.SetRestaurants(ctx, restaurants); err != nil {
			c.log.Warn("cache_write_failed", requestID, "failed to cache restaurants")
		}
	}
	return restaurants
}

func (c *Catalog) Menu(ctx context.Context, restaurantID string) []domain.MenuItem {
	return c.menu(ctx, restaurantID, true)
}

// ReloadMenu skips the cached copy and repopulates it.
func (c *Catalog) ReloadMenu(ctx context.Context, restaurantID string) []domain.MenuItem {
	return c.menu(ctx, restaurantID, false)
}

func (c *Catalog) menu(ctx context.Context, restaurantID string, useCache bool) []domain.MenuItem {
	requestID := logger.GenerateRequestID()

	if useCache && c.cache != nil {
		cached, ok, err := c.cache.GetMenu(ctx, restaurantID)
		if err != nil {
			c.log.Warn("cache_read_failed", requestID, "menu cache unavailable",
				slog.String("restaurant_id", restaurantID))
		} else if ok {
			return cached
		}
	}

	items, err := c.backend.GetMenu(ctx, restaurantID)
	if err != nil {
		c.log.Error("menu_fetch_failed", requestID, "failed to load menu", err,
			slog.String("restaurant_id", restaurantID))
		return []domain.MenuItem{}
	}

	if c.cache != nil {
		if err := c.cache.SetMenu(ctx, restaurantID, items); err != nil {
			c.log.Warn("cache_write_failed", requestID, "failed to cache menu",
				slog.String("restaurant_id", restaurantID))
		}
	}
	return items
}

// CustomerName returns the display name, falling back to the id itself.
func (c *Catalog) CustomerName(ctx context.Context, customerID string) string {
	name, err := c.backend.GetCustomerName(ctx, customerID)
	if err != nil || name == "" {
		if err != nil {
			c.log.Warn("customer_name_failed", logger.GenerateRequestID(), "falling back to customer id",
				slog.String("customer_id", customerID))
		}
		return customerID
	}
	return name
}

// OrderHistory lists a customer's orders, or nothing when the lookup fails.
func (c *Catalog) OrderHistory(ctx context.Context, customerID string) []domain.Order {
	orders, err := c.backend.ListCustomerOrders(ctx, customerID)
	if err != nil {
		c.log.Error("history_fetch_failed", logger.GenerateRequestID(), "failed to list orders", err,
			slog.String("customer_id", customerID))
		return []domain.Order{}
	}
	return orders
}

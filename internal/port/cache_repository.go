package port

import (
	"context"

	"github.com/rl1809/pedidos-client/internal/core/domain"
)

type CatalogCache interface {
	// GetRestaurants returns the cached restaurant list, false on a miss
	GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool, error)

	SetRestaurants(ctx context.Context, restaurants []domain.Restaurant) error

	// GetMenu returns the cached menu of a restaurant, false on a miss
	GetMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, bool, error)

	SetMenu(ctx context.Context, restaurantID string, items []domain.MenuItem) error
}

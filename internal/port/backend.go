package port

import (
	"context"

	"github.com/rl1809/pedidos-client/internal/core/domain"
)

// Backend is the remote pedidos API. Implementations report non-success
// responses as *domain.ApplicationError and unreachable or unreadable
// responses as *domain.TransportError.
type Backend interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	GetCustomerName(ctx context.Context, customerID string) (string, error)
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	GetDeliveryInfo(ctx context.Context, orderID string) (*domain.DeliveryInfo, error)
	ListCustomerOrders(ctx context.Context, customerID string) ([]domain.Order, error)
}

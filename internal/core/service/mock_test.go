package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/logger"
	"github.com/rl1809/pedidos-client/internal/port"
)

// Mock Backend
type mockBackend struct {
	mu sync.Mutex

	restaurants []domain.Restaurant
	menus       map[string][]domain.MenuItem
	names       map[string]string
	history     map[string][]domain.Order
	delivery    map[string]*domain.DeliveryInfo

	createOrder *domain.Order
	createErr   error
	deliveryErr error
	listErr     error
	menuErr     error

	created       []domain.OrderRequest
	restaurantHit int
	menuHit       int

	// when set, GetMenu, CreateOrder and GetDeliveryInfo signal entry and
	// wait for release
	menuEntered     chan struct{}
	menuRelease     chan struct{}
	createEntered   chan struct{}
	createRelease   chan struct{}
	deliveryEntered chan struct{}
	deliveryRelease chan struct{}
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		restaurants: []domain.Restaurant{
			{ID: "r1", Name: "Pizzaria"},
			{ID: "r2", Name: "Sushi"},
		},
		menus: map[string][]domain.MenuItem{
			"r1": {
				{ID: "p1", Name: "Pizza", UnitPrice: decimal.RequireFromString("10.00")},
				{ID: "p2", Name: "Refrigerante", UnitPrice: decimal.RequireFromString("5.00")},
			},
			"r2": {
				{ID: "s1", Name: "Temaki", UnitPrice: decimal.RequireFromString("22.50")},
			},
		},
		names:       map[string]string{"cliente-1": "Maria"},
		history:     map[string][]domain.Order{},
		delivery:    map[string]*domain.DeliveryInfo{},
		createOrder: &domain.Order{ID: "ord-9"},
	}
}

func (m *mockBackend) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restaurantHit++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Restaurant(nil), m.restaurants...), nil
}

func (m *mockBackend) GetMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	m.mu.Lock()
	entered, release := m.menuEntered, m.menuRelease
	m.menuEntered, m.menuRelease = nil, nil
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.menuHit++
	if m.menuErr != nil {
		return nil, m.menuErr
	}
	return append([]domain.MenuItem(nil), m.menus[restaurantID]...), nil
}

func (m *mockBackend) GetCustomerName(ctx context.Context, customerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.names[customerID]
	if !ok {
		return "", &domain.ApplicationError{Op: "get customer name", StatusCode: 404}
	}
	return name, nil
}

func (m *mockBackend) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	m.mu.Lock()
	entered, release := m.createEntered, m.createRelease
	m.createEntered, m.createRelease = nil, nil
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, req)
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createOrder, nil
}

func (m *mockBackend) GetDeliveryInfo(ctx context.Context, orderID string) (*domain.DeliveryInfo, error) {
	m.mu.Lock()
	entered, release := m.deliveryEntered, m.deliveryRelease
	m.deliveryEntered, m.deliveryRelease = nil, nil
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deliveryErr != nil {
		return nil, m.deliveryErr
	}
	info, ok := m.delivery[orderID]
	if !ok {
		return nil, &domain.ApplicationError{Op: "get delivery status", StatusCode: 404}
	}
	return info, nil
}

func (m *mockBackend) ListCustomerOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.history[customerID]...), nil
}

func (m *mockBackend) createdOrders() []domain.OrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OrderRequest(nil), m.created...)
}

// Mock EventPublisher
type mockPublisher struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func (p *mockPublisher) Publish(ctx context.Context, event domain.SessionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *mockPublisher) count(t domain.SessionEventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Mock ReceiptRepository
type mockReceipts struct {
	mu       sync.Mutex
	receipts []domain.Receipt
	err      error
}

func (r *mockReceipts) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.receipts = append(r.receipts, receipt)
	return nil
}

// newTestNavigator wires a navigator to backend. events may be nil.
func newTestNavigator(backend *mockBackend, events port.EventPublisher) *Navigator {
	log := logger.Discard()
	return NewNavigator("session-1",
		NewCatalog(backend, nil, log),
		NewOrderSubmitter(backend, nil, log),
		NewStatusTracker(backend, log),
		events, log)
}

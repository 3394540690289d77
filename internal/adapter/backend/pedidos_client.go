package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/port"
)

const maxErrorBody = 512

var _ port.Backend = (*PedidosClient)(nil)

// PedidosClient talks to the /api/pedidos backend.
type PedidosClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPedidosClient(baseURL string, timeout time.Duration) *PedidosClient {
	return &PedidosClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type customerNameResponse struct {
	Name string `json:"nome"`
}

func (c *PedidosClient) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	var restaurants []domain.Restaurant
	if err := c.do(ctx, "list restaurants", http.MethodGet, "/restaurantes", nil, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (c *PedidosClient) GetMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	path := fmt.Sprintf("/restaurantes/%s/cardapio", url.PathEscape(restaurantID))
	if err := c.do(ctx, "get menu", http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *PedidosClient) GetCustomerName(ctx context.Context, customerID string) (string, error) {
	var resp customerNameResponse
	path := fmt.Sprintf("/cliente/%s/nome", url.PathEscape(customerID))
	if err := c.do(ctx, "get customer name", http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

func (c *PedidosClient) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, "create order", http.MethodPost, "/criar-pedidos", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *PedidosClient) GetDeliveryInfo(ctx context.Context, orderID string) (*domain.DeliveryInfo, error) {
	var info domain.DeliveryInfo
	path := fmt.Sprintf("/%s/entregador", url.PathEscape(orderID))
	if err := c.do(ctx, "get delivery status", http.MethodGet, path, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *PedidosClient) ListCustomerOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	var orders []domain.Order
	path := fmt.Sprintf("/cliente/%s", url.PathEscape(customerID))
	if err := c.do(ctx, "list customer orders", http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// do sends one request and decodes a 2xx body into out. Non-2xx responses
// become *domain.ApplicationError; everything that prevents reading a
// response becomes *domain.TransportError.
func (c *PedidosClient) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.ApplicationError{Op: op, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.TransportError{Op: op, Err: errors.New("empty response body")}
		}
		return &domain.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

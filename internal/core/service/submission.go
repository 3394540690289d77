package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/logger"
	"github.com/rl1809/pedidos-client/internal/port"
)

const (
	StatusEmptyCart     = "Adicione ao menos um item."
	StatusOrderPlaced   = "Pedido realizado com sucesso!"
	StatusOrderRejected = "Erro ao efetuar pedido."
	StatusUnreachable   = "Erro ao conectar ao backend."
)

type OrderSubmitter struct {
	backend  port.Backend
	receipts port.ReceiptRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewOrderSubmitter builds a submitter. receipts may be nil.
func NewOrderSubmitter(backend port.Backend, receipts port.ReceiptRepository, log *logger.Logger) *OrderSubmitter {
	return &OrderSubmitter{
		backend:  backend,
		receipts: receipts,
		log:      log,
		now:      time.Now,
	}
}

// Submit places the cart as an order and returns the backend-assigned id.
// An empty cart fails with *domain.ValidationError before any request.
// The caller owns clearing the cart on success.
func (s *OrderSubmitter) Submit(ctx context.Context, cart *domain.Cart, restaurantID, courierID string) (string, error) {
	if err := s.Validate(cart); err != nil {
		return "", err
	}

	requestID := logger.GenerateRequestID()
	order, err := s.backend.CreateOrder(ctx, domain.OrderRequest{
		CustomerID: cart.CustomerID,
		Lines:      cart.Lines(),
		CourierID:  courierID,
	})
	if err != nil {
		s.log.Error("order_submit_failed", requestID, "create order failed", err,
			slog.String("customer_id", cart.CustomerID))
		return "", err
	}
	if order == nil || order.ID == "" {
		return "", &domain.ApplicationError{Op: "create order", StatusCode: 200, Body: "response without order id"}
	}

	s.log.Info("order_submitted", requestID, "order placed",
		slog.String("order_id", order.ID),
		slog.String("customer_id", cart.CustomerID),
		slog.String("total", cart.Total().StringFixed(2)))

	s.journal(ctx, requestID, domain.Receipt{
		OrderID:      order.ID,
		CustomerID:   cart.CustomerID,
		RestaurantID: restaurantID,
		Lines:        cart.Lines(),
		Total:        cart.Total(),
		PlacedAt:     s.now().UTC(),
	})

	return order.ID, nil
}

// Validate reports whether cart can be submitted without touching the network.
func (s *OrderSubmitter) Validate(cart *domain.Cart) error {
	if cart == nil || cart.IsEmpty() {
		return &domain.ValidationError{Field: "itens", Message: StatusEmptyCart}
	}
	return nil
}

func (s *OrderSubmitter) journal(ctx context.Context, requestID string, receipt domain.Receipt) {
	if s.receipts == nil {
		return
	}
	if err := s.receipts.SaveReceipt(ctx, receipt); err != nil {
		s.log.Error("receipt_save_failed", requestID, "failed to journal order", err,
			slog.String("order_id", receipt.OrderID))
	}
}

// SubmitStatus maps a Submit error to the status shown on the menu screen.
func SubmitStatus(err error) string {
	var validation *domain.ValidationError
	var transport *domain.TransportError

	switch {
	case err == nil:
		return StatusOrderPlaced
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &transport):
		return StatusUnreachable
	default:
		return StatusOrderRejected
	}
}


package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/logger"
	"github.com/rl1809/pedidos-client/internal/port"
)

// StatusTracker looks up delivery status and remembers the latest snapshot
// per order. Lookups never fail; every failure degrades to sentinel labels.
type StatusTracker struct {
	backend port.Backend
	log     *logger.Logger

	mu     sync.RWMutex
	latest map[string]domain.DeliveryStatusSnapshot
}

func NewStatusTracker(backend port.Backend, log *logger.Logger) *StatusTracker {
	return &StatusTracker{
		backend: backend,
		log:     log,
		latest:  make(map[string]domain.DeliveryStatusSnapshot),
	}
}

func (t *StatusTracker) Fetch(ctx context.Context, orderID string) domain.DeliveryStatusSnapshot {
	requestID := logger.GenerateRequestID()
	snapshot := t.lookup(ctx, requestID, orderID)

	t.mu.Lock()
	t.latest[orderID] = snapshot
	t.mu.Unlock()

	return snapshot
}

// Latest returns the last fetched snapshot for orderID.
func (t *StatusTracker) Latest(orderID string) (domain.DeliveryStatusSnapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.latest[orderID]
	return s, ok
}

func (t *StatusTracker) lookup(ctx context.Context, requestID, orderID string) domain.DeliveryStatusSnapshot {
	info, err := t.backend.GetDeliveryInfo(ctx, orderID)
	if err == nil && info != nil {
		return domain.SnapshotFromInfo(*info)
	}

	var transport *domain.TransportError
	if errors.As(err, &transport) {
		t.log.Error("status_fetch_failed", requestID, "delivery status lookup failed", err,
			slog.String("order_id", orderID))
		return domain.QueryFailedSnapshot()
	}

	t.log.Warn("status_not_found", requestID, "no delivery status for order",
		slog.String("order_id", orderID))
	return domain.NotFoundSnapshot()
}

package port

import (
	"context"

	"github.com/rl1809/pedidos-client/internal/core/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, event domain.SessionEvent) error
}

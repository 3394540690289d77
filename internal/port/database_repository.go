package port

import (
	"context"

	"github.com/rl1809/pedidos-client/internal/core/domain"
)

type ReceiptRepository interface {
	// SaveReceipt journals a submitted order; saving the same order id twice is a no-op
	SaveReceipt(ctx context.Context, receipt domain.Receipt) error
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rl1809/pedidos-client/internal/core/domain"
)

const createReceiptsTable = `
CREATE TABLE IF NOT EXISTS receipts (
	order_id      VARCHAR(64)    NOT NULL PRIMARY KEY,
	customer_id   VARCHAR(128)   NOT NULL,
	restaurant_id VARCHAR(64)    NOT NULL,
	lines_json    JSON           NOT NULL,
	total         DECIMAL(12, 2) NOT NULL,
	placed_at     DATETIME(3)    NOT NULL,
	INDEX idx_receipts_customer (customer_id, placed_at)
)`

// MySQLReceiptJournal records every order this client placed.
type MySQLReceiptJournal struct {
	db *sql.DB
}

func NewMySQLReceiptJournal(db *sql.DB) *MySQLReceiptJournal {
	return &MySQLReceiptJournal{db: db}
}

// Migrate creates the receipts table when missing.
func (m *MySQLReceiptJournal) Migrate(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createReceiptsTable); err != nil {
		return fmt.Errorf("create receipts table: %w", err)
	}
	return nil
}

func (m *MySQLReceiptJournal) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	lines, err := json.Marshal(receipt.Lines)
	if err != nil {
		return fmt.Errorf("marshal lines: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT IGNORE INTO receipts (order_id, customer_id, restaurant_id, lines_json, total, placed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		receipt.OrderID, receipt.CustomerID, receipt.RestaurantID, lines,
		receipt.Total.StringFixed(2), receipt.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

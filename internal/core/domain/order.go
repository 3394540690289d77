package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"clienteId"`
	CustomerName   string          `json:"nomeCliente,omitempty"`
	Lines          []OrderLine     `json:"itens"`
	TotalValue     decimal.Decimal `json:"valorTotal"`
	Status         string          `json:"status,omitempty"`
	CourierID      string          `json:"entregadorId,omitempty"`
	DeliveryStatus string          `json:"statusEntrega,omitempty"`
	CourierName    string          `json:"nomeEntregador,omitempty"`
}

// OrderRequest is the create-order payload.
type OrderRequest struct {
	CustomerID string      `json:"clienteId"`
	Lines      []OrderLine `json:"itens"`
	CourierID  string      `json:"entregadorId,omitempty"`
}

// DeliveryInfo is what the backend reports for an order's delivery.
type DeliveryInfo struct {
	CourierName    string `json:"nomeEntregador,omitempty"`
	CourierID      string `json:"entregadorId,omitempty"`
	DeliveryStatus string `json:"statusEntrega,omitempty"`
}

const (
	CourierPlaceholder     = "Entregador a definir"
	StatusAwaitingDelivery = "Aguardando entrega"
	CourierUnavailable     = "Entregador não disponível no momento"
	StatusNotFound         = "Status não encontrado, consulte o restaurante."
	StatusQueryFailed      = "Falha ao consultar status do pedido."
)

type DeliveryStatusSnapshot struct {
	CourierLabel string `json:"courier"`
	StatusLabel  string `json:"status"`
}

// SnapshotFromInfo derives display labels, substituting placeholders for
// missing fields.
func SnapshotFromInfo(info DeliveryInfo) DeliveryStatusSnapshot {
	s := DeliveryStatusSnapshot{
		CourierLabel: info.CourierName,
		StatusLabel:  info.DeliveryStatus,
	}
	if s.CourierLabel == "" {
		s.CourierLabel = info.CourierID
	}
	if s.CourierLabel == "" {
		s.CourierLabel = CourierPlaceholder
	}
	if s.StatusLabel == "" {
		s.StatusLabel = StatusAwaitingDelivery
	}
	return s
}

func NotFoundSnapshot() DeliveryStatusSnapshot {
	return DeliveryStatusSnapshot{CourierLabel: CourierUnavailable, StatusLabel: StatusNotFound}
}

func QueryFailedSnapshot() DeliveryStatusSnapshot {
	return DeliveryStatusSnapshot{CourierLabel: CourierUnavailable, StatusLabel: StatusQueryFailed}
}

// Receipt is the local journal entry of a submitted order.
type Receipt struct {
	OrderID      string
	CustomerID   string
	RestaurantID string
	Lines        []OrderLine
	Total        decimal.Decimal
	PlacedAt     time.Time
}

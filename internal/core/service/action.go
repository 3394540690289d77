package service

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/rl1809/pedidos-client/internal/core/domain"
)

var (
	ErrInvalidTransition = errors.New("action not allowed on current screen")
	ErrUnknownAction     = errors.New("unknown action")
	ErrUnknownRestaurant = errors.New("unknown restaurant")
	ErrUnknownItem       = errors.New("item not on menu")
	ErrUnknownOrder      = errors.New("order not in history")
	ErrSubmitInProgress  = errors.New("order submission in progress")
	ErrSessionNotFound   = errors.New("session not found")
)

type ActionType string

const (
	ActionLogin            ActionType = "login"
	ActionSelectRestaurant ActionType = "select_restaurant"
	ActionChangeRestaurant ActionType = "change_restaurant"
	ActionAddItem          ActionType = "add_item"
	ActionRemoveItem       ActionType = "remove_item"
	ActionSubmit           ActionType = "submit"
	ActionOpenHistory      ActionType = "open_history"
	ActionSelectOrder      ActionType = "select_order"
	ActionRefresh          ActionType = "refresh"
	ActionShowMenu         ActionType = "show_menu"
	ActionSignOut          ActionType = "sign_out"
)

// Action is one user interaction. Argument carries the customer id,
// restaurant id, product id, order id or courier id depending on Type.
type Action struct {
	Type     ActionType `json:"type"`
	Argument string     `json:"argument,omitempty"`
}

type CartView struct {
	Lines []domain.OrderLine `json:"itens"`
	Total decimal.Decimal    `json:"total"`
}

// View is a read-only rendering of a session, safe to serialize.
type View struct {
	Screen       domain.ScreenName              `json:"screen"`
	CustomerID   string                         `json:"customerId,omitempty"`
	CustomerName string                         `json:"customerName,omitempty"`
	Restaurant   *domain.Restaurant             `json:"restaurant,omitempty"`
	Restaurants  []domain.Restaurant            `json:"restaurants,omitempty"`
	Menu         []domain.MenuItem              `json:"menu,omitempty"`
	Cart         CartView                       `json:"cart"`
	Status       string                         `json:"status,omitempty"`
	Submitting   bool                           `json:"submitting,omitempty"`
	OrderID      string                         `json:"orderId,omitempty"`
	Delivery     *domain.DeliveryStatusSnapshot `json:"delivery,omitempty"`
	Notice       string                         `json:"notice,omitempty"`
	Orders       []domain.Order                 `json:"orders,omitempty"`
}

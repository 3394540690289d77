package domain

import "github.com/shopspring/decimal"

type Restaurant struct {
	ID      string `json:"id"`
	Name    string `json:"nome"`
	Address string `json:"endereco,omitempty"`
}

// MenuItem is catalog reference data. Carts copy its name and price at add time.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	UnitPrice   decimal.Decimal `json:"preco"`
}

// FindMenuItem returns the item with the given id, or false.
func FindMenuItem(items []MenuItem, id string) (MenuItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}

// FindRestaurant returns the restaurant with the given id, or false.
func FindRestaurant(restaurants []Restaurant, id string) (Restaurant, bool) {
	for _, r := range restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return Restaurant{}, false
}

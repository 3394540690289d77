package domain

import "github.com/shopspring/decimal"

type OrderLine struct {
	ProductID   string          `json:"produtoId"`
	ProductName string          `json:"nomeProduto"`
	Quantity    int             `json:"quantidade"`
	UnitPrice   decimal.Decimal `json:"precoUnitario"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the unsubmitted order of one session. It holds at most one line
// per product id and never keeps a line with quantity below 1.
type Cart struct {
	CustomerID string
	lines      []OrderLine
}

func NewCart(customerID string) *Cart {
	return &Cart{CustomerID: customerID}
}

// AddItem increments the line for item or appends a new one with quantity 1.
func (c *Cart) AddItem(item MenuItem) {
	for i := range c.lines {
		if c.lines[i].ProductID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, OrderLine{
		ProductID:   item.ID,
		ProductName: item.Name,
		Quantity:    1,
		UnitPrice:   item.UnitPrice,
	})
}

// RemoveItem decrements the line for productID, dropping it at zero.
// Unknown ids are ignored.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		c.lines[i].Quantity--
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// RemoveLines takes the quantities of lines out of the cart, dropping lines
// that reach zero. Quantities beyond what the cart holds are ignored.
func (c *Cart) RemoveLines(lines []OrderLine) {
	for _, removed := range lines {
		for i := range c.lines {
			if c.lines[i].ProductID != removed.ProductID {
				continue
			}
			c.lines[i].Quantity -= removed.Quantity
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			break
		}
	}
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []OrderLine {
	out := make([]OrderLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Quantity(productID string) int {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear empties the lines and keeps the customer binding.
func (c *Cart) Clear() {
	c.lines = nil
}

// Reset empties the cart and binds it to customerID.
func (c *Cart) Reset(customerID string) {
	c.CustomerID = customerID
	c.lines = nil
}

// Clone returns an independent copy, used when a cart is handed to I/O.
func (c *Cart) Clone() *Cart {
	return &Cart{CustomerID: c.CustomerID, lines: c.Lines()}
}

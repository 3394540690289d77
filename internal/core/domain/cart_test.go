package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
)

func item(id, name, price string) MenuItem {
	return MenuItem{ID: id, Name: name, UnitPrice: decimal.RequireFromString(price)}
}

func TestCart_AddItem_MergesLines(t *testing.T) {
	pizza := item("p1", "Pizza", "10.00")
	soda := item("p2", "Refrigerante", "5.00")

	cart := NewCart("cliente-1")
	cart.AddItem(pizza)
	cart.AddItem(pizza)
	cart.AddItem(soda)

	lines := cart.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ProductID != "p1" || lines[0].Quantity != 2 {
		t.Errorf("expected p1 x2 first, got %s x%d", lines[0].ProductID, lines[0].Quantity)
	}
	if lines[1].ProductID != "p2" || lines[1].Quantity != 1 {
		t.Errorf("expected p2 x1 second, got %s x%d", lines[1].ProductID, lines[1].Quantity)
	}

	if !cart.Total().Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("expected total 25.00, got %s", cart.Total())
	}
}

func TestCart_AddItem_SnapshotsPrice(t *testing.T) {
	pizza := item("p1", "Pizza", "10.00")
	cart := NewCart("cliente-1")
	cart.AddItem(pizza)

	pizza.UnitPrice = decimal.RequireFromString("99.00")
	cart.AddItem(pizza)

	if got := cart.Lines()[0].UnitPrice; !got.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("expected unit price to stay 10.00, got %s", got)
	}
}

func TestCart_RemoveItem(t *testing.T) {
	pizza := item("p1", "Pizza", "10.00")

	cart := NewCart("cliente-1")
	cart.AddItem(pizza)
	cart.AddItem(pizza)
	cart.RemoveItem("p1")

	if q := cart.Quantity("p1"); q != 1 {
		t.Errorf("expected quantity 1, got %d", q)
	}

	cart.RemoveItem("p1")
	if !cart.IsEmpty() {
		t.Errorf("expected line to be removed at zero, got %+v", cart.Lines())
	}
	if !cart.Total().IsZero() {
		t.Errorf("expected zero total, got %s", cart.Total())
	}
}

func TestCart_RemoveItem_UnknownIsNoop(t *testing.T) {
	cart := NewCart("cliente-1")
	cart.AddItem(item("p1", "Pizza", "10.00"))
	cart.RemoveItem("nope")

	if len(cart.Lines()) != 1 || cart.Quantity("p1") != 1 {
		t.Errorf("expected cart unchanged, got %+v", cart.Lines())
	}
}

func TestCart_TotalMatchesLines(t *testing.T) {
	items := []MenuItem{
		item("a", "A", "0.10"),
		item("b", "B", "0.20"),
		item("c", "C", "12.35"),
		item("d", "D", "7.99"),
	}
	rng := rand.New(rand.NewPCG(1809, 42))
	cart := NewCart("cliente-1")

	for step := 0; step < 500; step++ {
		it := items[rng.IntN(len(items))]
		if rng.IntN(3) == 0 {
			cart.RemoveItem(it.ID)
		} else {
			cart.AddItem(it)
		}

		sum := decimal.Zero
		for _, l := range cart.Lines() {
			if l.Quantity < 1 {
				t.Fatalf("step %d: line %s has quantity %d", step, l.ProductID, l.Quantity)
			}
			sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		if cart.Total().IsNegative() {
			t.Fatalf("step %d: negative total %s", step, cart.Total())
		}
		if !cart.Total().Equal(sum) {
			t.Fatalf("step %d: expected total %s, got %s", step, sum, cart.Total())
		}
	}
}

func TestCart_RemoveLines(t *testing.T) {
	cart := NewCart("cliente-1")
	cart.AddItem(item("p1", "Pizza", "10.00"))
	cart.AddItem(item("p1", "Pizza", "10.00"))
	cart.AddItem(item("p2", "Suco", "6.00"))
	cart.AddItem(item("p3", "Bolo", "8.00"))

	cart.RemoveLines([]OrderLine{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 3},
		{ProductID: "nope", Quantity: 1},
	})

	if q := cart.Quantity("p1"); q != 1 {
		t.Errorf("expected p1 x1, got %d", q)
	}
	if q := cart.Quantity("p2"); q != 0 {
		t.Errorf("expected p2 dropped, got %d", q)
	}
	if q := cart.Quantity("p3"); q != 1 {
		t.Errorf("expected p3 untouched, got %d", q)
	}
	if !cart.Total().Equal(decimal.RequireFromString("18.00")) {
		t.Errorf("expected total 18.00, got %s", cart.Total())
	}
}

func TestCart_CloneIsIndependent(t *testing.T) {
	cart := NewCart("cliente-1")
	cart.AddItem(item("p1", "Pizza", "10.00"))

	clone := cart.Clone()
	clone.AddItem(item("p1", "Pizza", "10.00"))
	clone.AddItem(item("p2", "Suco", "6.00"))

	if cart.Quantity("p1") != 1 || len(cart.Lines()) != 1 {
		t.Errorf("original cart changed: %+v", cart.Lines())
	}
	if clone.CustomerID != "cliente-1" {
		t.Errorf("expected clone bound to cliente-1, got %q", clone.CustomerID)
	}
}

func TestCart_ClearAndReset(t *testing.T) {
	cart := NewCart("cliente-1")
	cart.AddItem(item("p1", "Pizza", "10.00"))

	cart.Clear()
	if !cart.IsEmpty() || cart.CustomerID != "cliente-1" {
		t.Errorf("expected empty cart still bound to cliente-1, got %q %+v", cart.CustomerID, cart.Lines())
	}

	cart.AddItem(item("p1", "Pizza", "10.00"))
	cart.Reset("cliente-2")
	if !cart.IsEmpty() || cart.CustomerID != "cliente-2" {
		t.Errorf("expected empty cart bound to cliente-2, got %q %+v", cart.CustomerID, cart.Lines())
	}
}

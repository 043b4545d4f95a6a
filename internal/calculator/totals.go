package calculator

import "github.com/KamilKorczek/project-pizzeria/internal/models"

// Totals are the cart-level values derived from a list of line items.
type Totals struct {
	// Subtotal is the sum of UnitPrice * Quantity over all lines.
	Subtotal float64

	// DeliveryFee is the fee actually charged: zero for an empty cart.
	DeliveryFee float64

	// GrandTotal is Subtotal + DeliveryFee, or zero when Subtotal is zero.
	GrandTotal float64

	// TotalCount is the sum of all quantities.
	TotalCount int
}

// CalculateTotals derives the cart totals from its line items.
//
// When the subtotal is zero no delivery is charged and the grand total is
// zero; otherwise the full delivery fee is added.
func CalculateTotals(items []models.LineItem, deliveryFee float64) Totals {
	var t Totals
	for _, item := range items {
		t.TotalCount += item.Quantity
		t.Subtotal += item.TotalPrice()
	}

	if t.Subtotal == 0 {
		t.DeliveryFee = 0
		t.GrandTotal = 0
		return t
	}

	t.DeliveryFee = deliveryFee
	t.GrandTotal = t.Subtotal + deliveryFee
	return t
}

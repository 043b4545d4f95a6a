package calculator

import (
	"testing"

	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name        string
		items       []models.LineItem
		deliveryFee float64
		want        Totals
	}{
		{
			name:        "empty cart charges nothing",
			items:       nil,
			deliveryFee: 5,
			want:        Totals{},
		},
		{
			name: "worked example",
			items: []models.LineItem{
				{UnitPrice: 21, Quantity: 2},
				{UnitPrice: 15, Quantity: 1},
			},
			deliveryFee: 5,
			want:        Totals{Subtotal: 57, DeliveryFee: 5, GrandTotal: 62, TotalCount: 3},
		},
		{
			name: "zero-priced items suppress delivery",
			items: []models.LineItem{
				{UnitPrice: 0, Quantity: 3},
			},
			deliveryFee: 20,
			want:        Totals{Subtotal: 0, DeliveryFee: 0, GrandTotal: 0, TotalCount: 3},
		},
		{
			name: "zero delivery fee",
			items: []models.LineItem{
				{UnitPrice: 9, Quantity: 1},
			},
			deliveryFee: 0,
			want:        Totals{Subtotal: 9, DeliveryFee: 0, GrandTotal: 9, TotalCount: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(tt.items, tt.deliveryFee)
			if got != tt.want {
				t.Errorf("CalculateTotals() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

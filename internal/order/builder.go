// Package order turns a cart into the submission payload, verifies submitted
// payloads on the backend, and sends payloads to the backend.
package order

import (
	"github.com/KamilKorczek/project-pizzeria/internal/cart"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

// Build projects a cart snapshot and the customer's delivery fields into the
// submission payload. It performs no validation and never touches the cart.
func Build(snap cart.Snapshot, customer models.Customer) models.OrderPayload {
	payload := models.OrderPayload{
		Address:       customer.Address,
		Phone:         customer.Phone,
		TotalPrice:    snap.GrandTotal,
		SubtotalPrice: snap.Subtotal,
		TotalNumber:   snap.TotalCount,
		DeliveryFee:   snap.DeliveryFee,
		Products:      make([]models.OrderProduct, 0, len(snap.LineItems)),
	}

	for _, item := range snap.LineItems {
		payload.Products = append(payload.Products, productOf(item))
	}

	return payload
}

func productOf(item models.LineItem) models.OrderProduct {
	params := make(map[string]models.OrderParam, len(item.Params))
	for _, p := range item.Params {
		options := make(map[string]string, len(p.Options))
		for _, o := range p.Options {
			options[o.ID] = o.Label
		}
		params[p.CategoryID] = models.OrderParam{Label: p.Label, Options: options}
	}

	return models.OrderProduct{
		ID:          item.ProductID,
		Amount:      item.Quantity,
		Price:       item.TotalPrice(),
		PriceSingle: item.UnitPrice,
		Params:      params,
	}
}

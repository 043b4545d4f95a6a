// Package api defines the request and response messages of the pizzeria
// Connect services. Messages are plain structs encoded as JSON; the order
// submission request is the OrderPayload wire document itself.
package api

import "github.com/KamilKorczek/project-pizzeria/internal/models"

// ListProductsRequest asks for the whole menu.
type ListProductsRequest struct{}

// ListProductsResponse carries the menu in display order.
type ListProductsResponse struct {
	Products    []models.Product `json:"products"`
	DeliveryFee float64          `json:"deliveryFee"`
}

// QuotePriceRequest prices a configured product.
type QuotePriceRequest struct {
	ProductID string           `json:"productId"`
	Params    models.Selection `json:"params"`
	Amount    int              `json:"amount"`
}

// QuotePriceResponse is the price of a configured product and the selected
// state of each of its options.
type QuotePriceResponse struct {
	ProductID   string                     `json:"productId"`
	PriceSingle float64                    `json:"priceSingle"`
	Price       float64                    `json:"price"`
	Amount      int                        `json:"amount"`
	Options     map[string]map[string]bool `json:"options"`
}

// SubmitOrderRequest is the order document posted by the widget.
type SubmitOrderRequest = models.OrderPayload

// SubmitOrderResponse echoes the stored order with its assigned ID.
type SubmitOrderResponse = models.Order

// GetOrderRequest looks up one order.
type GetOrderRequest struct {
	ID string `json:"id"`
}

// GetOrderResponse is the stored order.
type GetOrderResponse = models.Order

// ListOrdersRequest pages through orders, newest first.
type ListOrdersRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListOrdersResponse carries one page of orders.
type ListOrdersResponse struct {
	Orders []models.Order `json:"orders"`
}

// LoginRequest authenticates an operator.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expiresAt"`
	Operator  Operator `json:"operator"`
}

// Operator is the public view of a staff account.
type Operator struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

package models

// Customer holds the delivery fields entered in the cart form.
type Customer struct {
	Address string
	Phone   string
}

// OrderPayload is the document POSTed to the backend when the cart is submitted.
// Field names are part of the wire contract.
type OrderPayload struct {
	Address       string         `json:"address"`
	Phone         string         `json:"phone"`
	TotalPrice    float64        `json:"totalPrice"`
	SubtotalPrice float64        `json:"subtotalPrice"`
	TotalNumber   int            `json:"totalNumber"`
	DeliveryFee   float64        `json:"deliveryFee"`
	Products      []OrderProduct `json:"products"`
}

// OrderProduct is one line item of the payload.
type OrderProduct struct {
	ID          string                `json:"id"`
	Amount      int                   `json:"amount"`
	Price       float64               `json:"price"`
	PriceSingle float64               `json:"priceSingle"`
	Params      map[string]OrderParam `json:"params"`
}

// OrderParam is the summary of one category inside an OrderProduct.
type OrderParam struct {
	Label   string            `json:"label"`
	Options map[string]string `json:"options"`
}

// Order status values.
const (
	OrderStatusReceived = "RECEIVED"
)

// Order is a submitted payload as persisted by the backend.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string `json:"id"`

	OrderPayload

	// Status is the processing state of the order.
	Status string `json:"status"`

	// CreatedAt is the Unix timestamp when the order was received.
	CreatedAt int64 `json:"createdAt"`
}

package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/KamilKorczek/project-pizzeria/internal/cart"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
	"github.com/KamilKorczek/project-pizzeria/internal/order"
)

var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrEmptyCart      = errors.New("cart is empty")
)

// Config holds the widget settings.
type Config struct {
	Cart   cart.Config
	Amount AmountLimits
}

// Widget ties the product forms, the cart and order submission together.
//
// A Widget is not safe for concurrent use. Every method runs to completion
// and returns the settled state, so events are handled strictly in order.
type Widget struct {
	forms      map[string]*Configurator
	productIDs []string
	cart       *cart.Cart
	submitter  order.Submitter
	logger     *slog.Logger

	// pendingKey identifies the current cart contents and pendingCustomer for
	// idempotent retries. It is reset whenever the cart changes.
	pendingKey      string
	pendingCustomer models.Customer
}

// New creates a widget for the given menu. Every product schema is validated
// up front; an invalid schema fails construction.
func New(cfg Config, products []models.Product, submitter order.Submitter, logger *slog.Logger) (*Widget, error) {
	if logger == nil {
		logger = slog.Default()
	}

	w := &Widget{
		forms:     make(map[string]*Configurator, len(products)),
		cart:      cart.New(cfg.Cart),
		submitter: submitter,
		logger:    logger,
	}
	for i := range products {
		p := &products[i]
		form, err := NewConfigurator(p, cfg.Amount)
		if err != nil {
			return nil, err
		}
		if _, dup := w.forms[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %q", models.ErrInvalidSchema, p.ID)
		}
		w.forms[p.ID] = form
		w.productIDs = append(w.productIDs, p.ID)
	}

	w.cart.Subscribe(func(cart.Snapshot) { w.pendingKey = "" })
	return w, nil
}

// Products returns the product IDs in menu order.
func (w *Widget) Products() []string {
	return append([]string(nil), w.productIDs...)
}

// Configure returns the configurator of a product.
func (w *Widget) Configure(productID string) (*Configurator, error) {
	form, ok := w.forms[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	return form, nil
}

// OnSelectionChanged reprices a product form.
func (w *Widget) OnSelectionChanged(productID string, sel models.Selection) (View, error) {
	form, err := w.Configure(productID)
	if err != nil {
		return View{}, err
	}
	return form.OnSelectionChanged(sel), nil
}

// OnAmountChanged updates the amount of a product form.
func (w *Widget) OnAmountChanged(productID, raw string) (View, error) {
	form, err := w.Configure(productID)
	if err != nil {
		return View{}, err
	}
	return form.OnAmountChanged(raw), nil
}

// AddToCart adds the current configuration of a product to the cart and
// returns the new line's identity.
func (w *Widget) AddToCart(productID string) (string, cart.Snapshot, error) {
	form, err := w.Configure(productID)
	if err != nil {
		return "", w.cart.Snapshot(), err
	}
	item, err := form.LineItem()
	if err != nil {
		return "", w.cart.Snapshot(), err
	}
	id, snap, err := w.cart.Add(item)
	if err != nil {
		return "", snap, err
	}
	w.logger.Debug("Added to cart", "product_id", productID, "line_id", id, "unit_price", item.UnitPrice, "amount", item.Quantity)
	return id, snap, nil
}

// Remove removes a cart line. Unknown lines are ignored.
func (w *Widget) Remove(lineID string) cart.Snapshot {
	return w.cart.Remove(lineID)
}

// SetQuantity changes the quantity of a cart line.
func (w *Widget) SetQuantity(lineID string, quantity int) (cart.Snapshot, error) {
	return w.cart.SetQuantity(lineID, quantity)
}

// OnLineAmountChanged applies raw stepper input to a cart line.
// Invalid input leaves the line unchanged.
func (w *Widget) OnLineAmountChanged(lineID, raw string, limits AmountLimits) cart.Snapshot {
	v, ok := limits.Normalized().Parse(raw)
	if !ok {
		return w.cart.Snapshot()
	}
	snap, _ := w.cart.SetQuantity(lineID, v)
	return snap
}

// Subscribe registers a cart listener.
func (w *Widget) Subscribe(l cart.Listener) (cancel func()) {
	return w.cart.Subscribe(l)
}

// Snapshot returns the current cart snapshot.
func (w *Widget) Snapshot() cart.Snapshot {
	return w.cart.Snapshot()
}

// Payload builds the order payload for the current cart.
func (w *Widget) Payload(customer models.Customer) models.OrderPayload {
	return order.Build(w.cart.Snapshot(), customer)
}

// Submit sends the current cart. On success the cart is cleared and the
// backend response is returned untouched. On failure the cart is kept so the
// user can retry; a retry of the unchanged cart for the same customer reuses
// the idempotency key.
func (w *Widget) Submit(ctx context.Context, customer models.Customer) (json.RawMessage, error) {
	snap := w.cart.Snapshot()
	if snap.Empty() {
		return nil, ErrEmptyCart
	}
	if w.submitter == nil {
		return nil, fmt.Errorf("%w: no transport configured", order.ErrSubmitFailed)
	}

	if w.pendingKey == "" || w.pendingCustomer != customer {
		w.pendingKey = uuid.New().String()
		w.pendingCustomer = customer
	}
	payload := order.Build(snap, customer)

	resp, err := w.submitter.Submit(ctx, w.pendingKey, payload)
	if err != nil {
		w.logger.Warn("Order submission failed", "idempotency_key", w.pendingKey, "total_price", payload.TotalPrice, "error", err)
		return nil, err
	}

	w.logger.Info("Order submitted", "idempotency_key", w.pendingKey, "total_price", payload.TotalPrice, "products", len(payload.Products))
	w.cart.Clear()
	return resp, nil
}

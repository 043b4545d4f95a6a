// Package cart aggregates configured line items into a running order.
//
// Totals are never stored: every Snapshot is recomputed from the line items
// with calculator.CalculateTotals, so they cannot drift from the contents.
package cart

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/KamilKorczek/project-pizzeria/internal/calculator"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

// ErrInvalidQuantity is returned by SetQuantity for quantities below one.
var ErrInvalidQuantity = calculator.ErrInvalidQuantity

// Config holds the cart settings.
type Config struct {
	// DeliveryFee is charged on every non-empty order.
	DeliveryFee float64
}

// Snapshot is a read-only view of the cart after a mutation.
type Snapshot struct {
	calculator.Totals

	// LineItems are copies of the cart lines in insertion order.
	LineItems []models.LineItem
}

// Empty reports whether the cart has no lines.
func (s Snapshot) Empty() bool {
	return len(s.LineItems) == 0
}

// Listener is notified synchronously with the settled snapshot after each mutation.
type Listener func(Snapshot)

// Cart owns an ordered sequence of line items.
//
// A Cart is not safe for concurrent use; it is driven by one UI event loop.
type Cart struct {
	cfg       Config
	items     []models.LineItem
	listeners []*Listener
}

// New creates an empty cart.
func New(cfg Config) *Cart {
	return &Cart{cfg: cfg}
}

// DeliveryFee returns the configured delivery fee.
func (c *Cart) DeliveryFee() float64 {
	return c.cfg.DeliveryFee
}

// Add appends a copy of item to the cart and returns the identity assigned to it.
// Identity is always fresh, so adding the same configuration twice yields two entries.
func (c *Cart) Add(item models.LineItem) (string, Snapshot, error) {
	if item.Quantity < 1 {
		return "", c.Snapshot(), fmt.Errorf("%w: got %d", ErrInvalidQuantity, item.Quantity)
	}

	entry := item.Clone()
	entry.ID = uuid.New().String()
	c.items = append(c.items, entry)

	return entry.ID, c.changed(), nil
}

// Remove deletes the line with the given identity.
// Removing a line that is not in the cart is a no-op.
func (c *Cart) Remove(id string) Snapshot {
	i := c.indexOf(id)
	if i < 0 {
		return c.Snapshot()
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return c.changed()
}

// SetQuantity changes the quantity of one line.
// Unknown identities are ignored like in Remove.
func (c *Cart) SetQuantity(id string, quantity int) (Snapshot, error) {
	if quantity < 1 {
		return c.Snapshot(), fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	i := c.indexOf(id)
	if i < 0 {
		return c.Snapshot(), nil
	}
	c.items[i].Quantity = quantity
	return c.changed(), nil
}

// Clear removes every line.
func (c *Cart) Clear() Snapshot {
	c.items = nil
	return c.changed()
}

// Get returns a copy of the line with the given identity.
func (c *Cart) Get(id string) (models.LineItem, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return models.LineItem{}, false
	}
	return c.items[i].Clone(), true
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Snapshot recomputes the totals from the current lines.
func (c *Cart) Snapshot() Snapshot {
	items := make([]models.LineItem, len(c.items))
	for i, item := range c.items {
		items[i] = item.Clone()
	}
	return Snapshot{
		Totals:    calculator.CalculateTotals(c.items, c.cfg.DeliveryFee),
		LineItems: items,
	}
}

// Subscribe registers l and returns a function that unregisters it.
func (c *Cart) Subscribe(l Listener) (cancel func()) {
	if l == nil {
		panic(errors.New("cart: nil listener"))
	}
	ref := &l
	c.listeners = append(c.listeners, ref)
	return func() {
		for i, existing := range c.listeners {
			if existing == ref {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Cart) changed() Snapshot {
	snap := c.Snapshot()
	for _, l := range append([]*Listener(nil), c.listeners...) {
		(*l)(snap)
	}
	return snap
}

func (c *Cart) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Package widget is the call/response surface a UI drives: it owns the
// per-product selections and amounts, the cart, and order submission, and
// answers every event with the freshly computed view.
//
// Nothing here renders or listens for DOM events; the UI calls the On*
// methods and draws what they return.
package widget

import (
	"github.com/KamilKorczek/project-pizzeria/internal/calculator"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

// View is what the UI shows for one product form.
type View struct {
	ProductID   string
	PriceSingle float64
	// Price is PriceSingle multiplied by Amount.
	Price   float64
	Amount  int
	Options map[string]map[string]bool
}

// Configurator holds the form state of one product.
type Configurator struct {
	pricer    *calculator.Pricer
	limits    AmountLimits
	selection models.Selection
	amount    int
	result    calculator.PriceResult
}

// NewConfigurator validates the product schema and starts with the default
// options selected and the default amount.
func NewConfigurator(product *models.Product, limits AmountLimits) (*Configurator, error) {
	pricer, err := calculator.NewPricer(product)
	if err != nil {
		return nil, err
	}
	limits = limits.Normalized()

	c := &Configurator{
		pricer: pricer,
		limits: limits,
		amount: limits.Default,
	}
	c.OnSelectionChanged(models.DefaultSelection(product))
	return c, nil
}

// Product returns the product schema.
func (c *Configurator) Product() *models.Product {
	return c.pricer.Product()
}

// OnSelectionChanged replaces the selection and reprices the product.
// The selection is copied; later changes by the caller have no effect.
func (c *Configurator) OnSelectionChanged(sel models.Selection) View {
	c.selection = copySelection(sel)
	c.result = c.pricer.Price(c.selection)
	return c.View()
}

// OnAmountChanged applies raw stepper input. Invalid input is ignored and the
// returned view still shows the previous amount.
func (c *Configurator) OnAmountChanged(raw string) View {
	if v, ok := c.limits.Parse(raw); ok {
		c.amount = v
	}
	return c.View()
}

// SetAmount sets the amount if it is within limits and reports whether it was applied.
func (c *Configurator) SetAmount(v int) bool {
	if !c.limits.Allows(v) {
		return false
	}
	c.amount = v
	return true
}

// View returns the current price and option state. Options is a copy.
func (c *Configurator) View() View {
	return View{
		ProductID:   c.pricer.Product().ID,
		PriceSingle: c.result.UnitPrice,
		Price:       c.result.UnitPrice * float64(c.amount),
		Amount:      c.amount,
		Options:     copyOptions(c.result.Options),
	}
}

// LineItem builds a cart line from the current form state.
func (c *Configurator) LineItem() (models.LineItem, error) {
	return calculator.MakeLineItem(c.pricer.Product(), c.selection, c.result.UnitPrice, c.amount)
}

// Reset restores the default selection and amount.
func (c *Configurator) Reset() View {
	c.amount = c.limits.Default
	return c.OnSelectionChanged(models.DefaultSelection(c.pricer.Product()))
}

func copySelection(sel models.Selection) models.Selection {
	out := make(models.Selection, len(sel))
	for k, v := range sel {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func copyOptions(opts map[string]map[string]bool) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(opts))
	for category, states := range opts {
		inner := make(map[string]bool, len(states))
		for id, on := range states {
			inner[id] = on
		}
		out[category] = inner
	}
	return out
}

package calculator

import (
	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

// PriceResult is the outcome of pricing one unit of a configured product.
type PriceResult struct {
	// UnitPrice is the base price adjusted by the selection deltas.
	// It is not clamped and may be negative.
	UnitPrice float64

	// Options holds the selected state of every option in the schema,
	// keyed by category ID and then option ID. The UI uses it to toggle
	// option images without re-deriving the selection.
	Options map[string]map[string]bool
}

// Selected reports the visual state of one option.
func (r PriceResult) Selected(categoryID, optionID string) bool {
	return r.Options[categoryID][optionID]
}

// ComputePrice prices one unit of product for the given selection.
//
// Algorithm: start from the base price, which already includes every default
// option. For each option in the schema:
//   - selected and not default: add its delta
//   - not selected and default: subtract its delta
//   - otherwise: no change
//
// Selection entries that do not exist in the schema are ignored. Each option
// contributes independently, so the result does not depend on iteration order.
// The product is assumed valid; use NewPricer to validate it once up front.
func ComputePrice(product *models.Product, sel models.Selection) PriceResult {
	price := product.BasePrice
	options := make(map[string]map[string]bool, len(product.Categories))

	for _, category := range product.Categories {
		state := make(map[string]bool, len(category.Options))
		for _, option := range category.Options {
			selected := sel.Has(category.ID, option.ID)

			switch {
			case selected && !option.Default:
				price += option.PriceDelta
			case !selected && option.Default:
				price -= option.PriceDelta
			}

			state[option.ID] = selected
		}
		options[category.ID] = state
	}

	return PriceResult{UnitPrice: price, Options: options}
}

// Pricer prices a single validated product. It holds no mutable state and is
// safe for concurrent use.
type Pricer struct {
	product *models.Product
}

// NewPricer validates the product schema and returns a Pricer for it.
// An incomplete or inconsistent schema is rejected with models.ErrInvalidSchema.
func NewPricer(product *models.Product) (*Pricer, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return &Pricer{product: product}, nil
}

// Product returns the schema the pricer was built for.
func (p *Pricer) Product() *models.Product {
	return p.product
}

// Price computes the unit price and option state for a selection.
func (p *Pricer) Price(sel models.Selection) PriceResult {
	return ComputePrice(p.product, sel)
}

package order

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/KamilKorczek/project-pizzeria/internal/calculator"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

var (
	ErrInvalidOrder  = errors.New("invalid order")
	ErrPriceMismatch = errors.New("order price mismatch")
)

// priceTolerance absorbs float formatting differences in client payloads.
const priceTolerance = 0.005

// Catalog resolves product schemas by ID.
type Catalog interface {
	Product(id string) (*models.Product, bool)
}

// Verify recomputes a submitted payload against the catalog and the delivery
// fee rule. It checks that:
//   - the customer fields and at least one product are present
//   - every product exists and every referenced option exists in it
//   - priceSingle matches the price of the selected options
//   - price == priceSingle * amount
//   - the order totals are the projection of the products
func Verify(p models.OrderPayload, catalog Catalog, deliveryFee float64) error {
	if strings.TrimSpace(p.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidOrder)
	}
	if strings.TrimSpace(p.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidOrder)
	}
	if len(p.Products) == 0 {
		return fmt.Errorf("%w: at least one product is required", ErrInvalidOrder)
	}

	items := make([]models.LineItem, 0, len(p.Products))
	for i, op := range p.Products {
		if op.Amount < 1 {
			return fmt.Errorf("%w: product %d (%s) has amount %d", ErrInvalidOrder, i, op.ID, op.Amount)
		}

		product, ok := catalog.Product(op.ID)
		if !ok {
			return fmt.Errorf("%w: unknown product %q", ErrInvalidOrder, op.ID)
		}

		sel, err := selectionOf(product, op.Params)
		if err != nil {
			return err
		}

		want := calculator.ComputePrice(product, sel).UnitPrice
		if !equalPrice(op.PriceSingle, want) {
			return fmt.Errorf("%w: product %d (%s) priceSingle is %v, expected %v", ErrPriceMismatch, i, op.ID, op.PriceSingle, want)
		}
		if !equalPrice(op.Price, op.PriceSingle*float64(op.Amount)) {
			return fmt.Errorf("%w: product %d (%s) price is %v, expected %v", ErrPriceMismatch, i, op.ID, op.Price, op.PriceSingle*float64(op.Amount))
		}

		items = append(items, models.LineItem{ProductID: op.ID, UnitPrice: want, Quantity: op.Amount})
	}

	totals := calculator.CalculateTotals(items, deliveryFee)
	switch {
	case p.TotalNumber != totals.TotalCount:
		return fmt.Errorf("%w: totalNumber is %d, expected %d", ErrInvalidOrder, p.TotalNumber, totals.TotalCount)
	case !equalPrice(p.SubtotalPrice, totals.Subtotal):
		return fmt.Errorf("%w: subtotalPrice is %v, expected %v", ErrPriceMismatch, p.SubtotalPrice, totals.Subtotal)
	case !equalPrice(p.DeliveryFee, totals.DeliveryFee):
		return fmt.Errorf("%w: deliveryFee is %v, expected %v", ErrPriceMismatch, p.DeliveryFee, totals.DeliveryFee)
	case !equalPrice(p.TotalPrice, totals.GrandTotal):
		return fmt.Errorf("%w: totalPrice is %v, expected %v", ErrPriceMismatch, p.TotalPrice, totals.GrandTotal)
	}

	return nil
}

// selectionOf rebuilds the selection from a payload's params.
// Unlike the pricing engine, a submitted order must not reference options the
// menu does not have.
func selectionOf(product *models.Product, params map[string]models.OrderParam) (models.Selection, error) {
	sel := make(models.Selection, len(params))
	for categoryID, param := range params {
		category, ok := product.Category(categoryID)
		if !ok {
			return nil, fmt.Errorf("%w: product %q has no category %q", ErrInvalidOrder, product.ID, categoryID)
		}
		ids := make([]string, 0, len(param.Options))
		for optionID := range param.Options {
			if _, ok := category.Option(optionID); !ok {
				return nil, fmt.Errorf("%w: category %q of %q has no option %q", ErrInvalidOrder, categoryID, product.ID, optionID)
			}
			ids = append(ids, optionID)
		}
		sel[categoryID] = ids
	}
	return sel, nil
}

func equalPrice(a, b float64) bool {
	return math.Abs(a-b) < priceTolerance
}

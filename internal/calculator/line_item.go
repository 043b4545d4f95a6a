package calculator

import (
	"errors"
	"fmt"

	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

// ErrInvalidQuantity is returned when a quantity is below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// MakeLineItem builds a cart line for a configured product. The line has no
// identity until a cart assigns one.
// Every category of the product appears in the summary, in menu order, with
// only its selected options; unknown selection entries are ignored.
func MakeLineItem(product *models.Product, sel models.Selection, unitPrice float64, quantity int) (models.LineItem, error) {
	if quantity < 1 {
		return models.LineItem{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	return models.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Params:    Summarize(product, sel),
	}, nil
}

// Summarize lists the selected options of each category of product.
func Summarize(product *models.Product, sel models.Selection) []models.ParamSummary {
	params := make([]models.ParamSummary, 0, len(product.Categories))
	for _, category := range product.Categories {
		summary := models.ParamSummary{
			CategoryID: category.ID,
			Label:      category.Label,
			Options:    []models.OptionSummary{},
		}
		for _, option := range category.Options {
			if sel.Has(category.ID, option.ID) {
				summary.Options = append(summary.Options, models.OptionSummary{
					ID:    option.ID,
					Label: option.Label,
				})
			}
		}
		params = append(params, summary)
	}
	return params
}

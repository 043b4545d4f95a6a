package models

// LineItem is one configured product inside a cart.
type LineItem struct {
	// ID is the cart-entry identity (UUID format). Two line items with the
	// same configuration are still distinct entries.
	ID string

	// ProductID is the catalog key of the configured product.
	ProductID string

	// Name is the product name at the time it was added.
	Name string

	// UnitPrice is the price of one unit with the chosen options.
	UnitPrice float64

	// Quantity is the number of units (>= 1).
	Quantity int

	// Params summarizes the selected options of every category, in menu order.
	// Categories without a selected option are present with no options.
	Params []ParamSummary
}

// ParamSummary lists the selected options of one category.
type ParamSummary struct {
	CategoryID string
	Label      string
	Options    []OptionSummary
}

// OptionSummary names one selected option.
type OptionSummary struct {
	ID    string
	Label string
}

// TotalPrice returns UnitPrice * Quantity.
func (l LineItem) TotalPrice() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Clone returns a deep copy of the line item.
func (l LineItem) Clone() LineItem {
	c := l
	if l.Params != nil {
		c.Params = make([]ParamSummary, len(l.Params))
		for i, p := range l.Params {
			c.Params[i] = ParamSummary{
				CategoryID: p.CategoryID,
				Label:      p.Label,
				Options:    append([]OptionSummary(nil), p.Options...),
			}
		}
	}
	return c
}

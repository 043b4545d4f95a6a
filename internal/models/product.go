package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSchema is returned when a product schema is incomplete or inconsistent.
var ErrInvalidSchema = errors.New("invalid product schema")

// Product describes a purchasable item and its configurable options.
// It is immutable once loaded from the catalog.
type Product struct {
	// ID is the catalog key of the product (e.g., "pizza").
	ID string `json:"id"`

	// Name is the human-readable product name.
	Name string `json:"name"`

	// Description is free text shown with the product.
	Description string `json:"description,omitempty"`

	// BasePrice is the price with exactly the default options selected.
	BasePrice float64 `json:"price"`

	// Categories are the option groups in menu order.
	Categories []Category `json:"params,omitempty"`
}

// Category groups related options of a product.
type Category struct {
	// ID is unique within the product (e.g., "toppings").
	ID string `json:"id"`

	// Label is the display name of the category.
	Label string `json:"label"`

	// Type is the form control used to render the category
	// ("radios", "checkboxes" or "select"). It never limits how many
	// options may be selected.
	Type string `json:"type,omitempty"`

	// Options are the selectable variations in menu order.
	Options []Option `json:"options"`
}

// Option is a single selectable variation within a category.
type Option struct {
	// ID is unique within the category (e.g., "olives").
	ID string `json:"id"`

	// Label is the display name of the option.
	Label string `json:"label"`

	// PriceDelta is added when a non-default option is selected and
	// subtracted when a default option is deselected.
	PriceDelta float64 `json:"price"`

	// Default reports whether the option is part of the base price.
	Default bool `json:"default,omitempty"`
}

// Category returns the category with the given ID.
func (p *Product) Category(id string) (*Category, bool) {
	for i := range p.Categories {
		if p.Categories[i].ID == id {
			return &p.Categories[i], true
		}
	}
	return nil, false
}

// Option returns the option with the given ID.
func (c *Category) Option(id string) (*Option, bool) {
	for i := range c.Options {
		if c.Options[i].ID == id {
			return &c.Options[i], true
		}
	}
	return nil, false
}

// Validate checks the structural invariants of the schema.
// All failures wrap ErrInvalidSchema.
func (p *Product) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidSchema)
	}
	if p.ID == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidSchema)
	}
	if math.IsNaN(p.BasePrice) || math.IsInf(p.BasePrice, 0) {
		return fmt.Errorf("%w: product %q has a non-finite price", ErrInvalidSchema, p.ID)
	}

	categories := make(map[string]bool, len(p.Categories))
	for _, c := range p.Categories {
		if c.ID == "" {
			return fmt.Errorf("%w: product %q has a category without id", ErrInvalidSchema, p.ID)
		}
		if categories[c.ID] {
			return fmt.Errorf("%w: product %q has duplicate category %q", ErrInvalidSchema, p.ID, c.ID)
		}
		categories[c.ID] = true

		options := make(map[string]bool, len(c.Options))
		for _, o := range c.Options {
			if o.ID == "" {
				return fmt.Errorf("%w: category %q of %q has an option without id", ErrInvalidSchema, c.ID, p.ID)
			}
			if options[o.ID] {
				return fmt.Errorf("%w: category %q of %q has duplicate option %q", ErrInvalidSchema, c.ID, p.ID, o.ID)
			}
			options[o.ID] = true

			if o.PriceDelta < 0 || math.IsNaN(o.PriceDelta) || math.IsInf(o.PriceDelta, 0) {
				return fmt.Errorf("%w: option %s.%s of %q has invalid price %v", ErrInvalidSchema, c.ID, o.ID, p.ID, o.PriceDelta)
			}
		}
	}

	return nil
}

// Package catalog loads the menu of product schemas.
//
// Menus are YAML or JSON documents in the shape of the widget's product data:
//
//	products:
//	  pizza:
//	    name: Nonno Alberto's Pizza
//	    price: 20
//	    params:
//	      sauce:
//	        label: Sauce
//	        type: radios
//	        options:
//	          tomato: {label: Tomato, price: 0, default: true}
//	          cream: {label: Sour cream, price: 2}
//
// A json-server style document with a "product" array of objects carrying an
// "id" is accepted as well. Key order is preserved, so categories and options
// keep their menu order.
package catalog

import (
	"fmt"
	"os"

	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

// Catalog is an immutable, validated set of products.
type Catalog struct {
	products []models.Product
	index    map[string]int
}

// New validates products and builds a catalog from them.
func New(products ...models.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for i := range products {
		p := products[i]
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %q", models.ErrInvalidSchema, p.ID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Load reads and parses the menu file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Product returns the product with the given ID.
func (c *Catalog) Product(id string) (*models.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.products[i], true
}

// Products returns the products in menu order.
func (c *Catalog) Products() []models.Product {
	return append([]models.Product(nil), c.products...)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

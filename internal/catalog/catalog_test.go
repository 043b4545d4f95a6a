package catalog

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KamilKorczek/project-pizzeria/internal/calculator"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

func TestLoad_MenuFile(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "configs", "menu.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ids := []string{}
	for _, p := range c.Products() {
		ids = append(ids, p.ID)
	}
	if strings.Join(ids, ",") != "cake,breakfast,pizza,salad" {
		t.Errorf("products out of menu order: %v", ids)
	}

	pizza, ok := c.Product("pizza")
	if !ok {
		t.Fatal("expected pizza in catalog")
	}
	if pizza.BasePrice != 20 {
		t.Errorf("pizza price = %v, want 20", pizza.BasePrice)
	}

	var categories []string
	for _, cat := range pizza.Categories {
		categories = append(categories, cat.ID)
	}
	if strings.Join(categories, ",") != "sauce,toppings,crust" {
		t.Errorf("categories out of order: %v", categories)
	}

	toppings, _ := pizza.Category("toppings")
	if toppings.Type != "checkboxes" || toppings.Options[0].ID != "olives" || !toppings.Options[0].Default {
		t.Errorf("unexpected toppings: %+v", toppings)
	}

	// The base price must already include all defaults.
	if got := calculator.ComputePrice(pizza, models.DefaultSelection(pizza)).UnitPrice; got != 20 {
		t.Errorf("default pizza price = %v, want 20", got)
	}

	if _, ok := c.Product("calzone"); ok {
		t.Error("unexpected product calzone")
	}
}

func TestLoad_JSONServerDocument(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "db.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 products, got %d", c.Len())
	}

	pizza, _ := c.Product("pizza")
	sauce, ok := pizza.Category("sauce")
	if !ok || sauce.Label != "Sauce" || len(sauce.Options) != 2 {
		t.Fatalf("unexpected sauce category: %+v", sauce)
	}
	if sauce.Options[1].ID != "cream" || sauce.Options[1].PriceDelta != 2 {
		t.Errorf("unexpected cream option: %+v", sauce.Options[1])
	}

	cake, _ := c.Product("cake")
	if len(cake.Categories) != 0 {
		t.Errorf("cake should have no categories, got %+v", cake.Categories)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_InvalidSchemas(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing base price",
			doc:  `products: {pizza: {name: Pizza}}`,
		},
		{
			name: "string base price",
			doc:  `products: {pizza: {name: Pizza, price: "20"}}`,
		},
		{
			name: "non-boolean default",
			doc:  `products: {pizza: {price: 20, params: {sauce: {options: {tomato: {price: 0, default: "true"}}}}}}`,
		},
		{
			name: "numeric default",
			doc:  `{"products": {"pizza": {"price": 20, "params": {"sauce": {"options": {"tomato": {"price": 0, "default": 1}}}}}}}`,
		},
		{
			name: "option without price",
			doc:  `products: {pizza: {price: 20, params: {sauce: {options: {tomato: {label: Tomato}}}}}}`,
		},
		{
			name: "negative option price",
			doc:  `products: {pizza: {price: 20, params: {sauce: {options: {tomato: {price: -1}}}}}}`,
		},
		{
			name: "duplicate option",
			doc: `
products:
  pizza:
    price: 20
    params:
      sauce:
        options:
          tomato: {price: 0}
          tomato: {price: 1}
`,
		},
		{
			name: "duplicate product in list",
			doc:  `product: [{id: cake, price: 9}, {id: cake, price: 10}]`,
		},
		{
			name: "product without id in list",
			doc:  `product: [{price: 9}]`,
		},
		{
			name: "no products key",
			doc:  `orders: []`,
		},
		{
			name: "empty document",
			doc:  ``,
		},
		{
			name: "params is a list",
			doc:  `products: {pizza: {price: 20, params: [sauce]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, models.ErrInvalidSchema) {
				t.Errorf("expected ErrInvalidSchema, got %v", err)
			}
		})
	}
}

func TestNew_RejectsInvalidProduct(t *testing.T) {
	_, err := New(models.Product{ID: "x", Categories: []models.Category{{ID: "a"}, {ID: "a"}}})
	if !errors.Is(err, models.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}

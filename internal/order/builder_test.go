package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KamilKorczek/project-pizzeria/internal/calculator"
	"github.com/KamilKorczek/project-pizzeria/internal/cart"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

func testProduct() *models.Product {
	return &models.Product{
		ID:        "pizza",
		Name:      "Nonno Alberto's Pizza",
		BasePrice: 20,
		Categories: []models.Category{
			{
				ID:    "sauce",
				Label: "Sauce",
				Options: []models.Option{
					{ID: "tomato", Label: "Tomato", PriceDelta: 0, Default: true},
					{ID: "bbq", Label: "BBQ", PriceDelta: 1},
				},
			},
			{
				ID:    "crust",
				Label: "Crust",
				Options: []models.Option{
					{ID: "standard", Label: "Standard", Default: true},
					{ID: "thin", Label: "Thin"},
				},
			},
		},
	}
}

func testCatalog() mapCatalog {
	return mapCatalog{
		"pizza": testProduct(),
		"cake":  {ID: "cake", Name: "Zio Stefano's Doughnut", BasePrice: 15},
	}
}

type mapCatalog map[string]*models.Product

func (c mapCatalog) Product(id string) (*models.Product, bool) {
	p, ok := c[id]
	return p, ok
}

// filledCart builds the worked example: a bbq pizza x2 and a cake.
func filledCart(t *testing.T, deliveryFee float64) *cart.Cart {
	t.Helper()
	c := cart.New(cart.Config{DeliveryFee: deliveryFee})

	pizza := testProduct()
	sel := models.Selection{"sauce": {"bbq"}, "crust": {"standard"}}
	price := calculator.ComputePrice(pizza, sel).UnitPrice
	item, err := calculator.MakeLineItem(pizza, sel, price, 2)
	require.NoError(t, err)
	_, _, err = c.Add(item)
	require.NoError(t, err)

	cake := testCatalog()["cake"]
	item, err = calculator.MakeLineItem(cake, nil, calculator.ComputePrice(cake, nil).UnitPrice, 1)
	require.NoError(t, err)
	_, _, err = c.Add(item)
	require.NoError(t, err)

	return c
}

func TestBuild(t *testing.T) {
	c := filledCart(t, 5)
	before := c.Snapshot()

	payload := Build(before, models.Customer{Address: "Via Roma 1", Phone: "123456789"})

	assert.Equal(t, "Via Roma 1", payload.Address)
	assert.Equal(t, "123456789", payload.Phone)
	assert.Equal(t, 62.0, payload.TotalPrice)
	assert.Equal(t, 57.0, payload.SubtotalPrice)
	assert.Equal(t, 3, payload.TotalNumber)
	assert.Equal(t, 5.0, payload.DeliveryFee)
	require.Len(t, payload.Products, len(before.LineItems))

	pizza := payload.Products[0]
	assert.Equal(t, "pizza", pizza.ID)
	assert.Equal(t, 2, pizza.Amount)
	assert.Equal(t, 21.0, pizza.PriceSingle)
	assert.Equal(t, 42.0, pizza.Price)
	assert.Equal(t, models.OrderParam{Label: "Sauce", Options: map[string]string{"bbq": "BBQ"}}, pizza.Params["sauce"])
	assert.Equal(t, models.OrderParam{Label: "Crust", Options: map[string]string{"standard": "Standard"}}, pizza.Params["crust"])

	for _, p := range payload.Products {
		assert.Equal(t, p.PriceSingle*float64(p.Amount), p.Price)
	}

	assert.Equal(t, before, c.Snapshot(), "Build must not mutate the cart")
}

func TestBuild_EmptyCart(t *testing.T) {
	payload := Build(cart.New(cart.Config{DeliveryFee: 20}).Snapshot(), models.Customer{})

	assert.Zero(t, payload.TotalPrice)
	assert.Zero(t, payload.DeliveryFee)
	assert.NotNil(t, payload.Products)
	assert.Empty(t, payload.Products)
}

func TestBuild_WireFormat(t *testing.T) {
	c := cart.New(cart.Config{DeliveryFee: 20})
	_, _, err := c.Add(models.LineItem{
		ProductID: "salad",
		UnitPrice: 9,
		Quantity:  1,
		Params: []models.ParamSummary{
			{CategoryID: "ingredients", Label: "Ingredients", Options: []models.OptionSummary{}},
		},
	})
	require.NoError(t, err)

	data, err := json.Marshal(Build(c.Snapshot(), models.Customer{Address: "a", Phone: "p"}))
	require.NoError(t, err)

	want := `{"address":"a","phone":"p","totalPrice":29,"subtotalPrice":9,"totalNumber":1,"deliveryFee":20,` +
		`"products":[{"id":"salad","amount":1,"price":9,"priceSingle":9,` +
		`"params":{"ingredients":{"label":"Ingredients","options":{}}}}]}`
	assert.JSONEq(t, want, string(data))
}

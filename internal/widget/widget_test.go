package widget

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KamilKorczek/project-pizzeria/internal/cart"
	"github.com/KamilKorczek/project-pizzeria/internal/catalog"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
	"github.com/KamilKorczek/project-pizzeria/internal/order"
)

type fakeSubmitter struct {
	payloads []models.OrderPayload
	keys     []string
	err      error
}

func (f *fakeSubmitter) Submit(_ context.Context, key string, payload models.OrderPayload) (json.RawMessage, error) {
	f.payloads = append(f.payloads, payload)
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"id":"order-1"}`), nil
}

func loadMenu(t *testing.T) []models.Product {
	t.Helper()
	menu, err := catalog.Load("../../configs/menu.yaml")
	require.NoError(t, err)
	return menu.Products()
}

func newWidget(t *testing.T, submitter order.Submitter) *Widget {
	t.Helper()
	w, err := New(Config{Cart: cart.Config{DeliveryFee: 20}}, loadMenu(t), submitter, nil)
	require.NoError(t, err)
	return w
}

func TestAmountLimits_Parse(t *testing.T) {
	limits := DefaultAmountLimits

	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"1", 1, true},
		{" 9 ", 9, true},
		{"0", 0, false},
		{"10", 10, false},
		{"-1", -1, false},
		{"2.5", 0, false},
		{"", 0, false},
		{"two", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := limits.Parse(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAmountLimits_Normalized(t *testing.T) {
	l := AmountLimits{}.Normalized()
	assert.Equal(t, DefaultAmountLimits, l)

	l = AmountLimits{Min: 2, Max: 5, Default: 7}.Normalized()
	assert.Equal(t, AmountLimits{Min: 2, Max: 5, Default: 2}, l)
}

func TestConfigurator_Defaults(t *testing.T) {
	menu := loadMenu(t)
	form, err := NewConfigurator(&menu[2], DefaultAmountLimits)
	require.NoError(t, err)

	view := form.View()
	assert.Equal(t, "pizza", view.ProductID)
	assert.Equal(t, 20.0, view.PriceSingle)
	assert.Equal(t, 20.0, view.Price)
	assert.Equal(t, 1, view.Amount)
	assert.True(t, view.Options["sauce"]["tomato"])
	assert.False(t, view.Options["sauce"]["cream"])
	assert.True(t, view.Options["toppings"]["olives"])
}

func TestConfigurator_SelectionAndAmount(t *testing.T) {
	menu := loadMenu(t)
	form, err := NewConfigurator(&menu[2], DefaultAmountLimits)
	require.NoError(t, err)

	sel := models.Selection{
		"sauce":    {"cream"},
		"toppings": {"olives", "redPeppers", "greenPeppers", "mushrooms", "salami"},
		"crust":    {"standard"},
	}
	view := form.OnSelectionChanged(sel)
	assert.Equal(t, 25.0, view.PriceSingle)

	// the form keeps its own copy
	sel["sauce"] = []string{"tomato"}
	assert.Equal(t, 25.0, form.View().PriceSingle)

	view = form.OnAmountChanged("3")
	assert.Equal(t, 3, view.Amount)
	assert.Equal(t, 75.0, view.Price)

	view = form.OnAmountChanged("12")
	assert.Equal(t, 3, view.Amount)
	assert.False(t, form.SetAmount(0))
	assert.True(t, form.SetAmount(2))

	item, err := form.LineItem()
	require.NoError(t, err)
	assert.Equal(t, 25.0, item.UnitPrice)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 50.0, item.TotalPrice())
	require.Len(t, item.Params, 3)
	assert.Equal(t, "sauce", item.Params[0].CategoryID)

	view = form.Reset()
	assert.Equal(t, 20.0, view.PriceSingle)
	assert.Equal(t, 1, view.Amount)
}

func TestNew_RejectsInvalidSchema(t *testing.T) {
	products := []models.Product{{
		ID:        "pizza",
		BasePrice: 20,
		Categories: []models.Category{{
			ID:      "sauce",
			Options: []models.Option{{ID: "tomato"}, {ID: "tomato"}},
		}},
	}}
	_, err := New(Config{}, products, nil, nil)
	assert.ErrorIs(t, err, models.ErrInvalidSchema)

	_, err = New(Config{}, []models.Product{{ID: "cake", BasePrice: 9}, {ID: "cake", BasePrice: 9}}, nil, nil)
	assert.ErrorIs(t, err, models.ErrInvalidSchema)
}

func TestWidget_UnknownProduct(t *testing.T) {
	w := newWidget(t, nil)

	_, _, err := w.AddToCart("calzone")
	assert.ErrorIs(t, err, ErrUnknownProduct)
	_, err = w.OnSelectionChanged("calzone", nil)
	assert.ErrorIs(t, err, ErrUnknownProduct)
	assert.Equal(t, []string{"cake", "breakfast", "pizza", "salad"}, w.Products())
}

func TestWidget_CartLines(t *testing.T) {
	w := newWidget(t, nil)

	var notified []cart.Snapshot
	cancel := w.Subscribe(func(s cart.Snapshot) { notified = append(notified, s) })
	defer cancel()

	_, err := w.OnAmountChanged("cake", "2")
	require.NoError(t, err)
	first, snap, err := w.AddToCart("cake")
	require.NoError(t, err)
	assert.Equal(t, 18.0, snap.Subtotal)
	assert.Equal(t, 38.0, snap.GrandTotal)

	second, snap, err := w.AddToCart("cake")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Len(t, snap.LineItems, 2)

	snap = w.OnLineAmountChanged(first, "5", DefaultAmountLimits)
	assert.Equal(t, 7, snap.TotalCount)
	snap = w.OnLineAmountChanged(first, "x", DefaultAmountLimits)
	assert.Equal(t, 7, snap.TotalCount)

	snap, err = w.SetQuantity(second, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	assert.Equal(t, 7, snap.TotalCount)

	snap = w.Remove(first)
	assert.Equal(t, 2, snap.TotalCount)
	snap = w.Remove(first)
	assert.Equal(t, 2, snap.TotalCount)

	assert.Len(t, notified, 4)
	assert.Equal(t, w.Snapshot(), notified[len(notified)-1])
}

func TestWidget_SubmitClearsCart(t *testing.T) {
	sub := &fakeSubmitter{}
	w := newWidget(t, sub)

	_, _, err := w.AddToCart("pizza")
	require.NoError(t, err)

	customer := models.Customer{Address: "Via Roma 1", Phone: "555-0100"}
	want := w.Payload(customer)

	resp, err := w.Submit(context.Background(), customer)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"order-1"}`, string(resp))

	require.Len(t, sub.payloads, 1)
	assert.Equal(t, want, sub.payloads[0])
	assert.Equal(t, 40.0, sub.payloads[0].TotalPrice)
	assert.NotEmpty(t, sub.keys[0])
	assert.True(t, w.Snapshot().Empty())
}

func TestWidget_SubmitFailureKeepsCart(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("connection refused")}
	w := newWidget(t, sub)

	_, _, err := w.AddToCart("salad")
	require.NoError(t, err)
	customer := models.Customer{Address: "Via Roma 1", Phone: "555-0100"}

	_, err = w.Submit(context.Background(), customer)
	require.Error(t, err)
	assert.Equal(t, 1, w.Snapshot().TotalCount)

	// an unchanged cart is retried under the same key
	_, err = w.Submit(context.Background(), customer)
	require.Error(t, err)
	require.Len(t, sub.keys, 2)
	assert.Equal(t, sub.keys[0], sub.keys[1])

	_, _, err = w.AddToCart("cake")
	require.NoError(t, err)
	sub.err = nil
	_, err = w.Submit(context.Background(), customer)
	require.NoError(t, err)
	require.Len(t, sub.keys, 3)
	assert.NotEqual(t, sub.keys[0], sub.keys[2])
}

func TestWidget_SubmitCorrectedCustomerGetsNewKey(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("response lost")}
	w := newWidget(t, sub)

	_, _, err := w.AddToCart("pizza")
	require.NoError(t, err)

	_, err = w.Submit(context.Background(), models.Customer{Address: "Via Roma 1", Phone: "555-0100"})
	require.Error(t, err)

	sub.err = nil
	_, err = w.Submit(context.Background(), models.Customer{Address: "Corrected Street 9", Phone: "555-0100"})
	require.NoError(t, err)

	require.Len(t, sub.keys, 2)
	assert.NotEqual(t, sub.keys[0], sub.keys[1])
	assert.Equal(t, "Corrected Street 9", sub.payloads[1].Address)
}

func TestConfigurator_ViewDoesNotAliasState(t *testing.T) {
	menu := loadMenu(t)
	form, err := NewConfigurator(&menu[2], DefaultAmountLimits)
	require.NoError(t, err)

	view := form.View()
	view.Options["sauce"]["cream"] = true
	delete(view.Options, "toppings")

	again := form.View()
	assert.False(t, again.Options["sauce"]["cream"])
	assert.True(t, again.Options["toppings"]["olives"])
}

func TestWidget_SubmitEmptyCart(t *testing.T) {
	sub := &fakeSubmitter{}
	w := newWidget(t, sub)

	_, err := w.Submit(context.Background(), models.Customer{})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, sub.payloads)
}

func TestWidget_SubmitWithoutTransport(t *testing.T) {
	w := newWidget(t, nil)
	_, _, err := w.AddToCart("cake")
	require.NoError(t, err)

	_, err = w.Submit(context.Background(), models.Customer{})
	assert.ErrorIs(t, err, order.ErrSubmitFailed)
	assert.False(t, w.Snapshot().Empty())
}

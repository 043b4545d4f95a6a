// Command order places an order against a running pizzeria server.
//
//	order -address "Via Roma 1" -phone 555-0100 \
//	    -item 'pizza:2:sauce=cream;toppings=olives,salami' -item cake
//
// Each -item is product[:amount[:category=option,option;...]]. Categories
// that are not named keep their default options.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/KamilKorczek/project-pizzeria/internal/cart"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
	"github.com/KamilKorczek/project-pizzeria/internal/order"
	"github.com/KamilKorczek/project-pizzeria/internal/widget"
	"github.com/KamilKorczek/project-pizzeria/pkg/api"
	"github.com/KamilKorczek/project-pizzeria/pkg/api/apiconnect"
	"github.com/KamilKorczek/project-pizzeria/pkg/logging"
)

type itemFlags []string

func (f *itemFlags) String() string     { return strings.Join(*f, " ") }
func (f *itemFlags) Set(v string) error { *f = append(*f, v); return nil }

// itemFlag is one parsed -item flag.
type itemFlag struct {
	ProductID string
	Amount    string
	Choices   models.Selection
}

func parseItem(raw string) (itemFlag, error) {
	parts := strings.SplitN(raw, ":", 3)
	it := itemFlag{ProductID: strings.TrimSpace(parts[0])}
	if it.ProductID == "" {
		return itemFlag{}, fmt.Errorf("item %q: missing product", raw)
	}
	if len(parts) > 1 {
		it.Amount = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		it.Choices = models.Selection{}
		for _, group := range strings.Split(parts[2], ";") {
			category, options, ok := strings.Cut(group, "=")
			if !ok || category == "" {
				return itemFlag{}, fmt.Errorf("item %q: expected category=option,...", raw)
			}
			selected := []string{}
			for _, o := range strings.Split(options, ",") {
				if o = strings.TrimSpace(o); o != "" {
					selected = append(selected, o)
				}
			}
			it.Choices[strings.TrimSpace(category)] = selected
		}
	}
	return it, nil
}

func main() {
	var items itemFlags
	server := flag.String("server", "http://localhost:8080", "pizzeria server URL")
	address := flag.String("address", "", "delivery address")
	phone := flag.String("phone", "", "contact phone")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Var(&items, "item", "product[:amount[:category=option,...;...]] (repeatable)")
	flag.Parse()

	logging.Setup()

	if err := run(*server, *address, *phone, *timeout, items); err != nil {
		slog.Error("Order failed", "error", err)
		os.Exit(1)
	}
}

func run(server, address, phone string, timeout time.Duration, items []string) error {
	if len(items) == 0 {
		return fmt.Errorf("at least one -item is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	httpClient := &http.Client{Timeout: timeout}
	menuClient := apiconnect.NewMenuServiceClient(httpClient, server)
	menu, err := menuClient.ListProducts(ctx, connect.NewRequest(&api.ListProductsRequest{}))
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}

	w, err := widget.New(
		widget.Config{Cart: cart.Config{DeliveryFee: menu.Msg.DeliveryFee}},
		menu.Msg.Products,
		order.NewClient(httpClient, server),
		slog.Default(),
	)
	if err != nil {
		return err
	}

	for _, raw := range items {
		it, err := parseItem(raw)
		if err != nil {
			return err
		}
		if err := configure(w, it); err != nil {
			return err
		}
		if _, _, err := w.AddToCart(it.ProductID); err != nil {
			return err
		}
	}

	snap := w.Snapshot()
	for _, line := range snap.LineItems {
		fmt.Printf("%-12s x%d  %8.2f\n", line.ProductID, line.Quantity, line.TotalPrice())
	}
	fmt.Printf("subtotal %.2f  delivery %.2f  total %.2f\n", snap.Subtotal, snap.DeliveryFee, snap.GrandTotal)

	resp, err := w.Submit(ctx, models.Customer{Address: address, Phone: phone})
	if err != nil {
		return err
	}
	fmt.Println(string(resp))
	return nil
}

// configure applies a parsed -item flag to the product's form, keeping the defaults
// of categories the flag does not name.
func configure(w *widget.Widget, it itemFlag) error {
	form, err := w.Configure(it.ProductID)
	if err != nil {
		return err
	}
	form.Reset()

	if len(it.Choices) > 0 {
		sel := models.DefaultSelection(form.Product())
		for category, options := range it.Choices {
			sel[category] = options
		}
		form.OnSelectionChanged(sel)
	}
	if it.Amount != "" {
		if _, ok := widget.DefaultAmountLimits.Parse(it.Amount); !ok {
			return fmt.Errorf("item %s: invalid amount %q", it.ProductID, it.Amount)
		}
		form.OnAmountChanged(it.Amount)
	}
	return nil
}

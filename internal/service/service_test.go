package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/KamilKorczek/project-pizzeria/internal/auth"
	"github.com/KamilKorczek/project-pizzeria/internal/cache"
	"github.com/KamilKorczek/project-pizzeria/internal/cart"
	"github.com/KamilKorczek/project-pizzeria/internal/catalog"
	"github.com/KamilKorczek/project-pizzeria/internal/middleware"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
	"github.com/KamilKorczek/project-pizzeria/internal/storage/sqlite"
	"github.com/KamilKorczek/project-pizzeria/internal/widget"
	"github.com/KamilKorczek/project-pizzeria/pkg/api/apiconnect"
)

const (
	testDeliveryFee = 20
	testEmail       = "staff@pizzeria.local"
	testPassword    = "pizzeria-staff"
)

type testClients struct {
	URL     string
	Catalog *catalog.Catalog
	Menu    apiconnect.MenuServiceClient
	Order   apiconnect.OrderServiceClient
	Auth    apiconnect.AuthServiceClient
}

// setupTestServer wires the three services the way the server does, over a
// temporary SQLite database and an in-memory idempotency store.
func setupTestServer(t *testing.T) testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	menu, err := catalog.Load("../../configs/menu.yaml")
	if err != nil {
		t.Fatalf("failed to load menu: %v", err)
	}

	authenticator := auth.NewPasswordAuthenticator(store)
	if _, _, err := authenticator.EnsureOperator(context.Background(), testEmail, "Staff", testPassword); err != nil {
		t.Fatalf("failed to seed operator: %v", err)
	}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	menuSvc, err := NewMenuService(menu, testDeliveryFee, widget.DefaultAmountLimits, nil)
	if err != nil {
		t.Fatalf("failed to create menu service: %v", err)
	}
	orderSvc := NewOrderService(store, menu, testDeliveryFee, cache.NewMemoryIdempotencyStore(time.Hour), nil)
	authSvc := NewAuthService(authenticator, jwtManager, nil)

	public := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))
	private := connect.WithInterceptors(middleware.RequireAuth(jwtManager, store))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewMenuServiceHandler(menuSvc))
	mux.Handle(apiconnect.NewOrderServiceHandler(orderSvc, []connect.HandlerOption{public}, []connect.HandlerOption{private}))
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return testClients{
		URL:     server.URL,
		Catalog: menu,
		Menu:    apiconnect.NewMenuServiceClient(http.DefaultClient, server.URL),
		Order:   apiconnect.NewOrderServiceClient(http.DefaultClient, server.URL),
		Auth:    apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

// bearer returns a client interceptor that sends the operator token.
func bearer(token string) connect.ClientOption {
	return connect.WithInterceptors(connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}))
}

// cartPayload configures a widget with the menu and returns the payload of a
// cart holding a cream pizza x2 and a cake.
func cartPayload(t *testing.T, menu *catalog.Catalog) models.OrderPayload {
	t.Helper()
	cfg := widget.Config{Cart: cart.Config{DeliveryFee: testDeliveryFee}}
	w, err := widget.New(cfg, menu.Products(), nil, nil)
	if err != nil {
		t.Fatalf("widget.New failed: %v", err)
	}

	sel := models.DefaultSelection(mustProduct(t, menu, "pizza"))
	sel["sauce"] = []string{"cream"}
	if _, err := w.OnSelectionChanged("pizza", sel); err != nil {
		t.Fatalf("OnSelectionChanged failed: %v", err)
	}
	if _, err := w.OnAmountChanged("pizza", "2"); err != nil {
		t.Fatalf("OnAmountChanged failed: %v", err)
	}
	for _, id := range []string{"pizza", "cake"} {
		if _, _, err := w.AddToCart(id); err != nil {
			t.Fatalf("AddToCart(%s) failed: %v", id, err)
		}
	}
	return w.Payload(models.Customer{Address: "Via Roma 1", Phone: "555-0100"})
}

func mustProduct(t *testing.T, menu *catalog.Catalog, id string) *models.Product {
	t.Helper()
	p, ok := menu.Product(id)
	if !ok {
		t.Fatalf("product %s not in menu", id)
	}
	return p
}

package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/KamilKorczek/project-pizzeria/pkg/api"
)

const (
	// MenuServiceName is the fully-qualified name of the MenuService.
	MenuServiceName = "pizzeria.v1.MenuService"

	// MenuServiceListProductsProcedure is the path of MenuService.ListProducts.
	MenuServiceListProductsProcedure = "/pizzeria.v1.MenuService/ListProducts"
	// MenuServiceQuotePriceProcedure is the path of MenuService.QuotePrice.
	MenuServiceQuotePriceProcedure = "/pizzeria.v1.MenuService/QuotePrice"
)

// MenuServiceHandler is implemented by the menu service.
type MenuServiceHandler interface {
	ListProducts(context.Context, *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error)
	QuotePrice(context.Context, *connect.Request[api.QuotePriceRequest]) (*connect.Response[api.QuotePriceResponse], error)
}

// NewMenuServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewMenuServiceHandler(svc MenuServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	listProducts := connect.NewUnaryHandler(MenuServiceListProductsProcedure, svc.ListProducts, handlerOptions(opts))
	quotePrice := connect.NewUnaryHandler(MenuServiceQuotePriceProcedure, svc.QuotePrice, handlerOptions(opts))

	return "/" + MenuServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case MenuServiceListProductsProcedure:
			listProducts.ServeHTTP(w, r)
		case MenuServiceQuotePriceProcedure:
			quotePrice.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// MenuServiceClient is a client for the menu service.
type MenuServiceClient interface {
	ListProducts(context.Context, *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error)
	QuotePrice(context.Context, *connect.Request[api.QuotePriceRequest]) (*connect.Response[api.QuotePriceResponse], error)
}

// NewMenuServiceClient constructs a client for the menu service at baseURL.
func NewMenuServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MenuServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &menuServiceClient{
		listProducts: connect.NewClient[api.ListProductsRequest, api.ListProductsResponse](httpClient, baseURL+MenuServiceListProductsProcedure, clientOptions(opts)),
		quotePrice:   connect.NewClient[api.QuotePriceRequest, api.QuotePriceResponse](httpClient, baseURL+MenuServiceQuotePriceProcedure, clientOptions(opts)),
	}
}

type menuServiceClient struct {
	listProducts *connect.Client[api.ListProductsRequest, api.ListProductsResponse]
	quotePrice   *connect.Client[api.QuotePriceRequest, api.QuotePriceResponse]
}

func (c *menuServiceClient) ListProducts(ctx context.Context, req *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error) {
	return c.listProducts.CallUnary(ctx, req)
}

func (c *menuServiceClient) QuotePrice(ctx context.Context, req *connect.Request[api.QuotePriceRequest]) (*connect.Response[api.QuotePriceResponse], error) {
	return c.quotePrice.CallUnary(ctx, req)
}

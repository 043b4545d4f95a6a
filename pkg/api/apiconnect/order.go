package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/KamilKorczek/project-pizzeria/pkg/api"
)

const (
	// OrderServiceName is the fully-qualified name of the OrderService.
	OrderServiceName = "pizzeria.v1.OrderService"

	// OrderServiceSubmitOrderProcedure is the path of OrderService.SubmitOrder.
	OrderServiceSubmitOrderProcedure = "/pizzeria.v1.OrderService/SubmitOrder"
	// OrderServiceGetOrderProcedure is the path of OrderService.GetOrder.
	OrderServiceGetOrderProcedure = "/pizzeria.v1.OrderService/GetOrder"
	// OrderServiceListOrdersProcedure is the path of OrderService.ListOrders.
	OrderServiceListOrdersProcedure = "/pizzeria.v1.OrderService/ListOrders"
)

// OrderServiceHandler is implemented by the order service.
type OrderServiceHandler interface {
	SubmitOrder(context.Context, *connect.Request[api.SubmitOrderRequest]) (*connect.Response[api.SubmitOrderResponse], error)
	GetOrder(context.Context, *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error)
	ListOrders(context.Context, *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error)
}

// NewOrderServiceHandler builds an HTTP handler from the service implementation.
// The read procedures take their own options so they can require authentication
// while submission stays public.
func NewOrderServiceHandler(svc OrderServiceHandler, submitOpts, readOpts []connect.HandlerOption) (string, http.Handler) {
	submitOrder := connect.NewUnaryHandler(OrderServiceSubmitOrderProcedure, svc.SubmitOrder, handlerOptions(submitOpts))
	getOrder := connect.NewUnaryHandler(OrderServiceGetOrderProcedure, svc.GetOrder, handlerOptions(readOpts))
	listOrders := connect.NewUnaryHandler(OrderServiceListOrdersProcedure, svc.ListOrders, handlerOptions(readOpts))

	return "/" + OrderServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case OrderServiceSubmitOrderProcedure:
			submitOrder.ServeHTTP(w, r)
		case OrderServiceGetOrderProcedure:
			getOrder.ServeHTTP(w, r)
		case OrderServiceListOrdersProcedure:
			listOrders.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// OrderServiceClient is a client for the order service.
type OrderServiceClient interface {
	SubmitOrder(context.Context, *connect.Request[api.SubmitOrderRequest]) (*connect.Response[api.SubmitOrderResponse], error)
	GetOrder(context.Context, *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error)
	ListOrders(context.Context, *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error)
}

// NewOrderServiceClient constructs a client for the order service at baseURL.
func NewOrderServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) OrderServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &orderServiceClient{
		submitOrder: connect.NewClient[api.SubmitOrderRequest, api.SubmitOrderResponse](httpClient, baseURL+OrderServiceSubmitOrderProcedure, clientOptions(opts)),
		getOrder:    connect.NewClient[api.GetOrderRequest, api.GetOrderResponse](httpClient, baseURL+OrderServiceGetOrderProcedure, clientOptions(opts)),
		listOrders:  connect.NewClient[api.ListOrdersRequest, api.ListOrdersResponse](httpClient, baseURL+OrderServiceListOrdersProcedure, clientOptions(opts)),
	}
}

type orderServiceClient struct {
	submitOrder *connect.Client[api.SubmitOrderRequest, api.SubmitOrderResponse]
	getOrder    *connect.Client[api.GetOrderRequest, api.GetOrderResponse]
	listOrders  *connect.Client[api.ListOrdersRequest, api.ListOrdersResponse]
}

func (c *orderServiceClient) SubmitOrder(ctx context.Context, req *connect.Request[api.SubmitOrderRequest]) (*connect.Response[api.SubmitOrderResponse], error) {
	return c.submitOrder.CallUnary(ctx, req)
}

func (c *orderServiceClient) GetOrder(ctx context.Context, req *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error) {
	return c.getOrder.CallUnary(ctx, req)
}

func (c *orderServiceClient) ListOrders(ctx context.Context, req *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error) {
	return c.listOrders.CallUnary(ctx, req)
}

// NewRawSubmitClient returns a client for SubmitOrder that hands back the
// response body undecoded.
func NewRawSubmitClient[Res any](httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *connect.Client[api.SubmitOrderRequest, Res] {
	baseURL = strings.TrimRight(baseURL, "/")
	return connect.NewClient[api.SubmitOrderRequest, Res](httpClient, baseURL+OrderServiceSubmitOrderProcedure, clientOptions(opts))
}

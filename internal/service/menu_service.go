package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/KamilKorczek/project-pizzeria/internal/calculator"
	"github.com/KamilKorczek/project-pizzeria/internal/catalog"
	"github.com/KamilKorczek/project-pizzeria/internal/widget"
	"github.com/KamilKorczek/project-pizzeria/pkg/api"
	"github.com/KamilKorczek/project-pizzeria/pkg/api/apiconnect"
)

// MenuService implements the Connect MenuService.
type MenuService struct {
	catalog     *catalog.Catalog
	pricers     map[string]*calculator.Pricer
	deliveryFee float64
	limits      widget.AmountLimits
	logger      *slog.Logger
}

var _ apiconnect.MenuServiceHandler = (*MenuService)(nil)

// NewMenuService creates a MenuService over a loaded catalog.
func NewMenuService(menu *catalog.Catalog, deliveryFee float64, limits widget.AmountLimits, logger *slog.Logger) (*MenuService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &MenuService{
		catalog:     menu,
		pricers:     make(map[string]*calculator.Pricer, menu.Len()),
		deliveryFee: deliveryFee,
		limits:      limits.Normalized(),
		logger:      logger,
	}
	for _, p := range menu.Products() {
		product, _ := menu.Product(p.ID)
		pricer, err := calculator.NewPricer(product)
		if err != nil {
			return nil, err
		}
		s.pricers[p.ID] = pricer
	}
	return s, nil
}

// ListProducts returns the menu and the configured delivery fee.
func (s *MenuService) ListProducts(ctx context.Context, req *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error) {
	return connect.NewResponse(&api.ListProductsResponse{
		Products:    s.catalog.Products(),
		DeliveryFee: s.deliveryFee,
	}), nil
}

// QuotePrice prices a configured product with the same engine the widget uses.
// A zero amount means the default amount.
func (s *MenuService) QuotePrice(ctx context.Context, req *connect.Request[api.QuotePriceRequest]) (*connect.Response[api.QuotePriceResponse], error) {
	pricer, ok := s.pricers[req.Msg.ProductID]
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("product %q not found", req.Msg.ProductID))
	}

	amount := req.Msg.Amount
	if amount == 0 {
		amount = s.limits.Default
	}
	if !s.limits.Allows(amount) {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("amount must be between %d and %d, got %d", s.limits.Min, s.limits.Max, amount))
	}

	result := pricer.Price(req.Msg.Params)
	s.logger.Debug("Quoted price", "product_id", req.Msg.ProductID, "price_single", result.UnitPrice, "amount", amount)

	return connect.NewResponse(&api.QuotePriceResponse{
		ProductID:   req.Msg.ProductID,
		PriceSingle: result.UnitPrice,
		Price:       result.UnitPrice * float64(amount),
		Amount:      amount,
		Options:     result.Options,
	}), nil
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/KamilKorczek/project-pizzeria/internal/cache"
	"github.com/KamilKorczek/project-pizzeria/internal/middleware"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
	"github.com/KamilKorczek/project-pizzeria/internal/order"
	"github.com/KamilKorczek/project-pizzeria/internal/storage"
	"github.com/KamilKorczek/project-pizzeria/pkg/api"
	"github.com/KamilKorczek/project-pizzeria/pkg/api/apiconnect"
)

const (
	idempotencyScope = "orders"
	maxListLimit     = 100
)

var (
	// ErrDuplicate is returned while another request with the same idempotency
	// key is still being processed.
	ErrDuplicate = errors.New("duplicate idempotency key")

	// ErrKeyReused is returned when an idempotency key is replayed with a
	// different order document.
	ErrKeyReused = errors.New("idempotency key already used for a different order")
)

// OrderService implements the Connect OrderService.
type OrderService struct {
	store       storage.Store
	catalog     order.Catalog
	deliveryFee float64
	idem        cache.IdempotencyStore
	logger      *slog.Logger
}

var _ apiconnect.OrderServiceHandler = (*OrderService)(nil)

// NewOrderService creates an OrderService. idem may be nil to disable
// de-duplication of retried submissions.
func NewOrderService(store storage.Store, menu order.Catalog, deliveryFee float64, idem cache.IdempotencyStore, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		store:       store,
		catalog:     menu,
		deliveryFee: deliveryFee,
		idem:        idem,
		logger:      logger,
	}
}

// SubmitOrder verifies a submitted payload against the menu and stores it.
func (s *OrderService) SubmitOrder(ctx context.Context, req *connect.Request[api.SubmitOrderRequest]) (*connect.Response[api.SubmitOrderResponse], error) {
	payload := *req.Msg
	if err := order.Verify(payload, s.catalog, s.deliveryFee); err != nil {
		ordersSubmitted.WithLabelValues(resultRejected).Inc()
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	key := req.Header().Get(apiconnect.IdempotencyKeyHeader)
	if key != "" && s.idem != nil {
		if existing, ok, err := s.recall(ctx, key); err != nil {
			return nil, err
		} else if ok {
			if !samePayload(existing.OrderPayload, payload) {
				ordersSubmitted.WithLabelValues(resultRejected).Inc()
				s.logger.Warn("Idempotency key reused", "order_id", existing.ID, "idempotency_key", key)
				return nil, connect.NewError(connect.CodeAlreadyExists, ErrKeyReused)
			}
			ordersSubmitted.WithLabelValues(resultReplayed).Inc()
			s.logger.Info("Order replayed", "order_id", existing.ID, "idempotency_key", key)
			return connect.NewResponse(existing), nil
		}

		locked, err := s.idem.TryLock(ctx, idempotencyScope, key)
		if err != nil {
			s.logger.Error("Idempotency lock failed", "idempotency_key", key, "error", err)
			return nil, connect.NewError(connect.CodeUnavailable, err)
		}
		if !locked {
			return nil, connect.NewError(connect.CodeAborted, ErrDuplicate)
		}
	}

	created := &models.Order{OrderPayload: payload, Status: models.OrderStatusReceived}
	if err := s.store.CreateOrder(ctx, created); err != nil {
		s.logger.Error("CreateOrder failed", "error", err)
		if key != "" && s.idem != nil {
			if relErr := s.idem.Release(ctx, idempotencyScope, key); relErr != nil {
				s.logger.Warn("Idempotency release failed", "idempotency_key", key, "error", relErr)
			}
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if key != "" && s.idem != nil {
		s.remember(ctx, key, created.ID)
	}

	ordersSubmitted.WithLabelValues(resultAccepted).Inc()
	orderValue.Observe(created.TotalPrice)
	s.logger.Info("Order received",
		"order_id", created.ID,
		"total_price", created.TotalPrice,
		"total_number", created.TotalNumber,
		"operator_id", middleware.GetOperatorID(ctx),
	)

	return connect.NewResponse(created), nil
}

// remember maps the key to the stored order, trying twice. If that fails the
// lock is released so retries are not refused until it expires.
func (s *OrderService) remember(ctx context.Context, key, orderID string) {
	var err error
	for i := 0; i < 2; i++ {
		if err = s.idem.Remember(ctx, idempotencyScope, key, orderID); err == nil {
			return
		}
	}
	s.logger.Warn("Idempotency remember failed", "idempotency_key", key, "order_id", orderID, "error", err)
	if relErr := s.idem.Release(ctx, idempotencyScope, key); relErr != nil {
		s.logger.Warn("Idempotency release failed", "idempotency_key", key, "error", relErr)
	}
}

// samePayload compares two order documents by their JSON encoding, which
// sorts map keys.
func samePayload(a, b models.OrderPayload) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}

// recall returns the order previously stored under the idempotency key.
func (s *OrderService) recall(ctx context.Context, key string) (*models.Order, bool, error) {
	id, ok, err := s.idem.Recall(ctx, idempotencyScope, key)
	if err != nil {
		s.logger.Error("Idempotency recall failed", "idempotency_key", key, "error", err)
		return nil, false, connect.NewError(connect.CodeUnavailable, err)
	}
	if !ok {
		return nil, false, nil
	}
	existing, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, false, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to load order %s: %w", id, err))
	}
	return existing, true, nil
}

// GetOrder returns one stored order. Operators only.
func (s *OrderService) GetOrder(ctx context.Context, req *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error) {
	if middleware.GetOperatorID(ctx) == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	if req.Msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("order id is required"))
	}

	o, err := s.store.GetOrder(ctx, req.Msg.ID)
	if errors.Is(err, storage.ErrOrderNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		s.logger.Error("GetOrder failed", "order_id", req.Msg.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(o), nil
}

// ListOrders pages through stored orders, newest first. Operators only.
func (s *OrderService) ListOrders(ctx context.Context, req *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error) {
	if middleware.GetOperatorID(ctx) == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	if req.Msg.Limit < 0 || req.Msg.Offset < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("limit and offset must not be negative"))
	}
	limit := min(req.Msg.Limit, maxListLimit)

	stored, err := s.store.ListOrders(ctx, limit, req.Msg.Offset)
	if err != nil {
		s.logger.Error("ListOrders failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	orders := make([]models.Order, len(stored))
	for i, o := range stored {
		orders[i] = *o
	}
	return connect.NewResponse(&api.ListOrdersResponse{Orders: orders}), nil
}

// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

// ErrOrderNotFound is returned when no order has the requested ID.
var ErrOrderNotFound = errors.New("order not found")

// Store defines the persistence used by the backend services.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// CreateOrder persists a verified order.
	// ID and CreatedAt are filled in when empty.
	CreateOrder(ctx context.Context, order *models.Order) error

	// GetOrder retrieves an order with its products.
	// Returns ErrOrderNotFound if there is no such order.
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)

	// ListOrders returns orders newest first.
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)

	// CreateOperator persists a staff account.
	CreateOperator(ctx context.Context, op *models.Operator) error

	// GetOperatorByEmail returns nil, nil when no operator matches.
	GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)

	// GetOperatorByID returns nil, nil when no operator matches.
	GetOperatorByID(ctx context.Context, id string) (*models.Operator, error)

	// Close releases any resources held by the store.
	Close() error
}

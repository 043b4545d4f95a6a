package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KamilKorczek/project-pizzeria/internal/models"
	"github.com/KamilKorczek/project-pizzeria/internal/storage"
)

const defaultListLimit = 50

// CreateOrder persists an order and its products in one transaction.
func (s *SQLiteStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusReceived
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, address, phone, total_price, subtotal_price, total_number, delivery_fee, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.Address, order.Phone, order.TotalPrice, order.SubtotalPrice,
		order.TotalNumber, order.DeliveryFee, order.Status, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, p := range order.Products {
		params, err := json.Marshal(p.Params)
		if err != nil {
			return fmt.Errorf("failed to encode params of %s: %w", p.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_products (order_id, position, product_id, amount, price, price_single, params_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			order.ID, i, p.ID, p.Amount, p.Price, p.PriceSingle, string(params),
		)
		if err != nil {
			return fmt.Errorf("failed to insert order product: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetOrder retrieves an order by ID, including its products in submission order.
func (s *SQLiteStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order := &models.Order{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, address, phone, total_price, subtotal_price, total_number, delivery_fee, status, created_at
		 FROM orders WHERE id = ?`,
		orderID,
	).Scan(&order.ID, &order.Address, &order.Phone, &order.TotalPrice, &order.SubtotalPrice,
		&order.TotalNumber, &order.DeliveryFee, &order.Status, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	products, err := s.orderProducts(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Products = products

	return order, nil
}

// ListOrders returns a page of orders, newest first.
func (s *SQLiteStore) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM orders ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	orders := make([]*models.Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (s *SQLiteStore) orderProducts(ctx context.Context, orderID string) ([]models.OrderProduct, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, amount, price, price_single, params_json
		 FROM order_products WHERE order_id = ? ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order products: %w", err)
	}
	defer rows.Close()

	products := []models.OrderProduct{}
	for rows.Next() {
		var (
			p      models.OrderProduct
			params string
		)
		if err := rows.Scan(&p.ID, &p.Amount, &p.Price, &p.PriceSingle, &params); err != nil {
			return nil, fmt.Errorf("failed to scan order product: %w", err)
		}
		if err := json.Unmarshal([]byte(params), &p.Params); err != nil {
			return nil, fmt.Errorf("failed to decode params of %s: %w", p.ID, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order products: %w", err)
	}

	return products, nil
}

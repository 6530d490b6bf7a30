package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/openpioneer/marketplace-notify/internal/domain"
)

// CreateSellerItem inserts a new listing. Duration and expiry are expected
// to be normalized/derived by the caller before insert.
func (s *PostgresStore) CreateSellerItem(ctx context.Context, sellerID, name string, duration int, expiredBy time.Time, level domain.StockLevel) (*domain.SellerItem, error) {
	var item domain.SellerItem
	err := s.pool.QueryRow(ctx, `
		INSERT INTO seller_items (seller_id, name, duration, expired_by, stock_level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, seller_id, name, duration, expired_by, stock_level, created_at, updated_at
	`, sellerID, name, duration, expiredBy, level).Scan(
		&item.ID, &item.SellerID, &item.Name, &item.Duration,
		&item.ExpiredBy, &item.StockLevel, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting seller item: %w", err)
	}
	return &item, nil
}

// GetSellerItem returns a listing by id, or (nil, nil) when absent.
func (s *PostgresStore) GetSellerItem(ctx context.Context, id string) (*domain.SellerItem, error) {
	var item domain.SellerItem
	err := s.pool.QueryRow(ctx, `
		SELECT id, seller_id, name, duration, expired_by, stock_level, created_at, updated_at
		FROM seller_items WHERE id = $1
	`, id).Scan(
		&item.ID, &item.SellerID, &item.Name, &item.Duration,
		&item.ExpiredBy, &item.StockLevel, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying seller item: %w", err)
	}
	return &item, nil
}

// UpdateSellerItem persists a duration change and its derived expiry.
func (s *PostgresStore) UpdateSellerItem(ctx context.Context, id, name string, duration int, expiredBy time.Time) (*domain.SellerItem, error) {
	var item domain.SellerItem
	err := s.pool.QueryRow(ctx, `
		UPDATE seller_items
		SET name = $2, duration = $3, expired_by = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, seller_id, name, duration, expired_by, stock_level, created_at, updated_at
	`, id, name, duration, expiredBy).Scan(
		&item.ID, &item.SellerID, &item.Name, &item.Duration,
		&item.ExpiredBy, &item.StockLevel, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("updating seller item: %w", err)
	}
	return &item, nil
}

// SetStockLevel applies a computed stock transition to a listing.
func (s *PostgresStore) SetStockLevel(ctx context.Context, id string, level domain.StockLevel) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE seller_items SET stock_level = $2, updated_at = NOW() WHERE id = $1
	`, id, level)
	if err != nil {
		return fmt.Errorf("updating stock level: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("seller item not found")
	}
	return nil
}

// CreateOrder records a placed order.
func (s *PostgresStore) CreateOrder(ctx context.Context, itemID, buyerID string, quantity int) (*domain.Order, error) {
	var o domain.Order
	err := s.pool.QueryRow(ctx, `
		INSERT INTO orders (item_id, buyer_id, quantity, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, item_id, buyer_id, quantity, status, created_at, updated_at
	`, itemID, buyerID, quantity, domain.OrderStatusPlaced).Scan(
		&o.ID, &o.ItemID, &o.BuyerID, &o.Quantity, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}
	return &o, nil
}

// GetOrder returns an order by id, or (nil, nil) when absent.
func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := s.pool.QueryRow(ctx, `
		SELECT id, item_id, buyer_id, quantity, status, created_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(
		&o.ID, &o.ItemID, &o.BuyerID, &o.Quantity, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying order: %w", err)
	}
	return &o, nil
}

// CancelOrder marks a placed order cancelled. Returns (nil, nil) when the
// order does not exist or was already cancelled.
func (s *PostgresStore) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := s.pool.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING id, item_id, buyer_id, quantity, status, created_at, updated_at
	`, id, domain.OrderStatusCancelled, domain.OrderStatusPlaced).Scan(
		&o.ID, &o.ItemID, &o.BuyerID, &o.Quantity, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("cancelling order: %w", err)
	}
	return &o, nil
}

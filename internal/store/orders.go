package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"marketplace-service/internal/domain"
)

const (
	orderColumns     = `id, user_id, total_amount, status, created_at`
	orderItemColumns = `id, order_id, product_id, seller_id, price, quantity`
)

// --- OrderStorer Implementation ---

// CreateOrder runs checkout in a single transaction. Each product row is locked while its
// current price and seller are snapshotted into the order items; sales counters are bumped
// and the user's cart is cleared before commit. Any failure leaves no trace.
func (s *PostgresStore) CreateOrder(ctx context.Context, userID string, lines []domain.OrderLine) (*domain.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateOrder failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		var snapshot struct {
			SellerID string          `db:"seller_id"`
			Price    decimal.Decimal `db:"price"`
		}
		err := tx.GetContext(ctx, &snapshot, `SELECT seller_id, price FROM products WHERE id = $1 FOR UPDATE;`, line.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
			}
			return nil, fmt.Errorf("store: CreateOrder failed to lock product %s: %w", line.ProductID, err)
		}
		productID, sellerID := line.ProductID, snapshot.SellerID
		items = append(items, domain.OrderItem{
			ProductID: &productID,
			SellerID:  &sellerID,
			Price:     snapshot.Price,
			Quantity:  line.Quantity,
		})
	}

	var order domain.Order
	err = tx.GetContext(ctx, &order, `
		INSERT INTO orders (id, user_id, total_amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+orderColumns+`;
	`, s.newID(), userID, domain.SumSubtotals(items), domain.OrderStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("store: CreateOrder failed to insert order: %w", err)
	}

	for i := range items {
		it := items[i]
		err = tx.GetContext(ctx, &items[i], `
			INSERT INTO order_items (id, order_id, product_id, seller_id, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+orderItemColumns+`;
		`, s.newID(), order.ID, it.ProductID, it.SellerID, it.Price, it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("store: CreateOrder failed to insert order item: %w", err)
		}
		_, err = tx.ExecContext(ctx, `UPDATE products SET sales_count = sales_count + $1 WHERE id = $2;`, it.Quantity, *it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("store: CreateOrder failed to update sales count: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1;`, userID); err != nil {
		return nil, fmt.Errorf("store: CreateOrder failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateOrder failed to commit: %w", err)
	}
	order.Items = items
	return &order, nil
}

func (s *PostgresStore) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`
	var order domain.Order
	if err := s.db.GetContext(ctx, &order, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("store: GetOrderByID failed to scan row: %w", err)
	}
	return &order, nil
}

func (s *PostgresStore) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC;`
	orders := []domain.Order{}
	if err := s.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("store: ListOrdersByUser failed to query orders: %w", err)
	}
	return orders, nil
}

// ListOrdersBySeller returns every order containing at least one item sold by sellerID.
func (s *PostgresStore) ListOrdersBySeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	query := `
		SELECT DISTINCT o.id, o.user_id, o.total_amount, o.status, o.created_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.seller_id = $1
		ORDER BY o.created_at DESC;
	`
	orders := []domain.Order{}
	if err := s.db.SelectContext(ctx, &orders, query, sellerID); err != nil {
		return nil, fmt.Errorf("store: ListOrdersBySeller failed to query orders: %w", err)
	}
	return orders, nil
}

func (s *PostgresStore) ListOrderItems(ctx context.Context, orderIDs ...string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	if len(orderIDs) == 0 {
		return items, nil
	}
	query, args, err := sqlx.In(`SELECT `+orderItemColumns+` FROM order_items WHERE order_id IN (?) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("store: ListOrderItems failed to build query: %w", err)
	}
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("store: ListOrderItems failed to query order items: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ListOrderItemsBySeller(ctx context.Context, sellerID string) ([]domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE seller_id = $1;`
	items := []domain.OrderItem{}
	if err := s.db.SelectContext(ctx, &items, query, sellerID); err != nil {
		return nil, fmt.Errorf("store: ListOrderItemsBySeller failed to query order items: %w", err)
	}
	return items, nil
}

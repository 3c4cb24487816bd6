package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace-service/internal/domain"
)

const cartItemColumns = `id, user_id, product_id, quantity, created_at`

// --- CartStorer Implementation ---

// ListCartItems returns the user's cart rows, each with its current product attached.
func (s *PostgresStore) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items WHERE user_id = $1 ORDER BY created_at ASC;`
	items := []domain.CartItem{}
	if err := s.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("store: ListCartItems failed to query cart items: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.ListProducts(ctx, ListProductsParams{ProductIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("store: ListCartItems failed to load products: %w", err)
	}
	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range items {
		items[i].Product = byID[items[i].ProductID]
	}
	return items, nil
}

// AddCartItem inserts a cart row or, if the user already has the product, adds quantity to it.
func (s *PostgresStore) AddCartItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartItem, error) {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING ` + cartItemColumns + `;
	`
	var item domain.CartItem
	if err := s.db.GetContext(ctx, &item, query, s.newID(), userID, productID, quantity); err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: AddCartItem failed to scan row: %w", err)
	}
	return &item, nil
}

// UpdateCartItemQuantity sets the quantity of a cart row owned by userID.
func (s *PostgresStore) UpdateCartItemQuantity(ctx context.Context, userID, cartItemID string, quantity int) (*domain.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + cartItemColumns + `;
	`
	var item domain.CartItem
	if err := s.db.GetContext(ctx, &item, query, quantity, cartItemID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("store: UpdateCartItemQuantity failed to scan row: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) RemoveCartItem(ctx context.Context, userID, cartItemID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2;`, cartItemID, userID)
	if err != nil {
		return fmt.Errorf("store: RemoveCartItem failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: RemoveCartItem failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *PostgresStore) ClearCart(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("store: ClearCart failed to execute delete: %w", err)
	}
	return nil
}

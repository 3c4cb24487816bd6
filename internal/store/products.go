package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"marketplace-service/internal/domain"
)

const productColumns = `id, seller_id, category_id, title, description, price, features, image_url, download_url,
	rating, review_count, sales_count, is_active, created_at, updated_at`

// --- ProductStorer Implementation ---

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products
			(id, seller_id, category_id, title, description, price, features, image_url, download_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + productColumns + `;
	`
	var created domain.Product
	err := s.db.GetContext(ctx, &created, query,
		s.newID(), product.SellerID, product.CategoryID, product.Title, product.Description,
		product.Price, features(product.Features), product.ImageURL, product.DownloadURL, product.IsActive,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	var product domain.Product
	if err := s.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}
	return &product, nil
}

// ListProducts returns products matching every non-nil filter, newest first.
func (s *PostgresStore) ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, error) {
	var queryArgs []interface{}
	var whereClauses []string

	if params.SearchQuery != nil && *params.SearchQuery != "" {
		whereClauses = append(whereClauses, "(title ILIKE ? OR description ILIKE ?)")
		searchTerm := "%" + *params.SearchQuery + "%"
		queryArgs = append(queryArgs, searchTerm, searchTerm)
	}
	if params.CategoryID != nil {
		whereClauses = append(whereClauses, "category_id = ?")
		queryArgs = append(queryArgs, *params.CategoryID)
	}
	if params.SellerID != nil {
		whereClauses = append(whereClauses, "seller_id = ?")
		queryArgs = append(queryArgs, *params.SellerID)
	}
	if params.IsActive != nil {
		whereClauses = append(whereClauses, "is_active = ?")
		queryArgs = append(queryArgs, *params.IsActive)
	}
	if params.ProductIDs != nil {
		if len(params.ProductIDs) == 0 {
			return []domain.Product{}, nil
		}
		whereClauses = append(whereClauses, "id IN (?)")
		queryArgs = append(queryArgs, params.ProductIDs)
	}

	whereCondition := ""
	if len(whereClauses) > 0 {
		whereCondition = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products`+whereCondition+` ORDER BY created_at DESC`, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("store: ListProducts failed to build query: %w", err)
	}

	products := []domain.Product{}
	if err := s.db.SelectContext(ctx, &products, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}
	return products, nil
}

// UpdateProduct writes the client-editable columns. Rating, review and sales counters are left alone.
func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET category_id = $1, title = $2, description = $3, price = $4, features = $5,
			image_url = $6, download_url = $7, is_active = $8, updated_at = CURRENT_TIMESTAMP
		WHERE id = $9
		RETURNING ` + productColumns + `;
	`
	var updated domain.Product
	err := s.db.GetContext(ctx, &updated, query,
		product.CategoryID, product.Title, product.Description, product.Price, features(product.Features),
		product.ImageURL, product.DownloadURL, product.IsActive, product.ID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to scan row: %w", err)
	}
	return &updated, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// features keeps the NOT NULL column happy; a nil pq.StringArray is written as NULL.
func features(f pq.StringArray) pq.StringArray {
	if f == nil {
		return pq.StringArray{}
	}
	return f
}

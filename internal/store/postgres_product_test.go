package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/domain"
)

var productCols = []string{
	"id", "seller_id", "category_id", "title", "description", "price", "features", "image_url", "download_url",
	"rating", "review_count", "sales_count", "is_active", "created_at", "updated_at",
}

func productRow(id, sellerID, price string) []driver.Value {
	now := time.Now()
	return []driver.Value{id, sellerID, "c1", "Product " + id, "A product", price, "{fast,offline}", nil, nil, "0.00", 0, 0, true, now, now}
}

func TestPostgresStore_CreateProduct(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	product := &domain.Product{
		SellerID:    "s1",
		CategoryID:  "c1",
		Title:       "Product id-1",
		Description: "A product",
		Price:       decimal.RequireFromString("19.99"),
		IsActive:    true,
	}

	mock.ExpectQuery(q("INSERT INTO products")).
		WithArgs("id-1", "s1", "c1", product.Title, product.Description, product.Price, "{}", nil, nil, true).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(productRow("id-1", "s1", "19.99")...))

	created, err := store.CreateProduct(context.Background(), product)

	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, "19.99", created.Price.StringFixed(2))
	assert.Equal(t, pq.StringArray{"fast", "offline"}, created.Features)
	assert.True(t, created.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateProduct_UnknownCategory(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(q("INSERT INTO products")).WillReturnError(&pq.Error{Code: "23503"})

	created, err := store.CreateProduct(context.Background(), &domain.Product{SellerID: "s1", CategoryID: "nope"})

	assert.True(t, errors.Is(err, ErrCategoryNotFound))
	assert.Nil(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProducts_Filters(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(q("FROM products WHERE (title ILIKE $1 OR description ILIKE $2) AND category_id = $3 AND is_active = $4 ORDER BY created_at DESC")).
		WithArgs("%edit%", "%edit%", "c1", true).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(productRow("p1", "s1", "5.00")...))

	products, err := store.ListProducts(context.Background(), ListProductsParams{
		SearchQuery: PtrTo("edit"),
		CategoryID:  PtrTo("c1"),
		IsActive:    PtrTo(true),
	})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProducts_EmptyIDSet(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	products, err := store.ListProducts(context.Background(), ListProductsParams{ProductIDs: []string{}})

	require.NoError(t, err)
	assert.Empty(t, products)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateProduct_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(q("UPDATE products")).WillReturnRows(sqlmock.NewRows(productCols))

	updated, err := store.UpdateProduct(context.Background(), &domain.Product{ID: "missing"})

	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.Nil(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteProduct_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(q("DELETE FROM products WHERE id = $1")).WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteProduct(context.Background(), "missing")

	assert.True(t, errors.Is(err, ErrProductNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

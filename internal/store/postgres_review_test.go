package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/domain"
)

var reviewCols = []string{"id", "user_id", "product_id", "seller_id", "rating", "comment", "created_at"}

func TestPostgresStore_CreateReview_RecomputesRating(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT seller_id FROM products WHERE id = $1 FOR UPDATE")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"seller_id"}).AddRow("s1"))
	mock.ExpectQuery(q("INSERT INTO reviews")).
		WithArgs("id-1", "u1", "p1", "s1", 5, "great").
		WillReturnRows(sqlmock.NewRows(reviewCols).AddRow("id-1", "u1", "p1", "s1", 5, "great", time.Now()))
	mock.ExpectQuery(q("SELECT rating FROM reviews WHERE product_id = $1")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(4).AddRow(5))
	mock.ExpectExec(q("SET rating = $1, review_count = $2")).
		WithArgs(decimal.RequireFromString("4.50"), 2, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	review, err := store.CreateReview(context.Background(), &domain.Review{
		UserID: "u1", ProductID: "p1", SellerID: "ignored", Rating: 5, Comment: "great",
	})

	require.NoError(t, err)
	assert.Equal(t, "id-1", review.ID)
	assert.Equal(t, "s1", review.SellerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateReview_UnknownProduct(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT seller_id FROM products WHERE id = $1 FOR UPDATE")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"seller_id"}))
	mock.ExpectRollback()

	review, err := store.CreateReview(context.Background(), &domain.Review{UserID: "u1", ProductID: "missing", Rating: 3, Comment: "ok"})

	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.Nil(t, review)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListReviewsByProduct_AttachesReviewer(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	cols := append(append([]string{}, reviewCols...),
		"user.id", "user.email", "user.first_name", "user.last_name", "user.profile_image_url",
		"user.role", "user.created_at", "user.updated_at")
	mock.ExpectQuery(q("JOIN users u ON u.id = r.user_id")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("r1", "u1", "p1", "s1", 4, "solid", now, "u1", "ann@example.com", "Ann", nil, nil, "user", now, now))

	reviews, err := store.ListReviewsByProduct(context.Background(), "p1")

	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotNil(t, reviews[0].User)
	assert.Equal(t, "Ann", *reviews[0].User.FirstName)
	assert.Equal(t, domain.RoleUser, reviews[0].User.Role)
	assert.Equal(t, 4, reviews[0].Rating)
	require.NoError(t, mock.ExpectationsWereMet())
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace-service/internal/domain"
)

const reviewColumns = `id, user_id, product_id, seller_id, rating, comment, created_at`

// --- ReviewStorer Implementation ---

// CreateReview inserts a review and recomputes the product's rating from all of its reviews.
// The seller is snapshotted from the product; review.SellerID is ignored.
func (s *PostgresStore) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateReview failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	var sellerID string
	if err := tx.GetContext(ctx, &sellerID, `SELECT seller_id FROM products WHERE id = $1 FOR UPDATE;`, review.ProductID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: CreateReview failed to lock product: %w", err)
	}

	var created domain.Review
	err = tx.GetContext(ctx, &created, `
		INSERT INTO reviews (id, user_id, product_id, seller_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+reviewColumns+`;
	`, s.newID(), review.UserID, review.ProductID, sellerID, review.Rating, review.Comment)
	if err != nil {
		return nil, fmt.Errorf("store: CreateReview failed to insert review: %w", err)
	}

	var ratings []int
	if err := tx.SelectContext(ctx, &ratings, `SELECT rating FROM reviews WHERE product_id = $1;`, review.ProductID); err != nil {
		return nil, fmt.Errorf("store: CreateReview failed to load ratings: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET rating = $1, review_count = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3;
	`, domain.AverageRating(ratings), len(ratings), review.ProductID)
	if err != nil {
		return nil, fmt.Errorf("store: CreateReview failed to update product rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateReview failed to commit: %w", err)
	}
	return &created, nil
}

// ListReviewsByProduct returns the product's reviews newest first, each with its reviewer attached.
func (s *PostgresStore) ListReviewsByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	query := `
		SELECT r.id, r.user_id, r.product_id, r.seller_id, r.rating, r.comment, r.created_at,
			u.id AS "user.id", u.email AS "user.email", u.first_name AS "user.first_name",
			u.last_name AS "user.last_name", u.profile_image_url AS "user.profile_image_url",
			u.role AS "user.role", u.created_at AS "user.created_at", u.updated_at AS "user.updated_at"
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC;
	`
	var rows []reviewWithUser
	if err := s.db.SelectContext(ctx, &rows, query, productID); err != nil {
		return nil, fmt.Errorf("store: ListReviewsByProduct failed to query reviews: %w", err)
	}
	reviews := make([]domain.Review, 0, len(rows))
	for _, r := range rows {
		review := r.Review
		user := r.User
		review.User = &user
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (s *PostgresStore) ListReviewsBySeller(ctx context.Context, sellerID string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE seller_id = $1 ORDER BY created_at DESC;`
	reviews := []domain.Review{}
	if err := s.db.SelectContext(ctx, &reviews, query, sellerID); err != nil {
		return nil, fmt.Errorf("store: ListReviewsBySeller failed to query reviews: %w", err)
	}
	return reviews, nil
}

type reviewWithUser struct {
	domain.Review
	User domain.User `db:"user"`
}

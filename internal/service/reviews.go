package service

import (
	"context"
	"fmt"
	"strings"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/messaging"
	"marketplace-service/internal/store"
)

// ReviewService records reviews; the store keeps product ratings in step.
type ReviewService struct {
	reviews store.ReviewStorer
	pub     messaging.Publisher
}

func NewReviewService(reviews store.ReviewStorer, pub messaging.Publisher) *ReviewService {
	return &ReviewService{reviews: reviews, pub: pub}
}

func (s *ReviewService) Create(ctx context.Context, p *authz.Principal, productID string, rating int, comment string) (*domain.Review, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, domain.InvalidInput(fmt.Sprintf("Rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if strings.TrimSpace(comment) == "" {
		return nil, domain.InvalidInput("Comment is required")
	}

	review, err := s.reviews.CreateReview(ctx, &domain.Review{
		UserID:    p.UserID(),
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.pub, messaging.TopicReviewCreated, review.ProductID, messaging.ReviewCreated{
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		SellerID:  review.SellerID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt,
	})
	return review, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.reviews.ListReviewsByProduct(ctx, productID)
}

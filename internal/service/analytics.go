package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/store"
)

// AnalyticsService computes seller and platform dashboards.
type AnalyticsService struct {
	users      store.UserStorer
	categories store.CategoryStorer
	products   store.ProductStorer
	orders     store.OrderStorer
	reviews    store.ReviewStorer
	commission store.CommissionStorer
}

func NewAnalyticsService(
	users store.UserStorer,
	categories store.CategoryStorer,
	products store.ProductStorer,
	orders store.OrderStorer,
	reviews store.ReviewStorer,
	commission store.CommissionStorer,
) *AnalyticsService {
	return &AnalyticsService{
		users:      users,
		categories: categories,
		products:   products,
		orders:     orders,
		reviews:    reviews,
		commission: commission,
	}
}

// Seller summarises the caller's catalogue and sales. Commission is charged per item at the
// rate of the product's category; items without a known category use the default rate.
func (s *AnalyticsService) Seller(ctx context.Context, p *authz.Principal) (*domain.SellerAnalytics, error) {
	if !p.Policy.SeesSoldOrders() {
		return nil, domain.Forbidden("Only sellers have seller analytics")
	}
	sellerID := p.UserID()

	products, err := s.products.ListProducts(ctx, store.ListProductsParams{SellerID: &sellerID})
	if err != nil {
		return nil, err
	}
	items, err := s.orders.ListOrderItemsBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListReviewsBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	stats := &domain.SellerAnalytics{
		TotalRevenue: domain.SumSubtotals(items),
		ProductCount: len(products),
		ReviewCount:  len(reviews),
	}

	categoryOf := make(map[string]string, len(products))
	for _, prod := range products {
		categoryOf[prod.ID] = prod.CategoryID
		if prod.IsActive {
			stats.ActiveProducts++
		}
	}

	rates := make(map[string]*domain.CommissionSetting)
	commission := decimal.Zero
	for _, it := range items {
		stats.TotalSales += it.Quantity

		var categoryID string
		if it.ProductID != nil {
			categoryID = categoryOf[*it.ProductID]
		}
		rate, ok := rates[categoryID]
		if !ok {
			rate, err = s.commission.CommissionForCategory(ctx, categoryID)
			if errors.Is(err, store.ErrCommissionNotFound) {
				rate, err = nil, nil
			}
			if err != nil {
				return nil, err
			}
			rates[categoryID] = rate
		}
		if rate != nil {
			commission = commission.Add(rate.Apply(it.Subtotal()))
		}
	}
	stats.Commission = commission
	stats.NetRevenue = stats.TotalRevenue.Sub(commission)

	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}
	stats.AvgRating = domain.AverageRating(ratings)

	return stats, nil
}

// Admin summarises the whole platform.
func (s *AnalyticsService) Admin(ctx context.Context, p *authz.Principal) (*domain.AdminAnalytics, error) {
	if err := requireAdmin(p, "view platform analytics"); err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	active := true
	products, err := s.products.ListProducts(ctx, store.ListProductsParams{IsActive: &active})
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.AdminAnalytics{
		TotalUsers:      len(users),
		TotalProducts:   len(products),
		TotalCategories: len(categories),
		UsersByRole:     domain.CountUsersByRole(users),
	}, nil
}

package service

import (
	"context"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/store"
)

// CartService manages the caller's cart. Rows belonging to other users behave as missing.
type CartService struct {
	cart store.CartStorer
}

func NewCartService(cart store.CartStorer) *CartService {
	return &CartService{cart: cart}
}

func (s *CartService) List(ctx context.Context, p *authz.Principal) ([]domain.CartItem, error) {
	return s.cart.ListCartItems(ctx, p.UserID())
}

// Add puts quantity of a product in the cart, merging with an existing row.
func (s *CartService) Add(ctx context.Context, p *authz.Principal, productID string, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, domain.InvalidInput("Quantity must be at least 1")
	}
	return s.cart.AddCartItem(ctx, p.UserID(), productID, quantity)
}

func (s *CartService) UpdateQuantity(ctx context.Context, p *authz.Principal, cartItemID string, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, domain.InvalidInput("Quantity must be at least 1")
	}
	return s.cart.UpdateCartItemQuantity(ctx, p.UserID(), cartItemID, quantity)
}

func (s *CartService) Remove(ctx context.Context, p *authz.Principal, cartItemID string) error {
	return s.cart.RemoveCartItem(ctx, p.UserID(), cartItemID)
}

func (s *CartService) Clear(ctx context.Context, p *authz.Principal) error {
	return s.cart.ClearCart(ctx, p.UserID())
}

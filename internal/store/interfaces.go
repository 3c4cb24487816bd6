package store

import (
	"context"

	"marketplace-service/internal/domain"
)

// UserStorer defines the interface for user data operations.
type UserStorer interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SellerProfileStorer defines the interface for seller profile data operations.
type SellerProfileStorer interface {
	CreateSellerProfile(ctx context.Context, profile *domain.SellerProfile) (*domain.SellerProfile, error)
	GetSellerProfileByUserID(ctx context.Context, userID string) (*domain.SellerProfile, error)
	UpdateSellerProfile(ctx context.Context, profile *domain.SellerProfile) (*domain.SellerProfile, error)
}

// CategoryStorer defines the interface for category data operations.
type CategoryStorer interface {
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// ListProductsParams holds the optional filters for listing products.
// Nil fields are not applied.
type ListProductsParams struct {
	CategoryID  *string
	SellerID    *string
	SearchQuery *string
	IsActive    *bool
	ProductIDs  []string
}

// ProductStorer defines the interface for product data operations.
type ProductStorer interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// CartStorer defines the interface for cart data operations.
// Every method is scoped to the owning user.
type CartStorer interface {
	ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error)
	AddCartItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, userID, cartItemID string, quantity int) (*domain.CartItem, error)
	RemoveCartItem(ctx context.Context, userID, cartItemID string) error
	ClearCart(ctx context.Context, userID string) error
}

// OrderStorer defines the interface for order data operations.
type OrderStorer interface {
	// CreateOrder writes the order, its items, the sales counters and clears the cart atomically.
	// Lines must already be merged.
	CreateOrder(ctx context.Context, userID string, lines []domain.OrderLine) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListOrdersBySeller(ctx context.Context, sellerID string) ([]domain.Order, error)
	ListOrderItems(ctx context.Context, orderIDs ...string) ([]domain.OrderItem, error)
	ListOrderItemsBySeller(ctx context.Context, sellerID string) ([]domain.OrderItem, error)
}

// ReviewStorer defines the interface for review data operations.
type ReviewStorer interface {
	// CreateReview inserts the review and recomputes the product's rating and review count.
	CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ListReviewsByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	ListReviewsBySeller(ctx context.Context, sellerID string) ([]domain.Review, error)
}

// CommissionStorer defines the interface for commission setting data operations.
type CommissionStorer interface {
	CreateCommissionSetting(ctx context.Context, setting *domain.CommissionSetting) (*domain.CommissionSetting, error)
	ListCommissionSettings(ctx context.Context) ([]domain.CommissionSetting, error)
	GetCommissionSettingByID(ctx context.Context, id string) (*domain.CommissionSetting, error)
	UpdateCommissionSetting(ctx context.Context, setting *domain.CommissionSetting) (*domain.CommissionSetting, error)
	// CommissionForCategory returns the category's own setting or, failing that, the default.
	CommissionForCategory(ctx context.Context, categoryID string) (*domain.CommissionSetting, error)
}

// Store aggregates every storer. *PostgresStore implements it.
type Store interface {
	UserStorer
	SellerProfileStorer
	CategoryStorer
	ProductStorer
	CartStorer
	OrderStorer
	ReviewStorer
	CommissionStorer
	Ping(ctx context.Context) error
}

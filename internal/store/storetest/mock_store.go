// Package storetest provides a testify mock of store.Store for service and handler tests.
package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/store"
)

// MockStore is a mock implementation of store.Store.
type MockStore struct {
	mock.Mock
}

var _ store.Store = (*MockStore)(nil)

func (m *MockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- users ---

func (m *MockStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	var users []domain.User
	if arg0 := args.Get(0); arg0 != nil {
		users = arg0.([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockStore) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStore) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- seller profiles ---

func (m *MockStore) CreateSellerProfile(ctx context.Context, profile *domain.SellerProfile) (*domain.SellerProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellerProfile), args.Error(1)
}

func (m *MockStore) GetSellerProfileByUserID(ctx context.Context, userID string) (*domain.SellerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellerProfile), args.Error(1)
}

func (m *MockStore) UpdateSellerProfile(ctx context.Context, profile *domain.SellerProfile) (*domain.SellerProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellerProfile), args.Error(1)
}

// --- categories ---

func (m *MockStore) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	var categories []domain.Category
	if arg0 := args.Get(0); arg0 != nil {
		categories = arg0.([]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *MockStore) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockStore) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockStore) DeleteCategory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- products ---

func (m *MockStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockStore) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockStore) ListProducts(ctx context.Context, params store.ListProductsParams) ([]domain.Product, error) {
	args := m.Called(ctx, params)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockStore) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockStore) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- cart ---

func (m *MockStore) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	var items []domain.CartItem
	if arg0 := args.Get(0); arg0 != nil {
		items = arg0.([]domain.CartItem)
	}
	return items, args.Error(1)
}

func (m *MockStore) AddCartItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *MockStore) UpdateCartItemQuantity(ctx context.Context, userID, cartItemID string, quantity int) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, cartItemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *MockStore) RemoveCartItem(ctx context.Context, userID, cartItemID string) error {
	return m.Called(ctx, userID, cartItemID).Error(0)
}

func (m *MockStore) ClearCart(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// --- orders ---

func (m *MockStore) CreateOrder(ctx context.Context, userID string, lines []domain.OrderLine) (*domain.Order, error) {
	args := m.Called(ctx, userID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockStore) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockStore) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	var orders []domain.Order
	if arg0 := args.Get(0); arg0 != nil {
		orders = arg0.([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *MockStore) ListOrdersBySeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	args := m.Called(ctx, sellerID)
	var orders []domain.Order
	if arg0 := args.Get(0); arg0 != nil {
		orders = arg0.([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *MockStore) ListOrderItems(ctx context.Context, orderIDs ...string) ([]domain.OrderItem, error) {
	args := m.Called(ctx, orderIDs)
	var items []domain.OrderItem
	if arg0 := args.Get(0); arg0 != nil {
		items = arg0.([]domain.OrderItem)
	}
	return items, args.Error(1)
}

func (m *MockStore) ListOrderItemsBySeller(ctx context.Context, sellerID string) ([]domain.OrderItem, error) {
	args := m.Called(ctx, sellerID)
	var items []domain.OrderItem
	if arg0 := args.Get(0); arg0 != nil {
		items = arg0.([]domain.OrderItem)
	}
	return items, args.Error(1)
}

// --- reviews ---

func (m *MockStore) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockStore) ListReviewsByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	var reviews []domain.Review
	if arg0 := args.Get(0); arg0 != nil {
		reviews = arg0.([]domain.Review)
	}
	return reviews, args.Error(1)
}

func (m *MockStore) ListReviewsBySeller(ctx context.Context, sellerID string) ([]domain.Review, error) {
	args := m.Called(ctx, sellerID)
	var reviews []domain.Review
	if arg0 := args.Get(0); arg0 != nil {
		reviews = arg0.([]domain.Review)
	}
	return reviews, args.Error(1)
}

// --- commission ---

func (m *MockStore) CreateCommissionSetting(ctx context.Context, setting *domain.CommissionSetting) (*domain.CommissionSetting, error) {
	args := m.Called(ctx, setting)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionSetting), args.Error(1)
}

func (m *MockStore) ListCommissionSettings(ctx context.Context) ([]domain.CommissionSetting, error) {
	args := m.Called(ctx)
	var settings []domain.CommissionSetting
	if arg0 := args.Get(0); arg0 != nil {
		settings = arg0.([]domain.CommissionSetting)
	}
	return settings, args.Error(1)
}

func (m *MockStore) GetCommissionSettingByID(ctx context.Context, id string) (*domain.CommissionSetting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionSetting), args.Error(1)
}

func (m *MockStore) UpdateCommissionSetting(ctx context.Context, setting *domain.CommissionSetting) (*domain.CommissionSetting, error) {
	args := m.Called(ctx, setting)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionSetting), args.Error(1)
}

func (m *MockStore) CommissionForCategory(ctx context.Context, categoryID string) (*domain.CommissionSetting, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionSetting), args.Error(1)
}

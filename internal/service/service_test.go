package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/messaging"
	"marketplace-service/internal/store"
	"marketplace-service/internal/store/storetest"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	return m.Called(ctx, topic, key, event).Error(0)
}

func principal(id string, role domain.Role) *authz.Principal {
	return authz.NewPrincipal(&domain.User{ID: id, Role: role})
}

func PtrTo[T any](v T) *T {
	return &v
}

func TestOrderService_Checkout_EmptyRejected(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewOrderService(st, messaging.Nop{})

	order, err := svc.Checkout(context.Background(), principal("u1", domain.RoleUser), nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, "No items in order", err.Error())
	assert.Nil(t, order)
	st.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_NegativeQuantityRejected(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewOrderService(st, messaging.Nop{})

	_, err := svc.Checkout(context.Background(), principal("u1", domain.RoleUser), []domain.OrderLine{{ProductID: "p1", Quantity: -1}})

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	st.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_MergesLinesAndPublishes(t *testing.T) {
	st := new(storetest.MockStore)
	pub := new(mockPublisher)
	svc := NewOrderService(st, pub)

	merged := []domain.OrderLine{{ProductID: "p1", Quantity: 3}, {ProductID: "p2", Quantity: 1}}
	order := &domain.Order{
		ID:          "o1",
		UserID:      "u1",
		TotalAmount: decimal.RequireFromString("35.00"),
		Status:      domain.OrderStatusCompleted,
		Items: []domain.OrderItem{
			{ID: "i1", OrderID: "o1", ProductID: PtrTo("p1"), SellerID: PtrTo("s1"), Price: decimal.RequireFromString("10"), Quantity: 3},
			{ID: "i2", OrderID: "o1", ProductID: PtrTo("p2"), SellerID: PtrTo("s2"), Price: decimal.RequireFromString("5"), Quantity: 1},
		},
	}
	st.On("CreateOrder", mock.Anything, "u1", merged).Return(order, nil).Once()
	pub.On("PublishEvent", mock.Anything, messaging.TopicOrderCompleted, "o1", mock.MatchedBy(func(e messaging.OrderCompleted) bool {
		return e.OrderID == "o1" && len(e.Items) == 2 && e.Items[0].SellerID == "s1"
	})).Return(errors.New("broker down")).Once()

	got, err := svc.Checkout(context.Background(), principal("u1", domain.RoleUser), []domain.OrderLine{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2"},
		{ProductID: "p1", Quantity: 1},
	})

	require.NoError(t, err, "publish failures must not fail checkout")
	assert.Equal(t, order, got)
	st.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestOrderService_List_SellerSeesOnlyOwnItems(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewOrderService(st, messaging.Nop{})

	st.On("ListOrdersBySeller", mock.Anything, "s1").Return([]domain.Order{{ID: "o1"}, {ID: "o2"}}, nil).Once()
	st.On("ListOrderItems", mock.Anything, []string{"o1", "o2"}).Return([]domain.OrderItem{
		{ID: "i1", OrderID: "o1", SellerID: PtrTo("s1")},
		{ID: "i2", OrderID: "o1", SellerID: PtrTo("s2")},
		{ID: "i3", OrderID: "o2", SellerID: PtrTo("s1")},
		{ID: "i4", OrderID: "o2", SellerID: nil},
	}, nil).Once()

	orders, err := svc.List(context.Background(), principal("s1", domain.RoleDeveloper))

	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "i1", orders[0].Items[0].ID)
	require.Len(t, orders[1].Items, 1)
	assert.Equal(t, "i3", orders[1].Items[0].ID)
	st.AssertNotCalled(t, "ListOrdersByUser", mock.Anything, mock.Anything)
}

func TestOrderService_List_CustomerSeesOwnPurchases(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewOrderService(st, messaging.Nop{})

	st.On("ListOrdersByUser", mock.Anything, "u1").Return([]domain.Order{{ID: "o1", UserID: "u1"}}, nil).Once()
	st.On("ListOrderItems", mock.Anything, []string{"o1"}).Return([]domain.OrderItem{
		{ID: "i1", OrderID: "o1", SellerID: PtrTo("s1")},
		{ID: "i2", OrderID: "o1", SellerID: PtrTo("s2")},
	}, nil).Once()

	orders, err := svc.List(context.Background(), principal("u1", domain.RoleUser))

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 2)
	st.AssertExpectations(t)
}

func TestOrderService_Get_OtherUsersOrderForbidden(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewOrderService(st, messaging.Nop{})

	st.On("GetOrderByID", mock.Anything, "o1").Return(&domain.Order{ID: "o1", UserID: "someone-else"}, nil).Once()

	order, err := svc.Get(context.Background(), principal("u1", domain.RoleUser), "o1")

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Nil(t, order)
	st.AssertNotCalled(t, "ListOrderItems", mock.Anything, mock.Anything)
}

func TestOrderService_Get_AdminSeesAnyOrder(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewOrderService(st, messaging.Nop{})

	st.On("GetOrderByID", mock.Anything, "o1").Return(&domain.Order{ID: "o1", UserID: "someone-else"}, nil).Once()
	st.On("ListOrderItems", mock.Anything, []string{"o1"}).Return([]domain.OrderItem{{ID: "i1", OrderID: "o1"}}, nil).Once()

	order, err := svc.Get(context.Background(), principal("admin", domain.RoleAdmin), "o1")

	require.NoError(t, err)
	assert.Len(t, order.Items, 1)
	st.AssertExpectations(t)
}

func TestCartService_RejectsQuantityBelowOne(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewCartService(st)
	p := principal("u1", domain.RoleUser)

	_, err := svc.Add(context.Background(), p, "p1", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = svc.UpdateQuantity(context.Background(), p, "cart-1", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	st.AssertNotCalled(t, "AddCartItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "UpdateCartItemQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_ScopesToCaller(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewCartService(st)

	st.On("RemoveCartItem", mock.Anything, "intruder", "cart-1").Return(store.ErrCartItemNotFound).Once()

	err := svc.Remove(context.Background(), principal("intruder", domain.RoleUser), "cart-1")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	st.AssertExpectations(t)
}

func TestCatalogService_CategoryMutationsAdminOnly(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewCatalogService(st, st)

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleDeveloper, domain.RoleCompany} {
		p := principal("x", role)

		_, err := svc.CreateCategory(context.Background(), p, "Apps", nil)
		assert.True(t, errors.Is(err, domain.ErrForbidden), role)

		_, err = svc.UpdateCategory(context.Background(), p, "c1", CategoryUpdate{Name: PtrTo("Other")})
		assert.True(t, errors.Is(err, domain.ErrForbidden), role)

		assert.True(t, errors.Is(svc.DeleteCategory(context.Background(), p, "c1"), domain.ErrForbidden), role)
	}
	st.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "UpdateCategory", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
}

func TestCatalogService_ListProducts_ActiveOnlyWithoutSeller(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewCatalogService(st, st)

	st.On("ListProducts", mock.Anything, store.ListProductsParams{CategoryID: PtrTo("c1"), IsActive: PtrTo(true)}).
		Return([]domain.Product{{ID: "p1"}}, nil).Once()
	st.On("ListProducts", mock.Anything, store.ListProductsParams{SellerID: PtrTo("s1")}).
		Return([]domain.Product{{ID: "p1"}, {ID: "p2"}}, nil).Once()

	public, err := svc.ListProducts(context.Background(), ProductFilter{CategoryID: "c1"})
	require.NoError(t, err)
	assert.Len(t, public, 1)

	mine, err := svc.ListProducts(context.Background(), ProductFilter{SellerID: "s1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	st.AssertExpectations(t)
}

func TestCatalogService_CreateProduct(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewCatalogService(st, st)

	_, err := svc.CreateProduct(context.Background(), principal("u1", domain.RoleUser), ProductInput{Title: "x"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	st.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.SellerID == "s1" && p.IsActive && p.Price.Equal(decimal.RequireFromString("49.99"))
	})).Return(&domain.Product{ID: "p1", SellerID: "s1"}, nil).Once()

	product, err := svc.CreateProduct(context.Background(), principal("s1", domain.RoleCompany), ProductInput{
		CategoryID: "c1",
		Title:      "Invoice template",
		Price:      decimal.RequireFromString("49.99"),
	})

	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	st.AssertExpectations(t)
}

func TestCatalogService_UpdateProduct_Ownership(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewCatalogService(st, st)

	existing := func() *domain.Product {
		return &domain.Product{ID: "p1", SellerID: "owner", Title: "Old", Price: decimal.RequireFromString("10")}
	}
	st.On("GetProductByID", mock.Anything, "p1").Return(existing(), nil).Once()

	_, err := svc.UpdateProduct(context.Background(), principal("other-seller", domain.RoleDeveloper), "p1", ProductUpdate{Title: PtrTo("Hijacked")})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	st.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)

	st.On("GetProductByID", mock.Anything, "p1").Return(existing(), nil).Once()
	st.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Title == "New" && p.Price.Equal(decimal.RequireFromString("10"))
	})).Return(&domain.Product{ID: "p1", Title: "New"}, nil).Once()

	updated, err := svc.UpdateProduct(context.Background(), principal("admin", domain.RoleAdmin), "p1", ProductUpdate{Title: PtrTo("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	st.AssertExpectations(t)
}

func TestCatalogService_DeleteProduct_NotOwner(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewCatalogService(st, st)

	st.On("GetProductByID", mock.Anything, "p1").Return(&domain.Product{ID: "p1", SellerID: "owner"}, nil).Once()

	err := svc.DeleteProduct(context.Background(), principal("other", domain.RoleCompany), "p1")

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	st.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
}

func TestReviewService_Create(t *testing.T) {
	st := new(storetest.MockStore)
	pub := new(mockPublisher)
	svc := NewReviewService(st, pub)
	p := principal("u1", domain.RoleUser)

	for _, rating := range []int{0, 6} {
		_, err := svc.Create(context.Background(), p, "p1", rating, "fine")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "rating %d", rating)
	}
	_, err := svc.Create(context.Background(), p, "p1", 4, "   ")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	st.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)

	created := &domain.Review{ID: "r1", UserID: "u1", ProductID: "p1", SellerID: "s1", Rating: 4, Comment: "fine", CreatedAt: time.Now()}
	st.On("CreateReview", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.UserID == "u1" && r.ProductID == "p1" && r.Rating == 4
	})).Return(created, nil).Once()
	pub.On("PublishEvent", mock.Anything, messaging.TopicReviewCreated, "p1", mock.AnythingOfType("messaging.ReviewCreated")).Return(nil).Once()

	review, err := svc.Create(context.Background(), p, "p1", 4, "fine")

	require.NoError(t, err)
	assert.Equal(t, "s1", review.SellerID)
	st.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCommissionService(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewCommissionService(st)
	admin := principal("admin", domain.RoleAdmin)

	_, err := svc.List(context.Background(), principal("s1", domain.RoleDeveloper))
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	st.AssertNotCalled(t, "ListCommissionSettings", mock.Anything)

	invalid := []domain.CommissionSetting{
		{Rate: decimal.NewFromInt(-1), IsDefault: true},
		{Rate: decimal.NewFromInt(101), IsDefault: true},
		{Rate: decimal.NewFromInt(10), IsDefault: true, CategoryID: PtrTo("c1")},
		{Rate: decimal.NewFromInt(10)},
	}
	for _, in := range invalid {
		_, err := svc.Create(context.Background(), admin, in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%+v", in)
	}
	st.AssertNotCalled(t, "CreateCommissionSetting", mock.Anything, mock.Anything)

	st.On("GetCommissionSettingByID", mock.Anything, "cs1").
		Return(&domain.CommissionSetting{ID: "cs1", CategoryID: PtrTo("c1"), Rate: decimal.NewFromInt(15)}, nil).Once()
	st.On("UpdateCommissionSetting", mock.Anything, mock.MatchedBy(func(c *domain.CommissionSetting) bool {
		return c.ID == "cs1" && c.IsDefault && c.CategoryID == nil
	})).Return(&domain.CommissionSetting{ID: "cs1", IsDefault: true, Rate: decimal.NewFromInt(15)}, nil).Once()

	updated, err := svc.Update(context.Background(), admin, "cs1", CommissionUpdate{IsDefault: PtrTo(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	st.AssertExpectations(t)
}

func TestAnalyticsService_Seller(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewAnalyticsService(st, st, st, st, st, st)

	st.On("ListProducts", mock.Anything, store.ListProductsParams{SellerID: PtrTo("s1")}).Return([]domain.Product{
		{ID: "p1", CategoryID: "apps", IsActive: true},
		{ID: "p2", CategoryID: "templates", IsActive: false},
	}, nil).Once()
	st.On("ListOrderItemsBySeller", mock.Anything, "s1").Return([]domain.OrderItem{
		{ProductID: PtrTo("p1"), SellerID: PtrTo("s1"), Price: decimal.RequireFromString("100"), Quantity: 2},
		{ProductID: PtrTo("p2"), SellerID: PtrTo("s1"), Price: decimal.RequireFromString("50"), Quantity: 1},
		{ProductID: nil, SellerID: PtrTo("s1"), Price: decimal.RequireFromString("10"), Quantity: 1},
	}, nil).Once()
	st.On("ListReviewsBySeller", mock.Anything, "s1").Return([]domain.Review{{Rating: 4}, {Rating: 5}}, nil).Once()
	st.On("CommissionForCategory", mock.Anything, "apps").Return(&domain.CommissionSetting{Rate: decimal.NewFromInt(20)}, nil).Once()
	st.On("CommissionForCategory", mock.Anything, "templates").Return(&domain.CommissionSetting{Rate: decimal.NewFromInt(10), IsDefault: true}, nil).Once()
	st.On("CommissionForCategory", mock.Anything, "").Return(nil, store.ErrCommissionNotFound).Once()

	stats, err := svc.Seller(context.Background(), principal("s1", domain.RoleDeveloper))

	require.NoError(t, err)
	assert.Equal(t, "260.00", stats.TotalRevenue.StringFixed(2))
	// 20% of 200 plus 10% of 50; the orphaned item has no applicable rate.
	assert.Equal(t, "45.00", stats.Commission.StringFixed(2))
	assert.Equal(t, "215.00", stats.NetRevenue.StringFixed(2))
	assert.Equal(t, 4, stats.TotalSales)
	assert.Equal(t, 2, stats.ProductCount)
	assert.Equal(t, 1, stats.ActiveProducts)
	assert.Equal(t, "4.50", stats.AvgRating.StringFixed(2))
	assert.Equal(t, 2, stats.ReviewCount)
	st.AssertExpectations(t)
}

func TestAnalyticsService_SellerOnly(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewAnalyticsService(st, st, st, st, st, st)

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin} {
		_, err := svc.Seller(context.Background(), principal("x", role))
		assert.True(t, errors.Is(err, domain.ErrForbidden), role)
	}
	st.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
}

func TestAnalyticsService_Admin(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewAnalyticsService(st, st, st, st, st, st)

	_, err := svc.Admin(context.Background(), principal("s1", domain.RoleCompany))
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	st.On("ListUsers", mock.Anything).Return([]domain.User{
		{Role: domain.RoleUser}, {Role: domain.RoleUser}, {Role: domain.RoleDeveloper}, {Role: domain.RoleAdmin},
	}, nil).Once()
	st.On("ListProducts", mock.Anything, store.ListProductsParams{IsActive: PtrTo(true)}).Return([]domain.Product{{ID: "p1"}}, nil).Once()
	st.On("ListCategories", mock.Anything).Return([]domain.Category{{ID: "c1"}, {ID: "c2"}}, nil).Once()

	stats, err := svc.Admin(context.Background(), principal("admin", domain.RoleAdmin))

	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 2, stats.TotalCategories)
	assert.Equal(t, domain.UsersByRole{Users: 2, Developers: 1, Admins: 1}, stats.UsersByRole)
	st.AssertExpectations(t)
}

func TestUserService_Resolve(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		st := new(storetest.MockStore)
		svc := NewUserService(st, st)
		st.On("GetUserByID", mock.Anything, "sub-1").Return(&domain.User{ID: "sub-1", Role: domain.RoleAdmin}, nil).Once()

		user, err := svc.Resolve(context.Background(), Identity{Subject: "sub-1"})

		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		st.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("first sight creates a plain user", func(t *testing.T) {
		st := new(storetest.MockStore)
		svc := NewUserService(st, st)
		st.On("GetUserByID", mock.Anything, "sub-2").Return(nil, store.ErrUserNotFound).Once()
		st.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.ID == "sub-2" && u.Role == domain.RoleUser && *u.Email == "new@example.com"
		})).Return(&domain.User{ID: "sub-2", Role: domain.RoleUser}, nil).Once()

		user, err := svc.Resolve(context.Background(), Identity{Subject: "sub-2", Email: PtrTo("new@example.com")})

		require.NoError(t, err)
		assert.Equal(t, "sub-2", user.ID)
		st.AssertExpectations(t)
	})

	t.Run("concurrent creation", func(t *testing.T) {
		st := new(storetest.MockStore)
		svc := NewUserService(st, st)
		st.On("GetUserByID", mock.Anything, "sub-3").Return(nil, store.ErrUserNotFound).Once()
		st.On("CreateUser", mock.Anything, mock.Anything).Return(nil, store.ErrUserExists).Once()
		st.On("GetUserByID", mock.Anything, "sub-3").Return(&domain.User{ID: "sub-3"}, nil).Once()

		user, err := svc.Resolve(context.Background(), Identity{Subject: "sub-3"})

		require.NoError(t, err)
		assert.Equal(t, "sub-3", user.ID)
		st.AssertExpectations(t)
	})
}

func TestUserService_UpdateProfile_RoleLocked(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewUserService(st, st)

	_, err := svc.UpdateProfile(context.Background(), principal("u1", domain.RoleUser), UserUpdate{Role: PtrTo(domain.RoleAdmin)})

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	st.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestUserService_AdminUpdatesRole(t *testing.T) {
	st := new(storetest.MockStore)
	svc := NewUserService(st, st)

	_, err := svc.UpdateUser(context.Background(), principal("u1", domain.RoleUser), "u2", UserUpdate{Role: PtrTo(domain.RoleAdmin)})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = svc.UpdateUser(context.Background(), principal("admin", domain.RoleAdmin), "u2", UserUpdate{Role: PtrTo(domain.Role("root"))})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	st.On("GetUserByID", mock.Anything, "u2").Return(&domain.User{ID: "u2", Role: domain.RoleUser}, nil).Once()
	st.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == "u2" && u.Role == domain.RoleCompany
	})).Return(&domain.User{ID: "u2", Role: domain.RoleCompany}, nil).Once()

	user, err := svc.UpdateUser(context.Background(), principal("admin", domain.RoleAdmin), "u2", UserUpdate{Role: PtrTo(domain.RoleCompany)})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCompany, user.Role)
	st.AssertExpectations(t)
}

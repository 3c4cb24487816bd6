package service

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/store"
)

// CatalogService manages categories and products.
type CatalogService struct {
	categories store.CategoryStorer
	products   store.ProductStorer
}

func NewCatalogService(categories store.CategoryStorer, products store.ProductStorer) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

// --- categories ---

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, p *authz.Principal, name string, description *string) (*domain.Category, error) {
	if !p.Policy.CanManageCategories() {
		return nil, domain.Forbidden("Only admins can create categories")
	}
	return s.categories.CreateCategory(ctx, &domain.Category{Name: strings.TrimSpace(name), Description: description})
}

// CategoryUpdate holds the optional fields of a category patch.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

func (s *CatalogService) UpdateCategory(ctx context.Context, p *authz.Principal, id string, upd CategoryUpdate) (*domain.Category, error) {
	if !p.Policy.CanManageCategories() {
		return nil, domain.Forbidden("Only admins can update categories")
	}
	category, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		category.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		category.Description = upd.Description
	}
	return s.categories.UpdateCategory(ctx, category)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, p *authz.Principal, id string) error {
	if !p.Policy.CanManageCategories() {
		return domain.Forbidden("Only admins can delete categories")
	}
	return s.categories.DeleteCategory(ctx, id)
}

// --- products ---

// ProductFilter narrows a product listing. Without SellerID only active products are listed.
type ProductFilter struct {
	CategoryID string
	SellerID   string
	Query      string
}

func (s *CatalogService) ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	var params store.ListProductsParams
	if f.CategoryID != "" {
		params.CategoryID = &f.CategoryID
	}
	if f.Query != "" {
		params.SearchQuery = &f.Query
	}
	if f.SellerID != "" {
		params.SellerID = &f.SellerID
	} else {
		active := true
		params.IsActive = &active
	}
	return s.products.ListProducts(ctx, params)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetProductByID(ctx, id)
}

// ProductInput is the client-supplied part of a new product.
type ProductInput struct {
	CategoryID  string
	Title       string
	Description string
	Price       decimal.Decimal
	Features    []string
	ImageURL    *string
	DownloadURL *string
	IsActive    *bool
}

// CreateProduct lists a product owned by the caller.
func (s *CatalogService) CreateProduct(ctx context.Context, p *authz.Principal, in ProductInput) (*domain.Product, error) {
	if !p.Policy.CanCreateProducts() {
		return nil, domain.Forbidden("Only sellers can create products")
	}
	if in.Price.IsNegative() {
		return nil, domain.InvalidInput("Price cannot be negative")
	}
	product := &domain.Product{
		SellerID:    p.UserID(),
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Features:    pq.StringArray(in.Features),
		ImageURL:    in.ImageURL,
		DownloadURL: in.DownloadURL,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	return s.products.CreateProduct(ctx, product)
}

// ProductUpdate holds the optional fields of a product patch.
type ProductUpdate struct {
	CategoryID  *string
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Features    []string
	ImageURL    *string
	DownloadURL *string
	IsActive    *bool
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *authz.Principal, id string, upd ProductUpdate) (*domain.Product, error) {
	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Policy.CanEditProduct(product) {
		return nil, domain.Forbidden("You can only edit your own products")
	}
	if upd.CategoryID != nil {
		product.CategoryID = *upd.CategoryID
	}
	if upd.Title != nil {
		product.Title = *upd.Title
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}
	if upd.Price != nil {
		if upd.Price.IsNegative() {
			return nil, domain.InvalidInput("Price cannot be negative")
		}
		product.Price = *upd.Price
	}
	if upd.Features != nil {
		product.Features = pq.StringArray(upd.Features)
	}
	if upd.ImageURL != nil {
		product.ImageURL = upd.ImageURL
	}
	if upd.DownloadURL != nil {
		product.DownloadURL = upd.DownloadURL
	}
	if upd.IsActive != nil {
		product.IsActive = *upd.IsActive
	}
	return s.products.UpdateProduct(ctx, product)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, p *authz.Principal, id string) error {
	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.Policy.CanEditProduct(product) {
		return domain.Forbidden("You can only delete your own products")
	}
	return s.products.DeleteProduct(ctx, id)
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"marketplace-service/internal/service"
)

// --- Category Handlers ---

// CategoryCreateInput defines the expected input for creating a category.
type CategoryCreateInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty"`
}

// CategoryUpdateInput defines the expected input for patching a category.
type CategoryUpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty"`
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve categories")
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input CategoryCreateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), principal(r), input.Name, input.Description)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create category")
		return
	}
	invalidate(w, "/api/categories")
	respondWithJSON(w, http.StatusCreated, category)
}

func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var input CategoryUpdateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	category, err := h.catalog.UpdateCategory(r.Context(), principal(r), chi.URLParam(r, "categoryId"), service.CategoryUpdate{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update category")
		return
	}
	invalidate(w, "/api/categories")
	respondWithJSON(w, http.StatusOK, category)
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), principal(r), chi.URLParam(r, "categoryId")); err != nil {
		respondWithServiceError(w, r, err, "Failed to delete category")
		return
	}
	invalidate(w, "/api/categories", "/api/commission")
	w.WriteHeader(http.StatusNoContent)
}

// --- Product Handlers ---

// ProductCreateInput defines the expected input for creating a product.
type ProductCreateInput struct {
	CategoryID  string           `json:"categoryId" validate:"required"`
	Title       string           `json:"title" validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Features    []string         `json:"features" validate:"omitempty,dive,required"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,url"`
	DownloadURL *string          `json:"downloadUrl" validate:"omitempty,url"`
	IsActive    *bool            `json:"isActive"`
}

// ProductUpdateInput defines the expected input for patching a product. Absent fields are unchanged.
type ProductUpdateInput struct {
	CategoryID  *string          `json:"categoryId" validate:"omitempty,min=1"`
	Title       *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Features    []string         `json:"features" validate:"omitempty,dive,required"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,url"`
	DownloadURL *string          `json:"downloadUrl" validate:"omitempty,url"`
	IsActive    *bool            `json:"isActive"`
}

// ListProducts supports categoryId, sellerId and q filters. Only active products are listed
// unless sellerId is given.
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.catalog.ListProducts(r.Context(), service.ProductFilter{
		CategoryID: q.Get("categoryId"),
		SellerID:   q.Get("sellerId"),
		Query:      q.Get("q"),
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve products")
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve product")
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductCreateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), principal(r), service.ProductInput{
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Price:       *input.Price,
		Features:    input.Features,
		ImageURL:    input.ImageURL,
		DownloadURL: input.DownloadURL,
		IsActive:    input.IsActive,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create product")
		return
	}
	invalidate(w, "/api/products")
	respondWithJSON(w, http.StatusCreated, product)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductUpdateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	id := chi.URLParam(r, "productId")
	product, err := h.catalog.UpdateProduct(r.Context(), principal(r), id, service.ProductUpdate{
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Features:    input.Features,
		ImageURL:    input.ImageURL,
		DownloadURL: input.DownloadURL,
		IsActive:    input.IsActive,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update product")
		return
	}
	invalidate(w, "/api/products", "/api/products/"+id)
	respondWithJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	if err := h.catalog.DeleteProduct(r.Context(), principal(r), id); err != nil {
		respondWithServiceError(w, r, err, "Failed to delete product")
		return
	}
	invalidate(w, "/api/products", "/api/products/"+id, "/api/cart")
	w.WriteHeader(http.StatusNoContent)
}

// --- Review Handlers ---

// ReviewInput defines the expected input for a review. ProductID is taken from the path when present.
type ReviewInput struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required"`
}

func (h *HTTPHandler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve reviews")
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

func (h *HTTPHandler) CreateProductReview(w http.ResponseWriter, r *http.Request) {
	var input ReviewInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	h.createReview(w, r, chi.URLParam(r, "productId"), input)
}

func (h *HTTPHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var input ReviewInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	if input.ProductID == "" {
		respondWithError(w, http.StatusBadRequest, "Validation failed: productId is required")
		return
	}
	h.createReview(w, r, input.ProductID, input)
}

func (h *HTTPHandler) createReview(w http.ResponseWriter, r *http.Request, productID string, input ReviewInput) {
	review, err := h.reviews.Create(r.Context(), principal(r), productID, input.Rating, input.Comment)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create review")
		return
	}
	invalidate(w, "/api/products", "/api/products/"+productID, "/api/products/"+productID+"/reviews")
	respondWithJSON(w, http.StatusCreated, review)
}

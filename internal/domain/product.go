package domain

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Category groups products. Categories are flat.
type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Product is a digital good listed by a seller.
// Rating and ReviewCount are derived from the product's reviews and are never written by clients.
type Product struct {
	ID          string          `json:"id" db:"id"`
	SellerID    string          `json:"sellerId" db:"seller_id"`
	CategoryID  string          `json:"categoryId" db:"category_id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Features    pq.StringArray  `json:"features" db:"features"`
	ImageURL    *string         `json:"imageUrl" db:"image_url"`
	DownloadURL *string         `json:"downloadUrl" db:"download_url"`
	Rating      decimal.Decimal `json:"rating" db:"rating"`
	ReviewCount int             `json:"reviewCount" db:"review_count"`
	SalesCount  int             `json:"salesCount" db:"sales_count"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// CartItem is one product line in a user's cart. There is at most one row per (user, product).
type CartItem struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Product *Product `json:"product,omitempty" db:"-"`
}

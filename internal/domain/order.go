package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a completed purchase. It is written together with its items in one transaction.
type Order struct {
	ID          string          `json:"id" db:"id"`
	UserID      string          `json:"userId" db:"user_id"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status      OrderStatus     `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`

	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem snapshots the product's price and seller at purchase time.
// ProductID and SellerID become nil if the product or seller is later deleted.
type OrderItem struct {
	ID        string          `json:"id" db:"id"`
	OrderID   string          `json:"orderId" db:"order_id"`
	ProductID *string         `json:"productId" db:"product_id"`
	SellerID  *string         `json:"sellerId" db:"seller_id"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
}

// Subtotal is price × quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SoldBy reports whether the item was sold by sellerID.
func (i OrderItem) SoldBy(sellerID string) bool {
	return i.SellerID != nil && *i.SellerID == sellerID
}

// OrderLine is one requested line of a checkout.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// MergeOrderLines folds lines for the same product into one, summing quantities.
// A zero quantity counts as one. The result is sorted by product id so that
// concurrent checkouts lock product rows in the same order.
func MergeOrderLines(lines []OrderLine) []OrderLine {
	byProduct := make(map[string]int, len(lines))
	for _, l := range lines {
		qty := l.Quantity
		if qty == 0 {
			qty = 1
		}
		byProduct[l.ProductID] += qty
	}
	merged := make([]OrderLine, 0, len(byProduct))
	for id, qty := range byProduct {
		merged = append(merged, OrderLine{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged
}

// SumSubtotals totals a set of order items.
func SumSubtotals(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

package messaging

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Topics published by the marketplace. Brokers may prefix them per environment.
const (
	TopicOrderCompleted = "orders.completed"
	TopicReviewCreated  = "reviews.created"
)

// Publisher defines an interface for publishing events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// OrderCompleted is emitted after a checkout transaction commits.
type OrderCompleted struct {
	OrderID     string           `json:"orderId"`
	UserID      string           `json:"userId"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	Items       []OrderItemEvent `json:"items"`
	CompletedAt time.Time        `json:"completedAt"`
}

type OrderItemEvent struct {
	ProductID string          `json:"productId"`
	SellerID  string          `json:"sellerId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// ReviewCreated is emitted after a review and its product rating recompute commit.
type ReviewCreated struct {
	ReviewID  string    `json:"reviewId"`
	ProductID string    `json:"productId"`
	SellerID  string    `json:"sellerId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }

package kafka

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/messaging"
)

func TestNewMessage(t *testing.T) {
	event := messaging.OrderCompleted{
		OrderID:     "o1",
		UserID:      "u1",
		TotalAmount: decimal.RequireFromString("25.50"),
		Items: []messaging.OrderItemEvent{
			{ProductID: "p1", SellerID: "s1", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		},
	}

	msg, err := newMessage("prod.orders.completed", "o1", event)

	require.NoError(t, err)
	assert.Equal(t, "prod.orders.completed", msg.Topic)
	assert.Equal(t, []byte("o1"), msg.Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "o1", decoded["orderId"])
	assert.Equal(t, "25.5", decoded["totalAmount"])
}

func TestNewMessage_Unmarshalable(t *testing.T) {
	_, err := newMessage("t", "k", make(chan int))
	assert.Error(t, err)
}

func TestPublisher_Topic(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "")
	defer p.Close()
	assert.Equal(t, messaging.TopicReviewCreated, p.topic(messaging.TopicReviewCreated))

	prefixed := NewPublisher([]string{"localhost:9092"}, "staging")
	defer prefixed.Close()
	assert.Equal(t, "staging.reviews.created", prefixed.topic(messaging.TopicReviewCreated))
}

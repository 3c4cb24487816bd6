package service

import (
	"context"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/messaging"
	"marketplace-service/internal/store"
)

// OrderService runs checkout and order listings.
type OrderService struct {
	orders store.OrderStorer
	pub    messaging.Publisher
}

func NewOrderService(orders store.OrderStorer, pub messaging.Publisher) *OrderService {
	return &OrderService{orders: orders, pub: pub}
}

// Checkout turns lines into one completed order. Duplicate products are merged first.
func (s *OrderService) Checkout(ctx context.Context, p *authz.Principal, lines []domain.OrderLine) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, domain.InvalidInput("No items in order")
	}
	for _, l := range lines {
		if l.ProductID == "" {
			return nil, domain.InvalidInput("Every item needs a productId")
		}
		if l.Quantity < 0 {
			return nil, domain.InvalidInput("Quantity must be at least 1")
		}
	}

	order, err := s.orders.CreateOrder(ctx, p.UserID(), domain.MergeOrderLines(lines))
	if err != nil {
		return nil, err
	}
	publish(ctx, s.pub, messaging.TopicOrderCompleted, order.ID, orderCompletedEvent(order))
	return order, nil
}

// List returns the caller's purchases, or for sellers the orders containing their items
// with only those items attached.
func (s *OrderService) List(ctx context.Context, p *authz.Principal) ([]domain.Order, error) {
	var (
		orders []domain.Order
		err    error
	)
	if p.Policy.SeesSoldOrders() {
		orders, err = s.orders.ListOrdersBySeller(ctx, p.UserID())
	} else {
		orders, err = s.orders.ListOrdersByUser(ctx, p.UserID())
	}
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := s.orders.ListOrderItems(ctx, ids...)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[string][]domain.OrderItem, len(orders))
	for _, it := range items {
		if p.Policy.SeesSoldOrders() && !it.SoldBy(p.UserID()) {
			continue
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}

// Get returns one order with all of its items. Only the buyer and admins may see it.
func (s *OrderService) Get(ctx context.Context, p *authz.Principal, id string) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Policy.CanViewOrder(order) {
		return nil, domain.Forbidden("You can only view your own orders")
	}
	items, err := s.orders.ListOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func orderCompletedEvent(o *domain.Order) messaging.OrderCompleted {
	event := messaging.OrderCompleted{
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		CompletedAt: o.CreatedAt,
		Items:       make([]messaging.OrderItemEvent, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		var productID, sellerID string
		if it.ProductID != nil {
			productID = *it.ProductID
		}
		if it.SellerID != nil {
			sellerID = *it.SellerID
		}
		event.Items = append(event.Items, messaging.OrderItemEvent{
			ProductID: productID,
			SellerID:  sellerID,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return event
}

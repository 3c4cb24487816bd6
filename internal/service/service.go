// Package service applies authorization policy and business validation on top of the store.
package service

import (
	"context"
	"log/slog"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/messaging"
	"marketplace-service/internal/store"
)

// Services bundles every service the HTTP layer needs.
type Services struct {
	Users      *UserService
	Catalog    *CatalogService
	Cart       *CartService
	Orders     *OrderService
	Reviews    *ReviewService
	Commission *CommissionService
	Analytics  *AnalyticsService
}

// New wires every service to st. pub receives domain events; pass messaging.Nop{} to discard them.
func New(st store.Store, pub messaging.Publisher) *Services {
	if pub == nil {
		pub = messaging.Nop{}
	}
	return &Services{
		Users:      NewUserService(st, st),
		Catalog:    NewCatalogService(st, st),
		Cart:       NewCartService(st),
		Orders:     NewOrderService(st, pub),
		Reviews:    NewReviewService(st, pub),
		Commission: NewCommissionService(st),
		Analytics:  NewAnalyticsService(st, st, st, st, st, st),
	}
}

// publish sends an event after its transaction committed. Failures never reach the caller.
func publish(ctx context.Context, pub messaging.Publisher, topic, key string, event any) {
	if err := pub.PublishEvent(ctx, topic, key, event); err != nil {
		slog.Error("Failed to publish event", "topic", topic, "key", key, "err", err)
	}
}

func requireAdmin(p *authz.Principal, action string) error {
	if !p.Policy.CanAdminister() {
		return domain.Forbidden("Only admins can " + action)
	}
	return nil
}

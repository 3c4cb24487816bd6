// Package authz resolves what an authenticated user may do. A policy is picked once per
// request from the user's role; services ask it questions instead of comparing role strings.
package authz

import (
	"context"

	"marketplace-service/internal/domain"
)

// Policy answers capability questions for one principal.
type Policy interface {
	Role() domain.Role
	// CanManageCategories covers creating, renaming and deleting categories.
	CanManageCategories() bool
	// CanAdminister covers user management, commission settings and platform analytics.
	CanAdminister() bool
	// CanCreateProducts reports whether the principal may list new products.
	CanCreateProducts() bool
	CanEditProduct(p *domain.Product) bool
	// SeesSoldOrders is true when order listings show orders containing the principal's items
	// instead of the principal's own purchases.
	SeesSoldOrders() bool
	CanViewOrder(o *domain.Order) bool
}

// Customer is a buyer-only account.
type Customer struct {
	UserID string
	role   domain.Role
}

func (c Customer) Role() domain.Role                 { return c.role }
func (Customer) CanManageCategories() bool           { return false }
func (Customer) CanAdminister() bool                 { return false }
func (Customer) CanCreateProducts() bool             { return false }
func (Customer) CanEditProduct(*domain.Product) bool { return false }
func (Customer) SeesSoldOrders() bool                { return false }
func (c Customer) CanViewOrder(o *domain.Order) bool { return o.UserID == c.UserID }

// Seller is a developer or company account.
type Seller struct {
	UserID string
	role   domain.Role
}

func (s Seller) Role() domain.Role       { return s.role }
func (Seller) CanManageCategories() bool { return false }
func (Seller) CanAdminister() bool       { return false }
func (Seller) CanCreateProducts() bool   { return true }
func (Seller) SeesSoldOrders() bool      { return true }

func (s Seller) CanEditProduct(p *domain.Product) bool { return p.SellerID == s.UserID }

func (s Seller) CanViewOrder(o *domain.Order) bool { return o.UserID == s.UserID }

// Admin may do everything except act as a seller in analytics.
type Admin struct {
	UserID string
}

func (Admin) Role() domain.Role                   { return domain.RoleAdmin }
func (Admin) CanManageCategories() bool           { return true }
func (Admin) CanAdminister() bool                 { return true }
func (Admin) CanCreateProducts() bool             { return true }
func (Admin) CanEditProduct(*domain.Product) bool { return true }
func (Admin) SeesSoldOrders() bool                { return false }
func (Admin) CanViewOrder(*domain.Order) bool     { return true }

// PolicyFor picks the policy variant for u. Unknown roles get the customer policy.
func PolicyFor(u *domain.User) Policy {
	switch {
	case u.Role == domain.RoleAdmin:
		return Admin{UserID: u.ID}
	case u.Role.IsSeller():
		return Seller{UserID: u.ID, role: u.Role}
	default:
		return Customer{UserID: u.ID, role: domain.RoleUser}
	}
}

// Principal is the authenticated caller of a request.
type Principal struct {
	User   *domain.User
	Policy Policy
}

// NewPrincipal binds u to its policy.
func NewPrincipal(u *domain.User) *Principal {
	return &Principal{User: u, Policy: PolicyFor(u)}
}

func (p *Principal) UserID() string { return p.User.ID }

type contextKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored by NewContext, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok && p != nil
}

package domain

import "github.com/shopspring/decimal"

// SellerAnalytics summarises a seller's catalogue and sales.
// Revenue counts only the seller's own items, even in orders that span several sellers.
type SellerAnalytics struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	Commission     decimal.Decimal `json:"commission"`
	NetRevenue     decimal.Decimal `json:"netRevenue"`
	TotalSales     int             `json:"totalSales"`
	ProductCount   int             `json:"productCount"`
	ActiveProducts int             `json:"activeProducts"`
	AvgRating      decimal.Decimal `json:"avgRating"`
	ReviewCount    int             `json:"reviewCount"`
}

type UsersByRole struct {
	Users      int `json:"users"`
	Developers int `json:"developers"`
	Companies  int `json:"companies"`
	Admins     int `json:"admins"`
}

type AdminAnalytics struct {
	TotalUsers      int         `json:"totalUsers"`
	TotalProducts   int         `json:"totalProducts"`
	TotalCategories int         `json:"totalCategories"`
	UsersByRole     UsersByRole `json:"usersByRole"`
}

// CountUsersByRole tallies users per role.
func CountUsersByRole(users []User) UsersByRole {
	var c UsersByRole
	for _, u := range users {
		switch u.Role {
		case RoleUser:
			c.Users++
		case RoleDeveloper:
			c.Developers++
		case RoleCompany:
			c.Companies++
		case RoleAdmin:
			c.Admins++
		}
	}
	return c
}

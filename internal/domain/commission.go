package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionSetting is a percentage rate taken from seller revenue.
// A row with a CategoryID applies to that category; the single IsDefault row applies everywhere else.
type CommissionSetting struct {
	ID         string          `json:"id" db:"id"`
	CategoryID *string         `json:"categoryId" db:"category_id"`
	Rate       decimal.Decimal `json:"rate" db:"rate"`
	IsDefault  bool            `json:"isDefault" db:"is_default"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

var hundred = decimal.NewFromInt(100)

// Apply returns the commission owed on amount, rounded to cents.
func (c CommissionSetting) Apply(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.Rate).Div(hundred).Round(2)
}

package service

import (
	"context"

	"github.com/shopspring/decimal"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/store"
)

var maxCommissionRate = decimal.NewFromInt(100)

// CommissionService manages the platform's commission rates. Every operation is admin only.
type CommissionService struct {
	settings store.CommissionStorer
}

func NewCommissionService(settings store.CommissionStorer) *CommissionService {
	return &CommissionService{settings: settings}
}

func (s *CommissionService) List(ctx context.Context, p *authz.Principal) ([]domain.CommissionSetting, error) {
	if err := requireAdmin(p, "view commission settings"); err != nil {
		return nil, err
	}
	return s.settings.ListCommissionSettings(ctx)
}

func (s *CommissionService) Create(ctx context.Context, p *authz.Principal, setting domain.CommissionSetting) (*domain.CommissionSetting, error) {
	if err := requireAdmin(p, "create commission settings"); err != nil {
		return nil, err
	}
	if err := validateCommission(setting); err != nil {
		return nil, err
	}
	return s.settings.CreateCommissionSetting(ctx, &setting)
}

// CommissionUpdate holds the optional fields of a commission patch.
type CommissionUpdate struct {
	CategoryID *string
	Rate       *decimal.Decimal
	IsDefault  *bool
}

func (s *CommissionService) Update(ctx context.Context, p *authz.Principal, id string, upd CommissionUpdate) (*domain.CommissionSetting, error) {
	if err := requireAdmin(p, "update commission settings"); err != nil {
		return nil, err
	}
	setting, err := s.settings.GetCommissionSettingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.CategoryID != nil {
		setting.CategoryID = upd.CategoryID
	}
	if upd.Rate != nil {
		setting.Rate = *upd.Rate
	}
	if upd.IsDefault != nil {
		setting.IsDefault = *upd.IsDefault
		if setting.IsDefault {
			setting.CategoryID = nil
		}
	}
	if err := validateCommission(*setting); err != nil {
		return nil, err
	}
	return s.settings.UpdateCommissionSetting(ctx, setting)
}

// Lookup returns the rate that applies to categoryID.
func (s *CommissionService) Lookup(ctx context.Context, p *authz.Principal, categoryID string) (*domain.CommissionSetting, error) {
	if err := requireAdmin(p, "look up commission rates"); err != nil {
		return nil, err
	}
	return s.settings.CommissionForCategory(ctx, categoryID)
}

func validateCommission(c domain.CommissionSetting) error {
	if c.Rate.IsNegative() || c.Rate.GreaterThan(maxCommissionRate) {
		return domain.InvalidInput("Rate must be between 0 and 100")
	}
	if c.IsDefault && c.CategoryID != nil {
		return domain.InvalidInput("A default commission cannot target a category")
	}
	if !c.IsDefault && c.CategoryID == nil {
		return domain.InvalidInput("A category is required unless isDefault is set")
	}
	return nil
}

package repository

import (
	"context"

	"rrlogistics/models"
)

type PricingRuleRepository interface {
	Create(ctx context.Context, rule *models.PricingRule) error
	GetByID(ctx context.Context, id string) (*models.PricingRule, error)
	FindActive(ctx context.Context, query models.PricingRuleQuery) (*models.PricingRule, error)
	List(ctx context.Context) ([]*models.PricingRule, error)
	Update(ctx context.Context, rule *models.PricingRule) error
	Delete(ctx context.Context, id string) error
}

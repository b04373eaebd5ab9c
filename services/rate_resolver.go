package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rrlogistics/logger"
	"rrlogistics/models"
	"rrlogistics/pricing"
	"rrlogistics/repository"
)

// RateResolver picks the pricing rule that applies to a customer.
type RateResolver struct {
	users repository.UserRepository
	rules repository.PricingRuleRepository
}

func NewRateResolver(users repository.UserRepository, rules repository.PricingRuleRepository) *RateResolver {
	return &RateResolver{users: users, rules: rules}
}

// Resolve returns the customer's assigned rule when it is active, else the active
// default for zone (lower-cased, "local" when empty). A nil rule means no rule applies.
func (r *RateResolver) Resolve(ctx context.Context, user *models.AppUser, zone string) (*models.PricingRule, error) {
	if user != nil && user.PricingRuleID != "" {
		rule, err := r.rules.GetByID(ctx, user.PricingRuleID)
		switch {
		case err == nil && rule.IsActive:
			return rule, nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("load assigned pricing rule: %w", err)
		}
	}

	zone = strings.ToLower(strings.TrimSpace(zone))
	if zone == "" {
		zone = pricing.ZoneLocal
	}
	rule, err := r.rules.FindActive(ctx, models.PricingRuleQuery{Zone: zone})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find zone pricing rule: %w", err)
	}
	return rule, nil
}

// Apply fills the details that are still unset from the customer record and the
// resolved rule. It runs once at creation; manual values always win. Lookup
// failures are logged and leave the details as supplied.
func (r *RateResolver) Apply(ctx context.Context, d *models.ConsignmentDetails) *models.AppUser {
	if d.UserID == "" {
		return nil
	}
	user, err := r.users.GetUserByID(ctx, d.UserID)
	if err != nil {
		logger.Log.Warn("rate resolver: user lookup failed", zap.String("user_id", d.UserID), zap.Error(err))
		return nil
	}
	if d.Name == "" {
		d.Name = user.FullName
	}

	if d.BaseRate != 0 {
		return user
	}
	rule, err := r.Resolve(ctx, user, string(d.Zone))
	if err != nil {
		logger.Log.Warn("rate resolver: rule lookup failed", zap.String("user_id", d.UserID), zap.Error(err))
		return user
	}
	if rule == nil {
		return user
	}
	weight := pricing.ChargeableWeight(d.Weight, rule.MinWeightKG)
	d.BaseRate = pricing.Round2(rule.BaseRate + rule.PerKgRate*weight)
	return user
}

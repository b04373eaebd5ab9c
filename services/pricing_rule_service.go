package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"rrlogistics/models"
	"rrlogistics/pricing"
	"rrlogistics/repository"
)

var (
	pricingZones  = []string{pricing.ZoneLocal, pricing.ZoneZonal, pricing.ZoneMetro, pricing.ZoneROI, pricing.ZoneSpecial}
	serviceLevels = []string{"standard", "express", "overnight", "same_day"}

	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

type PricingRuleService struct {
	repo repository.PricingRuleRepository
	now  func() time.Time
}

func NewPricingRuleService(repo repository.PricingRuleRepository) *PricingRuleService {
	return &PricingRuleService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *PricingRuleService) Create(ctx context.Context, rule models.PricingRule, actor string) (*models.PricingRule, error) {
	rule.Zone = strings.ToLower(strings.TrimSpace(rule.Zone))
	rule.ShipmentType = strings.ToLower(strings.TrimSpace(rule.ShipmentType))
	rule.ServiceType = strings.ToLower(strings.TrimSpace(rule.ServiceType))
	if rule.MinWeightKG <= 0 {
		rule.MinWeightKG = pricing.DefaultRule.MinWeightKG
	}
	if err := validatePricingRule(&rule); err != nil {
		return nil, err
	}

	rule.ID = repository.NewID()
	rule.CreatedBy = actor
	rule.CreatedAt = s.now()
	if err := s.repo.Create(ctx, &rule); err != nil {
		return nil, fmt.Errorf("create pricing rule: %w", err)
	}
	return &rule, nil
}

func (s *PricingRuleService) List(ctx context.Context) ([]*models.PricingRule, error) {
	rules, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	return rules, nil
}

func (s *PricingRuleService) Update(ctx context.Context, id string, patch models.PricingRulePatch) (*models.PricingRule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("pricing rule", err)
	}
	patch.Apply(rule)
	if err := validatePricingRule(rule); err != nil {
		return nil, err
	}
	now := s.now()
	rule.UpdatedAt = &now
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, notFound("pricing rule", err)
	}
	return rule, nil
}

func (s *PricingRuleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound("pricing rule", err)
	}
	return nil
}

// Quote prices a prospective shipment against the active rule for its lane, or
// the default tariff when none matches. Amounts are rounded for display.
func (s *PricingRuleService) Quote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	if !pincodePattern.MatchString(req.OriginPincode) {
		return nil, models.ValidationError{Field: "origin_pincode", Msg: "must be 6 digits"}
	}
	if !pincodePattern.MatchString(req.DestinationPincode) {
		return nil, models.ValidationError{Field: "destination_pincode", Msg: "must be 6 digits"}
	}
	if req.WeightKG <= 0 {
		return nil, models.ValidationError{Field: "weight_kg", Msg: "must be positive"}
	}
	req.ServiceType = strings.ToLower(req.ServiceType)
	if req.ServiceType == "" {
		req.ServiceType = "standard"
	}
	if !slices.Contains(serviceLevels, req.ServiceType) {
		return nil, models.ValidationError{Field: "service_type", Msg: fmt.Sprintf("unknown service type %q", req.ServiceType)}
	}
	req.ShipmentType = strings.ToLower(req.ShipmentType)

	zone := pricing.DetermineZone(req.OriginPincode, req.DestinationPincode)
	rule := pricing.DefaultRule
	found, err := s.repo.FindActive(ctx, models.PricingRuleQuery{
		Zone:         zone,
		ShipmentType: req.ShipmentType,
		ServiceType:  req.ServiceType,
	})
	switch {
	case err == nil:
		rule = pricing.Rule{
			BaseRate:             found.BaseRate,
			PerKgRate:            found.PerKgRate,
			FuelSurchargePercent: found.FuelSurchargePercent,
			GSTPercent:           found.GSTPercent,
			MinWeightKG:          found.MinWeightKG,
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("find pricing rule: %w", err)
	}

	q := pricing.QuoteFor(rule, req.WeightKG, req.DeclaredValue)
	minWeight := rule.MinWeightKG
	if minWeight <= 0 {
		minWeight = pricing.DefaultRule.MinWeightKG
	}
	return &models.Quote{
		BaseAmount:      pricing.Round2(q.BaseAmount),
		WeightCharges:   pricing.Round2(q.WeightCharges),
		FuelSurcharge:   pricing.Round2(q.FuelSurcharge),
		GSTAmount:       pricing.Round2(q.GSTAmount),
		InsuranceAmount: pricing.Round2(q.InsuranceAmount),
		TotalAmount:     pricing.Round2(q.TotalAmount),
		Zone:            zone,
		EstimatedDays:   pricing.EstimatedDays(zone, req.ServiceType),
		Breakdown: map[string]float64{
			"chargeable_weight_kg":   pricing.ChargeableWeight(req.WeightKG, minWeight),
			"base_rate":              rule.BaseRate,
			"per_kg_rate":            rule.PerKgRate,
			"fuel_surcharge_percent": rule.FuelSurchargePercent,
			"gst_percent":            rule.GSTPercent,
		},
	}, nil
}

func validatePricingRule(rule *models.PricingRule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return models.ValidationError{Field: "name", Msg: "is required"}
	}
	if !slices.Contains(pricingZones, rule.Zone) {
		return models.ValidationError{Field: "zone", Msg: fmt.Sprintf("unknown zone %q", rule.Zone)}
	}
	if rule.ServiceType != "" && !slices.Contains(serviceLevels, rule.ServiceType) {
		return models.ValidationError{Field: "service_type", Msg: fmt.Sprintf("unknown service type %q", rule.ServiceType)}
	}
	if rule.BaseRate < 0 || rule.PerKgRate < 0 || rule.FuelSurchargePercent < 0 || rule.GSTPercent < 0 {
		return models.ValidationError{Msg: "rates must not be negative"}
	}
	if rule.MaxWeightKG != nil && *rule.MaxWeightKG < rule.MinWeightKG {
		return models.ValidationError{Field: "max_weight_kg", Msg: "must not be below min_weight_kg"}
	}
	return nil
}

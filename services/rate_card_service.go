package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rrlogistics/models"
	"rrlogistics/repository"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RateCardOptions lists the values a rate card form may offer.
type RateCardOptions struct {
	ServiceTypes     []Option `json:"service_types"`
	TransportModes   []Option `json:"transport_modes"`
	CargoRegions     []Option `json:"cargo_regions"`
	CourierZones     []Option `json:"courier_zones"`
	DeliveryPartners []string `json:"delivery_partners"`
}

var rateCardOptions = RateCardOptions{
	ServiceTypes: []Option{
		{models.ServiceCargo, "Cargo"},
		{models.ServiceCourier, "Courier"},
		{models.ServiceOther, "Other"},
	},
	TransportModes: []Option{
		{models.ModeSurface, "Surface"},
		{models.ModeAir, "Air"},
	},
	CargoRegions: []Option{
		{"north", "North"},
		{"east", "East"},
		{"west", "West"},
		{"south", "South"},
		{"central", "Central"},
		{"kerala", "Kerala"},
		{"guwahati", "Guwahati"},
		{"north_east", "North East"},
	},
	CourierZones: []Option{
		{"zone_1", "Zone 1 - Tricity"},
		{"zone_2", "Zone 2 - Delhi, Punjab, Haryana"},
		{"zone_3", "Zone 3 - UP, HP, Jammu, Rajasthan"},
		{"zone_4", "Zone 4 - Rest of India (except Assam)"},
		{"zone_5", "Zone 5 - Assam"},
		{"zone_6", "Zone 6 - North East"},
	},
	DeliveryPartners: []string{"DTDC", "Delhivery", "BlueDart", "FedEx", "DHL", "Ecom Express", "Xpressbees", "Shadowfax", "Other"},
}

type RateCardService struct {
	repo  repository.RateCardRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewRateCardService(repo repository.RateCardRepository, users repository.UserRepository) *RateCardService {
	return &RateCardService{repo: repo, users: users, now: func() time.Time { return time.Now().UTC() }}
}

func (s *RateCardService) Options() RateCardOptions {
	return rateCardOptions
}

func (s *RateCardService) Create(ctx context.Context, card models.RateCard, actor string) (*models.RateCard, error) {
	normalizeRateCard(&card)
	if err := validateRateCard(&card); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, &card); err != nil {
		return nil, err
	}
	if card.UserName == "" {
		if u, err := s.users.GetUserByID(ctx, card.UserID); err == nil {
			card.UserName = u.FullName
		}
	}

	card.ID = repository.NewID()
	card.CreatedBy = actor
	card.CreatedAt = s.now()
	if err := s.repo.Create(ctx, &card); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateRateCard()
		}
		return nil, fmt.Errorf("create rate card: %w", err)
	}
	return &card, nil
}

func (s *RateCardService) Get(ctx context.Context, id string) (*models.RateCard, error) {
	card, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("rate card", err)
	}
	return card, nil
}

func (s *RateCardService) List(ctx context.Context, filter models.RateCardFilter) ([]*models.RateCard, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list rate cards: %w", err)
	}
	return list, nil
}

func (s *RateCardService) Update(ctx context.Context, id string, patch models.RateCardPatch) (*models.RateCard, error) {
	card, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("rate card", err)
	}
	before := card.Key()
	patch.Apply(card)
	normalizeRateCard(card)
	if err := validateRateCard(card); err != nil {
		return nil, err
	}
	if card.Key() != before {
		if err := s.ensureUnique(ctx, card); err != nil {
			return nil, err
		}
	}
	now := s.now()
	card.UpdatedAt = &now
	if err := s.repo.Update(ctx, card); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateRateCard()
		}
		return nil, notFound("rate card", err)
	}
	return card, nil
}

func (s *RateCardService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound("rate card", err)
	}
	return nil
}

// ToggleStatus flips is_active and returns the card as stored.
func (s *RateCardService) ToggleStatus(ctx context.Context, id string) (*models.RateCard, error) {
	card, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("rate card", err)
	}
	if err := s.repo.SetActive(ctx, id, !card.IsActive); err != nil {
		return nil, notFound("rate card", err)
	}
	card.IsActive = !card.IsActive
	now := s.now()
	card.UpdatedAt = &now
	return card, nil
}

// Fetch looks up the active card for a key. A miss is not an error: the result
// carries a message for the operator instead.
func (s *RateCardService) Fetch(ctx context.Context, key models.RateCardKey) (*models.RateCardFetchResult, error) {
	key.ServiceType = strings.ToLower(key.ServiceType)
	key.Mode = strings.ToLower(key.Mode)
	if key.UserID == "" || key.DeliveryPartner == "" {
		return nil, models.ValidationError{Msg: "user_id and delivery_partner are required"}
	}
	if key.ServiceType == models.ServiceCargo && key.Region == "" {
		return &models.RateCardFetchResult{Message: "Region is required for Cargo service type"}, nil
	}
	if key.ServiceType == models.ServiceCourier && key.Zone == "" {
		return &models.RateCardFetchResult{Message: "Zone is required for Courier service type"}, nil
	}

	card, err := s.repo.FindByKey(ctx, key, true)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.RateCardFetchResult{
			Message: "No active rate card found for the selected criteria. Please contact admin to create a rate card.",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch rate card: %w", err)
	}
	return &models.RateCardFetchResult{Found: true, RateCard: card, Message: "Rate card found"}, nil
}

func (s *RateCardService) ensureUnique(ctx context.Context, card *models.RateCard) error {
	existing, err := s.repo.FindByKey(ctx, card.Key(), false)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check rate card key: %w", err)
	case existing.ID != card.ID:
		return duplicateRateCard()
	}
	return nil
}

func duplicateRateCard() error {
	return models.ValidationError{Msg: "A rate card with the same criteria already exists for this user"}
}

func normalizeRateCard(card *models.RateCard) {
	card.ServiceType = strings.ToLower(strings.TrimSpace(card.ServiceType))
	card.Mode = strings.ToLower(strings.TrimSpace(card.Mode))
	card.DeliveryPartner = strings.TrimSpace(card.DeliveryPartner)
}

func validateRateCard(card *models.RateCard) error {
	if card.UserID == "" {
		return models.ValidationError{Field: "user_id", Msg: "is required"}
	}
	if card.DeliveryPartner == "" {
		return models.ValidationError{Field: "delivery_partner", Msg: "is required"}
	}
	switch card.ServiceType {
	case models.ServiceCargo:
		if card.Region == "" {
			return models.ValidationError{Field: "region", Msg: "Region is required for Cargo service type"}
		}
	case models.ServiceCourier:
		if card.Zone == "" {
			return models.ValidationError{Field: "zone", Msg: "Zone is required for Courier service type"}
		}
	case models.ServiceOther:
	default:
		return models.ValidationError{Field: "service_type", Msg: fmt.Sprintf("unknown service type %q", card.ServiceType)}
	}
	if card.Mode != models.ModeSurface && card.Mode != models.ModeAir {
		return models.ValidationError{Field: "mode", Msg: fmt.Sprintf("unknown mode %q", card.Mode)}
	}
	if card.FOV < 0 || card.FOV > 1 {
		return models.ValidationError{Field: "fov", Msg: "FOV must be between 0 and 1 (e.g., 0.1 to 0.8)"}
	}
	for field, v := range map[string]float64{
		"base_rate":     card.BaseRate,
		"docket_charge": card.DocketCharge,
		"fuel_charge":   card.FuelCharge,
		"gst":           card.GST,
		"odi":           card.ODI,
	} {
		if v < 0 {
			return models.ValidationError{Field: field, Msg: "must not be negative"}
		}
	}
	return nil
}

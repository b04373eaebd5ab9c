package handlers

import (
	"context"

	"rrlogistics/models"
	"rrlogistics/services"
)

//go:generate mockgen -destination=mocks/mock_services.go -package=mocks . ConsignmentService,ShipmentService,InvoiceService,RateCardService,PricingService,AuthService

type ConsignmentService interface {
	Create(ctx context.Context, details models.ConsignmentDetails, actor string) (*services.ConsignmentResult, error)
	Get(ctx context.Context, id string) (*models.Consignment, error)
	List(ctx context.Context, filter models.ConsignmentFilter) ([]*models.Consignment, error)
	Update(ctx context.Context, id string, patch models.ConsignmentPatch, actor string) (*services.ConsignmentResult, error)
	Delete(ctx context.Context, id string) error
}

type ShipmentService interface {
	Create(ctx context.Context, in models.NewShipment, actor string) (*models.Shipment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.ShipmentFilter, caller models.Principal) ([]*models.Shipment, error)
	Get(ctx context.Context, id string, caller models.Principal) (*models.Shipment, error)
	UpdateStatus(ctx context.Context, id string, upd services.StatusUpdate, actor string) (*models.Shipment, error)
	Track(ctx context.Context, number string) (*models.TrackingResult, error)
}

type InvoiceService interface {
	List(ctx context.Context, filter models.InvoiceFilter, caller models.Principal) ([]*models.Invoice, error)
	Get(ctx context.Context, id string, caller models.Principal) (*models.Invoice, error)
	AddPayment(ctx context.Context, id string, req services.PaymentRequest, actor string) (*services.PaymentResult, error)
}

type RateCardService interface {
	Options() services.RateCardOptions
	Create(ctx context.Context, card models.RateCard, actor string) (*models.RateCard, error)
	Get(ctx context.Context, id string) (*models.RateCard, error)
	List(ctx context.Context, filter models.RateCardFilter) ([]*models.RateCard, error)
	Update(ctx context.Context, id string, patch models.RateCardPatch) (*models.RateCard, error)
	Delete(ctx context.Context, id string) error
	ToggleStatus(ctx context.Context, id string) (*models.RateCard, error)
	Fetch(ctx context.Context, key models.RateCardKey) (*models.RateCardFetchResult, error)
}

type PricingService interface {
	Create(ctx context.Context, rule models.PricingRule, actor string) (*models.PricingRule, error)
	List(ctx context.Context) ([]*models.PricingRule, error)
	Update(ctx context.Context, id string, patch models.PricingRulePatch) (*models.PricingRule, error)
	Delete(ctx context.Context, id string) error
	Quote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error)
}

type AuthService interface {
	Register(ctx context.Context, user models.AppUser) (*models.AppUser, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Me(ctx context.Context, id string) (*models.AppUser, error)
	UpdateMe(ctx context.Context, id string, upd models.ProfileUpdate) (*models.AppUser, error)
	ListUsers(ctx context.Context, skip, limit int64) ([]*models.AppUser, error)
	Authenticate(token string) (models.Principal, error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rrlogistics/models"
	"rrlogistics/repository"
	"rrlogistics/utils"
)

// trackingNumberAttempts bounds retries on a tracking number collision.
const trackingNumberAttempts = 3

type StatusUpdate struct {
	Status      models.ShipmentStatus `json:"status"`
	Location    string                `json:"location"`
	Description string                `json:"description"`
}

type ShipmentService struct {
	repo         repository.ShipmentRepository
	consignments repository.ConsignmentRepository
	dockets      *DocketReconciler
	now          func() time.Time
}

func NewShipmentService(repo repository.ShipmentRepository, consignments repository.ConsignmentRepository, dockets *DocketReconciler) *ShipmentService {
	return &ShipmentService{
		repo:         repo,
		consignments: consignments,
		dockets:      dockets,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// List scopes customers to their own shipments.
func (s *ShipmentService) List(ctx context.Context, filter models.ShipmentFilter, caller models.Principal) ([]*models.Shipment, error) {
	if !caller.Role.IsAdmin() {
		filter.CustomerID = caller.UserID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, models.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", filter.Status)}
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	for _, sh := range list {
		reconcileOnRead("shipment", sh.ID, func() (bool, error) { return s.dockets.Shipment(ctx, sh) })
	}
	return list, nil
}

// Get hides shipments of other customers behind a not-found.
func (s *ShipmentService) Get(ctx context.Context, id string, caller models.Principal) (*models.Shipment, error) {
	sh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("shipment", err)
	}
	if !caller.Role.IsAdmin() && sh.CustomerID != caller.UserID {
		return nil, models.NotFoundError{Resource: "shipment"}
	}
	reconcileOnRead("shipment", sh.ID, func() (bool, error) { return s.dockets.Shipment(ctx, sh) })
	return sh, nil
}

// Create books a shipment that has no consignment behind it. It starts pending
// with a single history event at the origin city.
func (s *ShipmentService) Create(ctx context.Context, in models.NewShipment, actor string) (*models.Shipment, error) {
	if err := validateNewShipment(&in); err != nil {
		return nil, err
	}
	in.Origin.Country = firstNonEmpty(in.Origin.Country, defaultCountry)
	in.Destination.Country = firstNonEmpty(in.Destination.Country, defaultCountry)

	var err error
	for range trackingNumberAttempts {
		now := s.now()
		sh := &models.Shipment{
			ID:                  repository.NewID(),
			TrackingNumber:      utils.TrackingNumber(now),
			DocketNo:            strings.TrimSpace(in.DocketNo),
			CustomerID:          in.CustomerID,
			ShipmentType:        in.ShipmentType,
			Origin:              in.Origin,
			Destination:         in.Destination,
			WeightKG:            in.WeightKG,
			Dimensions:          in.Dimensions,
			DeclaredValue:       in.DeclaredValue,
			Description:         in.Description,
			SpecialInstructions: in.SpecialInstructions,
			Status:              models.ShipmentPending,
			TrackingHistory: []models.TrackingEvent{{
				Status:      models.ShipmentPending,
				Location:    in.Origin.City,
				Timestamp:   now,
				Description: "Shipment created",
				UpdatedBy:   actor,
			}},
			CreatedBy: actor,
			CreatedAt: now,
		}
		err = s.repo.Create(ctx, sh)
		if err == nil {
			return sh, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
	}
	return nil, fmt.Errorf("create shipment: %w", err)
}

func validateNewShipment(in *models.NewShipment) error {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.ShipmentType = models.ShipmentType(strings.ToLower(string(in.ShipmentType)))
	switch {
	case in.CustomerID == "":
		return models.ValidationError{Field: "customer_id", Msg: "is required"}
	case !in.ShipmentType.Valid():
		return models.ValidationError{Field: "shipment_type", Msg: fmt.Sprintf("unknown shipment type %q", in.ShipmentType)}
	case strings.TrimSpace(in.Origin.City) == "":
		return models.ValidationError{Field: "origin.city", Msg: "is required"}
	case strings.TrimSpace(in.Destination.City) == "":
		return models.ValidationError{Field: "destination.city", Msg: "is required"}
	case in.WeightKG <= 0:
		return models.ValidationError{Field: "weight_kg", Msg: "must be positive"}
	case in.DeclaredValue < 0:
		return models.ValidationError{Field: "declared_value", Msg: "must not be negative"}
	}
	return nil
}

// Delete removes a shipment. A shipment still linked to a live consignment is
// kept so the consignment never points at a missing record.
func (s *ShipmentService) Delete(ctx context.Context, id string) error {
	sh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound("shipment", err)
	}
	if sh.ConsignmentID != "" {
		_, err := s.consignments.GetByID(ctx, sh.ConsignmentID)
		switch {
		case err == nil:
			return models.ConflictError{
				Resource: "shipment",
				Msg:      fmt.Sprintf("linked to consignment %s, delete the consignment first", sh.ConsignmentID),
			}
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("load consignment: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound("shipment", err)
	}
	return nil
}

// UpdateStatus appends a tracking event; the history is never rewritten.
func (s *ShipmentService) UpdateStatus(ctx context.Context, id string, upd StatusUpdate, actor string) (*models.Shipment, error) {
	upd.Status = models.ShipmentStatus(strings.ToLower(string(upd.Status)))
	if !upd.Status.Valid() {
		return nil, models.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", upd.Status)}
	}
	if strings.TrimSpace(upd.Location) == "" {
		return nil, models.ValidationError{Field: "location", Msg: "is required"}
	}
	event := models.TrackingEvent{
		Status:      upd.Status,
		Location:    upd.Location,
		Timestamp:   s.now(),
		Description: firstNonEmpty(upd.Description, fmt.Sprintf("Status updated to %s", upd.Status)),
		UpdatedBy:   actor,
	}
	if err := s.repo.AppendEvent(ctx, id, event); err != nil {
		return nil, notFound("shipment", err)
	}
	sh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("shipment", err)
	}
	return sh, nil
}

// Track resolves a public lookup by tracking number, docket number or consignment
// number. A consignment without a shipment yet is reported as pending.
func (s *ShipmentService) Track(ctx context.Context, number string) (*models.TrackingResult, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, models.ValidationError{Field: "number", Msg: "is required"}
	}

	sh, err := s.findShipment(ctx, number)
	if err != nil {
		return nil, err
	}
	if sh != nil {
		return trackingResult(sh, ""), nil
	}

	c, err := s.consignments.FindByNumber(ctx, number)
	if err != nil {
		return nil, notFound("shipment", err)
	}
	linked, err := s.linkedShipment(ctx, c)
	if err != nil {
		return nil, err
	}
	if linked != nil {
		return trackingResult(linked, c.ConsignmentNo), nil
	}

	return &models.TrackingResult{
		TrackingNumber: c.ConsignmentNo,
		DocketNo:       consignmentDocket(c),
		ConsignmentNo:  c.ConsignmentNo,
		Status:         models.ShipmentPending,
		Origin: models.Address{
			Name:         "RR Enterprise",
			AddressLine1: "Regional Office",
			City:         "Origin",
			State:        "N/A",
			Pincode:      "000000",
			Country:      defaultCountry,
		},
		Destination: models.Address{
			Name:         firstNonEmpty(c.Name, "Consignee"),
			AddressLine1: firstNonEmpty(c.Destination, "Delivery Address"),
			City:         firstNonEmpty(c.DestinationCity, c.Destination, "Destination"),
			State:        firstNonEmpty(c.DestinationState, "N/A"),
			Pincode:      c.DestinationPincode,
			Country:      defaultCountry,
		},
		TrackingHistory: []models.TrackingEvent{{
			Status:      models.ShipmentPending,
			Location:    "Consignment Desk",
			Timestamp:   c.CreatedAt,
			Description: fmt.Sprintf("Consignment %s created and awaiting shipment processing.", c.ConsignmentNo),
		}},
	}, nil
}

func (s *ShipmentService) findShipment(ctx context.Context, number string) (*models.Shipment, error) {
	sh, err := s.repo.FindByTrackingNumber(ctx, number)
	if err == nil {
		return sh, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find by tracking number: %w", err)
	}
	sh, err = s.repo.FindByDocketNo(ctx, number)
	if err == nil {
		return sh, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find by docket number: %w", err)
	}
	return nil, nil
}

func (s *ShipmentService) linkedShipment(ctx context.Context, c *models.Consignment) (*models.Shipment, error) {
	lookups := []func() (*models.Shipment, error){
		func() (*models.Shipment, error) {
			if c.ShipmentID == "" {
				return nil, repository.ErrNotFound
			}
			return s.repo.GetByID(ctx, c.ShipmentID)
		},
		func() (*models.Shipment, error) { return s.repo.FindByConsignmentID(ctx, c.ID) },
	}
	for _, lookup := range lookups {
		sh, err := lookup()
		if err == nil {
			return sh, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("find linked shipment: %w", err)
		}
	}
	return nil, nil
}

func trackingResult(sh *models.Shipment, consignmentNo string) *models.TrackingResult {
	return &models.TrackingResult{
		TrackingNumber:  sh.TrackingNumber,
		DocketNo:        sh.DocketNo,
		ConsignmentNo:   consignmentNo,
		Status:          sh.Status,
		Origin:          sh.Origin,
		Destination:     sh.Destination,
		TrackingHistory: sh.TrackingHistory,
	}
}

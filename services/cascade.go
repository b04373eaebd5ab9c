package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rrlogistics/logger"
	"rrlogistics/models"
	"rrlogistics/pricing"
	"rrlogistics/repository"
	"rrlogistics/utils"
)

// CascadeOutcome reports which dependent records a cascade attempt left linked.
// Empty ids mean the step did not complete; Warnings says why.
type CascadeOutcome struct {
	ShipmentID     string   `json:"shipment_id,omitempty"`
	TrackingNumber string   `json:"tracking_number,omitempty"`
	InvoiceID      string   `json:"invoice_id,omitempty"`
	InvoiceNo      string   `json:"invoice_no,omitempty"`
	Status         string   `json:"status"`
	Attempts       int      `json:"attempts"`
	Warnings       []string `json:"warnings,omitempty"`
}

func (o CascadeOutcome) Complete() bool {
	return o.ShipmentID != "" && o.InvoiceID != ""
}

func (o *CascadeOutcome) warn(step string, err error) {
	o.Warnings = append(o.Warnings, fmt.Sprintf("%s: %v", step, err))
}

// CascadeCreator derives the shipment and the invoice of a persisted consignment.
// Each step looks for an existing record first, so an attempt can be repeated safely.
type CascadeCreator struct {
	consignments repository.ConsignmentRepository
	shipments    repository.ShipmentRepository
	invoices     repository.InvoiceRepository
	users        repository.UserRepository
	now          func() time.Time
}

func NewCascadeCreator(
	consignments repository.ConsignmentRepository,
	shipments repository.ShipmentRepository,
	invoices repository.InvoiceRepository,
	users repository.UserRepository,
) *CascadeCreator {
	return &CascadeCreator{
		consignments: consignments,
		shipments:    shipments,
		invoices:     invoices,
		users:        users,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Run performs one cascade attempt. It never fails the caller: problems are
// logged and reported in the outcome, and the consignment's cascade status and
// attempt counter are updated to match. c is updated in place with the new links.
func (cc *CascadeCreator) Run(ctx context.Context, c *models.Consignment, user *models.AppUser, actor string) CascadeOutcome {
	var out CascadeOutcome
	log := logger.Log.With(zap.String("consignment_id", c.ID))

	if user == nil && c.UserID != "" {
		u, err := cc.users.GetUserByID(ctx, c.UserID)
		if err != nil {
			log.Warn("cascade: customer lookup failed", zap.Error(err))
		} else {
			user = u
		}
	}

	shipment, err := cc.ensureShipment(ctx, c, user, actor)
	if err != nil {
		log.Warn("cascade: shipment step failed", zap.Error(err))
		out.warn("shipment", err)
	} else {
		out.ShipmentID = shipment.ID
		out.TrackingNumber = shipment.TrackingNumber
	}

	if shipment != nil {
		inv, err := cc.ensureInvoice(ctx, c, user, shipment, actor)
		if err != nil {
			log.Warn("cascade: invoice step failed", zap.Error(err))
			out.warn("invoice", err)
		} else {
			out.InvoiceID = inv.ID
			out.InvoiceNo = inv.InvoiceNumber
		}
	}

	status := models.CascadeDegraded
	if out.Complete() {
		status = models.CascadeLinked
	}
	attempts := c.CascadeAttempts + 1
	if err := cc.consignments.SetLinks(ctx, c.ID, models.ConsignmentLinks{CascadeStatus: status, CascadeAttempts: &attempts}); err != nil {
		log.Warn("cascade: status update failed", zap.Error(err))
		out.warn("status", err)
	} else {
		c.CascadeStatus = status
		c.CascadeAttempts = attempts
	}
	out.Status = string(c.CascadeStatus)
	out.Attempts = c.CascadeAttempts
	return out
}

// Resume reloads a consignment and runs another attempt unless it is already linked.
func (cc *CascadeCreator) Resume(ctx context.Context, consignmentID string) (CascadeOutcome, error) {
	c, err := cc.consignments.GetByID(ctx, consignmentID)
	if err != nil {
		return CascadeOutcome{}, notFound("consignment", err)
	}
	if c.Linked() && c.CascadeStatus == models.CascadeLinked {
		return CascadeOutcome{
			ShipmentID: c.ShipmentID,
			InvoiceID:  c.InvoiceID,
			InvoiceNo:  c.InvoiceNo,
			Status:     string(c.CascadeStatus),
			Attempts:   c.CascadeAttempts,
		}, nil
	}
	return cc.Run(ctx, c, nil, c.CreatedBy), nil
}

// MarkFailed records that the cascade gave up on a consignment.
func (cc *CascadeCreator) MarkFailed(ctx context.Context, consignmentID string) error {
	return cc.consignments.SetLinks(ctx, consignmentID, models.ConsignmentLinks{CascadeStatus: models.CascadeFailed})
}

func (cc *CascadeCreator) ensureShipment(ctx context.Context, c *models.Consignment, user *models.AppUser, actor string) (*models.Shipment, error) {
	if c.ShipmentID != "" {
		s, err := cc.shipments.GetByID(ctx, c.ShipmentID)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("load linked shipment: %w", err)
		}
	}

	s, err := cc.shipments.FindByConsignmentID(ctx, c.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s, err = cc.createShipment(ctx, c, user, actor)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("find shipment: %w", err)
	}

	if c.ShipmentID != s.ID {
		if err := cc.consignments.SetLinks(ctx, c.ID, models.ConsignmentLinks{ShipmentID: s.ID}); err != nil {
			return nil, fmt.Errorf("link shipment: %w", err)
		}
		c.ShipmentID = s.ID
	}
	return s, nil
}

func (cc *CascadeCreator) ensureInvoice(ctx context.Context, c *models.Consignment, user *models.AppUser, s *models.Shipment, actor string) (*models.Invoice, error) {
	var inv *models.Invoice
	if c.InvoiceID != "" {
		found, err := cc.invoices.GetByID(ctx, c.InvoiceID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("load linked invoice: %w", err)
		}
		inv = found
	}
	if inv == nil {
		found, err := cc.invoices.FindByShipmentID(ctx, s.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			found, err = cc.createInvoice(ctx, c, user, s, actor)
			if err != nil {
				return nil, err
			}
		case err != nil:
			return nil, fmt.Errorf("find invoice: %w", err)
		}
		inv = found
	}

	if s.InvoiceID != inv.ID {
		if err := cc.shipments.SetInvoiceID(ctx, s.ID, inv.ID); err != nil {
			return nil, fmt.Errorf("link invoice to shipment: %w", err)
		}
		s.InvoiceID = inv.ID
	}
	if c.InvoiceID != inv.ID || c.InvoiceNo != inv.InvoiceNumber {
		links := models.ConsignmentLinks{InvoiceID: inv.ID, InvoiceNo: inv.InvoiceNumber}
		if err := cc.consignments.SetLinks(ctx, c.ID, links); err != nil {
			return nil, fmt.Errorf("link invoice: %w", err)
		}
		c.InvoiceID = inv.ID
		c.InvoiceNo = inv.InvoiceNumber
	}
	return inv, nil
}

// createShipment inserts the shipment for c. When a concurrent attempt won the
// insert, its shipment is returned instead.
func (cc *CascadeCreator) createShipment(ctx context.Context, c *models.Consignment, user *models.AppUser, actor string) (*models.Shipment, error) {
	s := cc.buildShipment(c, user, actor)
	err := cc.shipments.Create(ctx, s)
	if errors.Is(err, repository.ErrDuplicate) {
		if existing, ferr := cc.shipments.FindByConsignmentID(ctx, c.ID); ferr == nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}
	return s, nil
}

func (cc *CascadeCreator) createInvoice(ctx context.Context, c *models.Consignment, user *models.AppUser, s *models.Shipment, actor string) (*models.Invoice, error) {
	inv := cc.buildInvoice(c, user, s, actor)
	err := cc.invoices.Create(ctx, inv)
	if errors.Is(err, repository.ErrDuplicate) {
		if existing, ferr := cc.invoices.FindByShipmentID(ctx, s.ID); ferr == nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

func (cc *CascadeCreator) buildShipment(c *models.Consignment, user *models.AppUser, actor string) *models.Shipment {
	now := cc.now()
	origin := originAddress(user)
	return &models.Shipment{
		ID:                  repository.NewID(),
		TrackingNumber:      utils.TrackingNumber(now),
		DocketNo:            c.DocketNo,
		CustomerID:          c.UserID,
		ShipmentType:        ShipmentTypeFor(c.Weight),
		Origin:              origin,
		Destination:         destinationAddress(c.ConsignmentDetails, models.Address{}),
		WeightKG:            c.Weight,
		Dimensions:          ParseDimensions(c.Box1Dimensions),
		DeclaredValue:       c.Value,
		Description:         c.ProductName + docketSuffix(c.DocketNo),
		SpecialInstructions: c.Remarks,
		Status:              models.ShipmentPending,
		TrackingHistory: []models.TrackingEvent{{
			Status:      models.ShipmentPending,
			Location:    firstNonEmpty(origin.City, "Origin"),
			Timestamp:   now,
			Description: "Shipment created from consignment",
			UpdatedBy:   actor,
		}},
		Pricing: &models.ShipmentPricing{
			BaseRate:      c.BaseRate,
			DocketCharges: c.DocketCharges,
			OdaCharge:     c.OdaCharge,
			FOV:           c.FOV,
			Total:         c.Total,
		},
		ConsignmentID: c.ID,
		CreatedBy:     actor,
		CreatedAt:     now,
	}
}

func (cc *CascadeCreator) buildInvoice(c *models.Consignment, user *models.AppUser, s *models.Shipment, actor string) *models.Invoice {
	now := cc.now()
	b := pricing.Compute(chargesOf(c.ConsignmentDetails))
	total := pricing.Round2(b.TotalAmount)

	inv := &models.Invoice{
		ID:             repository.NewID(),
		InvoiceNumber:  utils.InvoiceNumber(now),
		CustomerID:     c.UserID,
		CustomerName:   firstNonEmpty(c.Name, "Customer"),
		BillingAddress: billingAddress(user),
		ShipmentIDs:    []string{s.ID},
		ConsignmentID:  c.ID,
		Items:          []models.InvoiceItem{invoiceItem(c, s.ID, s.TrackingNumber, b)},
		Subtotal:       pricing.Round2(b.SubtotalWithFuel),
		GSTAmount:      pricing.Round2(b.GSTAmount),
		TotalAmount:    total,
		BalanceDue:     total,
		PaymentStatus:  models.DerivePaymentStatus(total, 0),
		Payments:       []models.PaymentRecord{},
		DueDate:        now.AddDate(0, 0, 30).Format(time.DateOnly),
		Notes:          fmt.Sprintf("Auto-generated invoice for consignment %s%s", c.ConsignmentNo, docketSuffix(c.DocketNo)),
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	if user != nil {
		inv.CustomerName = firstNonEmpty(user.FullName, c.Name, "Customer")
		inv.CustomerEmail = user.Email
		inv.CustomerPhone = user.Phone
	}
	return inv
}

package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"rrlogistics/logger"
	"rrlogistics/models"
	"rrlogistics/pricing"
	"rrlogistics/repository"
)

// SyncOutcome lists the linked records an edit reached.
type SyncOutcome struct {
	ShipmentSynced bool     `json:"shipment_synced"`
	InvoiceSynced  bool     `json:"invoice_synced"`
	Warnings       []string `json:"warnings,omitempty"`
}

// SyncPropagator pushes consignment edits into the linked shipment and invoice.
type SyncPropagator struct {
	shipments repository.ShipmentRepository
	invoices  repository.InvoiceRepository
}

func NewSyncPropagator(shipments repository.ShipmentRepository, invoices repository.InvoiceRepository) *SyncPropagator {
	return &SyncPropagator{shipments: shipments, invoices: invoices}
}

// Propagate syncs both links independently. A failure on one side is logged and
// reported as a warning, it does not stop the other.
func (sp *SyncPropagator) Propagate(ctx context.Context, c *models.Consignment) SyncOutcome {
	var out SyncOutcome
	log := logger.Log.With(zap.String("consignment_id", c.ID))

	if c.ShipmentID != "" {
		if err := sp.syncShipment(ctx, c); err != nil {
			log.Warn("sync: shipment update failed", zap.String("shipment_id", c.ShipmentID), zap.Error(err))
			out.Warnings = append(out.Warnings, fmt.Sprintf("shipment: %v", err))
		} else {
			out.ShipmentSynced = true
		}
	}
	if c.InvoiceID != "" {
		if err := sp.syncInvoice(ctx, c); err != nil {
			log.Warn("sync: invoice update failed", zap.String("invoice_id", c.InvoiceID), zap.Error(err))
			out.Warnings = append(out.Warnings, fmt.Sprintf("invoice: %v", err))
		} else {
			out.InvoiceSynced = true
		}
	}
	return out
}

func (sp *SyncPropagator) syncShipment(ctx context.Context, c *models.Consignment) error {
	s, err := sp.shipments.GetByID(ctx, c.ShipmentID)
	if err != nil {
		return fmt.Errorf("load shipment: %w", err)
	}
	sync := models.ShipmentSync{
		Destination: destinationAddress(c.ConsignmentDetails, s.Destination),
		WeightKG:    c.Weight,
		Dimensions:  ParseDimensions(c.Box1Dimensions),
		Description: c.ProductName + docketSuffix(c.DocketNo),
		DocketNo:    firstNonEmpty(c.DocketNo, s.DocketNo),
	}
	return sp.shipments.ApplySync(ctx, s.ID, sync)
}

// syncInvoiceAttempts bounds the re-reads when a payment lands between the
// read and the write of an invoice sync.
const syncInvoiceAttempts = 3

// syncInvoice replaces the item list with the single synthesized item and
// recomputes totals. amount_paid and the payment history are never touched.
func (sp *SyncPropagator) syncInvoice(ctx context.Context, c *models.Consignment) error {
	var err error
	for range syncInvoiceAttempts {
		err = sp.recalculateInvoice(ctx, c)
		if !errors.Is(err, repository.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("invoice kept changing: %w", err)
}

func (sp *SyncPropagator) recalculateInvoice(ctx context.Context, c *models.Consignment) error {
	inv, err := sp.invoices.GetByID(ctx, c.InvoiceID)
	if err != nil {
		return fmt.Errorf("load invoice: %w", err)
	}

	shipmentID, trackingNumber := c.ShipmentID, ""
	if len(inv.Items) > 0 {
		trackingNumber = inv.Items[0].TrackingNumber
		if shipmentID == "" {
			shipmentID = inv.Items[0].ShipmentID
		}
	}

	b := pricing.Compute(chargesOf(c.ConsignmentDetails))
	total := pricing.Round2(b.TotalAmount)
	status := inv.PaymentStatus
	if status != models.PaymentOverdue && status != models.PaymentCancelled {
		status = models.DerivePaymentStatus(total, inv.AmountPaid)
	}

	return sp.invoices.Recalculate(ctx, inv.ID, models.InvoiceRecalc{
		PreviousPaid:  inv.AmountPaid,
		CustomerName:  firstNonEmpty(c.Name, inv.CustomerName),
		Items:         []models.InvoiceItem{invoiceItem(c, shipmentID, trackingNumber, b)},
		Subtotal:      pricing.Round2(b.SubtotalWithFuel),
		GSTAmount:     pricing.Round2(b.GSTAmount),
		TotalAmount:   total,
		BalanceDue:    pricing.Round2(models.BalanceFor(total, inv.AmountPaid)),
		PaymentStatus: status,
	})
}

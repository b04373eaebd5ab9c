package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"rrlogistics/logger"
	"rrlogistics/models"
	"rrlogistics/repository"
)

// DocketReconciler fills missing docket numbers on read and persists them, so the
// next read finds them in place. Records that already carry one are left alone.
type DocketReconciler struct {
	consignments repository.ConsignmentRepository
	shipments    repository.ShipmentRepository
	invoices     repository.InvoiceRepository
}

func NewDocketReconciler(
	consignments repository.ConsignmentRepository,
	shipments repository.ShipmentRepository,
	invoices repository.InvoiceRepository,
) *DocketReconciler {
	return &DocketReconciler{consignments: consignments, shipments: shipments, invoices: invoices}
}

func consignmentDocket(c *models.Consignment) string {
	return firstNonEmpty(c.DocketNo, c.LegacyDocketNo, c.ConsignmentNo)
}

// Consignment reports whether it wrote a new docket number.
func (r *DocketReconciler) Consignment(ctx context.Context, c *models.Consignment) (bool, error) {
	if c.DocketNo != "" {
		return false, nil
	}
	docket := consignmentDocket(c)
	if docket == "" {
		return false, nil
	}
	if err := r.consignments.SetDocketNo(ctx, c.ID, docket); err != nil {
		return false, fmt.Errorf("persist consignment docket: %w", err)
	}
	c.DocketNo = docket
	return true, nil
}

func (r *DocketReconciler) Shipment(ctx context.Context, s *models.Shipment) (bool, error) {
	if s.DocketNo != "" {
		return false, nil
	}
	c, err := r.consignmentForShipment(ctx, s.ConsignmentID, s.ID)
	if err != nil || c == nil {
		return false, err
	}
	docket := consignmentDocket(c)
	if docket == "" {
		return false, nil
	}
	if err := r.shipments.SetDocketNo(ctx, s.ID, docket); err != nil {
		return false, fmt.Errorf("persist shipment docket: %w", err)
	}
	s.DocketNo = docket
	return true, nil
}

// Invoice fills line items from the consignment linked to the item's shipment,
// falling back to the shipment found by tracking number.
func (r *DocketReconciler) Invoice(ctx context.Context, inv *models.Invoice) (bool, error) {
	changed := false
	items := make([]models.InvoiceItem, len(inv.Items))
	copy(items, inv.Items)

	for i := range items {
		if items[i].DocketNo != "" {
			continue
		}
		docket, err := r.itemDocket(ctx, items[i])
		if err != nil {
			return false, err
		}
		if docket != "" {
			items[i].DocketNo = docket
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	if err := r.invoices.SetItems(ctx, inv.ID, items); err != nil {
		return false, fmt.Errorf("persist invoice dockets: %w", err)
	}
	inv.Items = items
	return true, nil
}

func (r *DocketReconciler) itemDocket(ctx context.Context, item models.InvoiceItem) (string, error) {
	if item.ShipmentID != "" {
		c, err := r.consignments.FindByShipmentID(ctx, item.ShipmentID)
		switch {
		case err == nil:
			return consignmentDocket(c), nil
		case !errors.Is(err, repository.ErrNotFound):
			return "", fmt.Errorf("find consignment for item: %w", err)
		}
	}
	if item.TrackingNumber != "" {
		s, err := r.shipments.FindByTrackingNumber(ctx, item.TrackingNumber)
		switch {
		case err == nil:
			return s.DocketNo, nil
		case !errors.Is(err, repository.ErrNotFound):
			return "", fmt.Errorf("find shipment for item: %w", err)
		}
	}
	return "", nil
}

func (r *DocketReconciler) consignmentForShipment(ctx context.Context, consignmentID, shipmentID string) (*models.Consignment, error) {
	if consignmentID != "" {
		c, err := r.consignments.GetByID(ctx, consignmentID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("load consignment: %w", err)
		}
	}
	c, err := r.consignments.FindByShipmentID(ctx, shipmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find consignment: %w", err)
	}
	return c, nil
}

// reconcileOnRead runs fn and only logs a failure; reads never fail because of it.
func reconcileOnRead(kind, id string, fn func() (bool, error)) {
	if _, err := fn(); err != nil {
		logger.Log.Warn("docket reconcile failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
	}
}

type BackfillStats struct {
	Consignments int `json:"consignments"`
	Shipments    int `json:"shipments"`
	Invoices     int `json:"invoices"`
}

const backfillBatch = 200

// BackfillAll reconciles every stored record in batches and counts the writes.
func (r *DocketReconciler) BackfillAll(ctx context.Context) (BackfillStats, error) {
	var stats BackfillStats

	for skip := int64(0); ; skip += backfillBatch {
		batch, err := r.consignments.List(ctx, models.ConsignmentFilter{Skip: skip, Limit: backfillBatch})
		if err != nil {
			return stats, fmt.Errorf("list consignments: %w", err)
		}
		for _, c := range batch {
			changed, err := r.Consignment(ctx, c)
			if err != nil {
				return stats, err
			}
			if changed {
				stats.Consignments++
			}
		}
		if len(batch) < backfillBatch {
			break
		}
	}

	for skip := int64(0); ; skip += backfillBatch {
		batch, err := r.shipments.List(ctx, models.ShipmentFilter{Skip: skip, Limit: backfillBatch})
		if err != nil {
			return stats, fmt.Errorf("list shipments: %w", err)
		}
		for _, s := range batch {
			changed, err := r.Shipment(ctx, s)
			if err != nil {
				return stats, err
			}
			if changed {
				stats.Shipments++
			}
		}
		if len(batch) < backfillBatch {
			break
		}
	}

	for skip := int64(0); ; skip += backfillBatch {
		batch, err := r.invoices.List(ctx, models.InvoiceFilter{Skip: skip, Limit: backfillBatch})
		if err != nil {
			return stats, fmt.Errorf("list invoices: %w", err)
		}
		for _, inv := range batch {
			changed, err := r.Invoice(ctx, inv)
			if err != nil {
				return stats, err
			}
			if changed {
				stats.Invoices++
			}
		}
		if len(batch) < backfillBatch {
			break
		}
	}
	return stats, nil
}

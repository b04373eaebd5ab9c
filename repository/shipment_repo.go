package repository

import (
	"context"

	"rrlogistics/models"
)

type ShipmentRepository interface {
	Create(ctx context.Context, s *models.Shipment) error
	GetByID(ctx context.Context, id string) (*models.Shipment, error)
	FindByConsignmentID(ctx context.Context, consignmentID string) (*models.Shipment, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Shipment, error)
	FindByDocketNo(ctx context.Context, docketNo string) (*models.Shipment, error)
	List(ctx context.Context, filter models.ShipmentFilter) ([]*models.Shipment, error)
	SetConsignmentID(ctx context.Context, id, consignmentID string) error
	SetInvoiceID(ctx context.Context, id, invoiceID string) error
	ApplySync(ctx context.Context, id string, sync models.ShipmentSync) error
	// AppendEvent sets the current status and appends the event to the history.
	AppendEvent(ctx context.Context, id string, event models.TrackingEvent) error
	SetDocketNo(ctx context.Context, id, docketNo string) error
	Delete(ctx context.Context, id string) error
}

package repository

import (
	"context"
	"time"

	"rrlogistics/models"
)

type ConsignmentRepository interface {
	Create(ctx context.Context, c *models.Consignment) error
	GetByID(ctx context.Context, id string) (*models.Consignment, error)
	FindByShipmentID(ctx context.Context, shipmentID string) (*models.Consignment, error)
	// FindByNumber matches either the consignment number or the docket number.
	FindByNumber(ctx context.Context, number string) (*models.Consignment, error)
	List(ctx context.Context, filter models.ConsignmentFilter) ([]*models.Consignment, error)
	// ListUnlinked returns consignments whose cascade is pending or degraded and that were created before the cutoff.
	ListUnlinked(ctx context.Context, before time.Time, limit int64) ([]*models.Consignment, error)
	MaxSrNo(ctx context.Context) (int64, error)
	UpdateDetails(ctx context.Context, id string, details models.ConsignmentDetails, total float64) error
	SetLinks(ctx context.Context, id string, links models.ConsignmentLinks) error
	SetDocketNo(ctx context.Context, id, docketNo string) error
	Delete(ctx context.Context, id string) error
}

package repository

import (
	"context"

	"rrlogistics/models"
)

type InvoiceRepository interface {
	Create(ctx context.Context, inv *models.Invoice) error
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	FindByShipmentID(ctx context.Context, shipmentID string) (*models.Invoice, error)
	List(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error)
	// Recalculate only succeeds while amount_paid still equals recalc.PreviousPaid, otherwise ErrConflict.
	Recalculate(ctx context.Context, id string, recalc models.InvoiceRecalc) error
	// ApplyPayment only succeeds while amount_paid and total_amount still equal
	// app.PreviousPaid and app.PreviousTotal, otherwise ErrConflict.
	ApplyPayment(ctx context.Context, id string, app models.PaymentApplication) error
	SetItems(ctx context.Context, id string, items []models.InvoiceItem) error
}

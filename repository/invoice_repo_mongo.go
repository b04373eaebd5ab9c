package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rrlogistics/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoInvoiceRepo struct {
	DB *mongo.Database
}

func NewMongoInvoiceRepo(db *mongo.Database) *MongoInvoiceRepo {
	return &MongoInvoiceRepo{DB: db}
}

func (r *MongoInvoiceRepo) col() *mongo.Collection {
	return r.DB.Collection(invoicesCollection)
}

func (r *MongoInvoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	if inv.ID == "" {
		inv.ID = NewID()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	if inv.Payments == nil {
		inv.Payments = []models.PaymentRecord{}
	}
	if inv.Items == nil {
		inv.Items = []models.InvoiceItem{}
	}
	if inv.ShipmentIDs == nil {
		inv.ShipmentIDs = []string{}
	}
	return insert(ctx, r.col(), inv)
}

func (r *MongoInvoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	return findOne[models.Invoice](ctx, r.col(), bson.M{"_id": id})
}

func (r *MongoInvoiceRepo) FindByShipmentID(ctx context.Context, shipmentID string) (*models.Invoice, error) {
	return findOne[models.Invoice](ctx, r.col(), bson.M{"shipment_ids": shipmentID})
}

func (r *MongoInvoiceRepo) List(ctx context.Context, f models.InvoiceFilter) ([]*models.Invoice, error) {
	filter := bson.M{}
	if f.CustomerID != "" {
		filter["customer_id"] = f.CustomerID
	}
	if f.PaymentStatus != "" {
		filter["payment_status"] = f.PaymentStatus
	}
	return findMany[models.Invoice](ctx, r.col(), filter, pageOptions(bson.D{{Key: "created_at", Value: -1}}, f.Skip, f.Limit))
}

func (r *MongoInvoiceRepo) Recalculate(ctx context.Context, id string, rc models.InvoiceRecalc) error {
	set := bson.M{
		"customer_name":  rc.CustomerName,
		"items":          rc.Items,
		"subtotal":       rc.Subtotal,
		"gst_amount":     rc.GSTAmount,
		"total_amount":   rc.TotalAmount,
		"balance_due":    rc.BalanceDue,
		"payment_status": rc.PaymentStatus,
		"updated_at":     time.Now().UTC(),
	}
	return r.updateIf(ctx, id, bson.M{"amount_paid": rc.PreviousPaid}, bson.M{"$set": set})
}

func (r *MongoInvoiceRepo) ApplyPayment(ctx context.Context, id string, app models.PaymentApplication) error {
	cond := bson.M{"amount_paid": app.PreviousPaid, "total_amount": app.PreviousTotal}
	update := bson.M{
		"$push": bson.M{"payments": app.Record},
		"$set": bson.M{
			"amount_paid":    app.AmountPaid,
			"balance_due":    app.BalanceDue,
			"payment_status": app.PaymentStatus,
			"updated_at":     time.Now().UTC(),
		},
	}
	return r.updateIf(ctx, id, cond, update)
}

// updateIf applies update while the invoice still matches cond. A miss on an
// existing invoice means another writer got there first.
func (r *MongoInvoiceRepo) updateIf(ctx context.Context, id string, cond, update bson.M) error {
	filter := bson.M{"_id": id}
	for k, v := range cond {
		filter[k] = v
	}
	res, err := r.col().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return ErrConflict
}

func (r *MongoInvoiceRepo) SetItems(ctx context.Context, id string, items []models.InvoiceItem) error {
	return updateByID(ctx, r.col(), id, bson.M{"$set": bson.M{"items": items, "updated_at": time.Now().UTC()}})
}

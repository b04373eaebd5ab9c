package repository

import (
	"context"
	"time"

	"rrlogistics/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoShipmentRepo struct {
	DB *mongo.Database
}

func NewMongoShipmentRepo(db *mongo.Database) *MongoShipmentRepo {
	return &MongoShipmentRepo{DB: db}
}

func (r *MongoShipmentRepo) col() *mongo.Collection {
	return r.DB.Collection(shipmentsCollection)
}

func (r *MongoShipmentRepo) Create(ctx context.Context, s *models.Shipment) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	// $push on a null array fails, so always persist an empty history.
	if s.TrackingHistory == nil {
		s.TrackingHistory = []models.TrackingEvent{}
	}
	return insert(ctx, r.col(), s)
}

func (r *MongoShipmentRepo) GetByID(ctx context.Context, id string) (*models.Shipment, error) {
	return findOne[models.Shipment](ctx, r.col(), bson.M{"_id": id})
}

func (r *MongoShipmentRepo) FindByConsignmentID(ctx context.Context, consignmentID string) (*models.Shipment, error) {
	return findOne[models.Shipment](ctx, r.col(), bson.M{"consignment_id": consignmentID})
}

func (r *MongoShipmentRepo) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	return findOne[models.Shipment](ctx, r.col(), bson.M{"tracking_number": trackingNumber})
}

func (r *MongoShipmentRepo) FindByDocketNo(ctx context.Context, docketNo string) (*models.Shipment, error) {
	return findOne[models.Shipment](ctx, r.col(), bson.M{"docket_no": docketNo})
}

func (r *MongoShipmentRepo) List(ctx context.Context, f models.ShipmentFilter) ([]*models.Shipment, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CustomerID != "" {
		filter["customer_id"] = f.CustomerID
	}
	return findMany[models.Shipment](ctx, r.col(), filter, pageOptions(bson.D{{Key: "created_at", Value: -1}}, f.Skip, f.Limit))
}

func (r *MongoShipmentRepo) SetConsignmentID(ctx context.Context, id, consignmentID string) error {
	return r.set(ctx, id, bson.M{"consignment_id": consignmentID})
}

func (r *MongoShipmentRepo) SetInvoiceID(ctx context.Context, id, invoiceID string) error {
	return r.set(ctx, id, bson.M{"invoice_id": invoiceID})
}

func (r *MongoShipmentRepo) ApplySync(ctx context.Context, id string, s models.ShipmentSync) error {
	set := bson.M{
		"destination": s.Destination,
		"weight_kg":   s.WeightKG,
		"description": s.Description,
		"docket_no":   s.DocketNo,
	}
	if s.Dimensions != nil {
		set["dimensions"] = s.Dimensions
	}
	return r.set(ctx, id, set)
}

func (r *MongoShipmentRepo) AppendEvent(ctx context.Context, id string, event models.TrackingEvent) error {
	update := bson.M{
		"$set":  bson.M{"status": event.Status, "updated_at": time.Now().UTC()},
		"$push": bson.M{"tracking_history": event},
	}
	return updateByID(ctx, r.col(), id, update)
}

func (r *MongoShipmentRepo) SetDocketNo(ctx context.Context, id, docketNo string) error {
	return updateByID(ctx, r.col(), id, bson.M{"$set": bson.M{"docket_no": docketNo}})
}

func (r *MongoShipmentRepo) set(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	return updateByID(ctx, r.col(), id, bson.M{"$set": fields})
}

func (r *MongoShipmentRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col(), id)
}

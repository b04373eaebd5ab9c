package repository

import (
	"context"
	"errors"
	"time"

	"rrlogistics/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConsignmentRepo struct {
	DB *mongo.Database
}

func NewMongoConsignmentRepo(db *mongo.Database) *MongoConsignmentRepo {
	return &MongoConsignmentRepo{DB: db}
}

func (r *MongoConsignmentRepo) col() *mongo.Collection {
	return r.DB.Collection(consignmentsCollection)
}

func (r *MongoConsignmentRepo) Create(ctx context.Context, c *models.Consignment) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return insert(ctx, r.col(), c)
}

func (r *MongoConsignmentRepo) GetByID(ctx context.Context, id string) (*models.Consignment, error) {
	return findOne[models.Consignment](ctx, r.col(), bson.M{"_id": id})
}

func (r *MongoConsignmentRepo) FindByShipmentID(ctx context.Context, shipmentID string) (*models.Consignment, error) {
	return findOne[models.Consignment](ctx, r.col(), bson.M{"shipment_id": shipmentID})
}

func (r *MongoConsignmentRepo) FindByNumber(ctx context.Context, number string) (*models.Consignment, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"consignment_no": number},
		bson.M{"docket_no": number},
	}}
	return findOne[models.Consignment](ctx, r.col(), filter)
}

func (r *MongoConsignmentRepo) List(ctx context.Context, f models.ConsignmentFilter) ([]*models.Consignment, error) {
	filter := bson.M{}
	if f.StartDate != "" || f.EndDate != "" {
		dateRange := bson.M{}
		if f.StartDate != "" {
			dateRange["$gte"] = f.StartDate
		}
		if f.EndDate != "" {
			dateRange["$lte"] = f.EndDate
		}
		filter["date"] = dateRange
	}
	if f.Zone != "" {
		filter["zone"] = f.Zone
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.InvoiceID != "" {
		filter["invoice_id"] = f.InvoiceID
	}
	return findMany[models.Consignment](ctx, r.col(), filter, pageOptions(bson.D{{Key: "sr_no", Value: -1}}, f.Skip, f.Limit))
}

func (r *MongoConsignmentRepo) ListUnlinked(ctx context.Context, before time.Time, limit int64) ([]*models.Consignment, error) {
	filter := bson.M{
		"cascade_status": bson.M{"$in": bson.A{models.CascadePending, models.CascadeDegraded}},
		"created_at":     bson.M{"$lt": before},
	}
	return findMany[models.Consignment](ctx, r.col(), filter, pageOptions(bson.D{{Key: "created_at", Value: 1}}, 0, limit))
}

func (r *MongoConsignmentRepo) MaxSrNo(ctx context.Context) (int64, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "sr_no", Value: -1}}).
		SetProjection(bson.M{"sr_no": 1})
	c, err := findOne[models.Consignment](ctx, r.col(), bson.M{}, opts)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c.SrNo, nil
}

// consignmentDetailsUpdate limits an edit to operator owned fields so cascade links written concurrently survive.
type consignmentDetailsUpdate struct {
	models.ConsignmentDetails `bson:",inline"`
	Total                     float64   `bson:"total"`
	UpdatedAt                 time.Time `bson:"updated_at"`
}

func (r *MongoConsignmentRepo) UpdateDetails(ctx context.Context, id string, details models.ConsignmentDetails, total float64) error {
	set := consignmentDetailsUpdate{ConsignmentDetails: details, Total: total, UpdatedAt: time.Now().UTC()}
	return updateByID(ctx, r.col(), id, bson.M{"$set": set})
}

func (r *MongoConsignmentRepo) SetLinks(ctx context.Context, id string, links models.ConsignmentLinks) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if links.ShipmentID != "" {
		set["shipment_id"] = links.ShipmentID
	}
	if links.InvoiceID != "" {
		set["invoice_id"] = links.InvoiceID
	}
	if links.InvoiceNo != "" {
		set["invoice_no"] = links.InvoiceNo
	}
	if links.CascadeStatus != "" {
		set["cascade_status"] = links.CascadeStatus
	}
	if links.CascadeAttempts != nil {
		set["cascade_attempts"] = *links.CascadeAttempts
	}
	return updateByID(ctx, r.col(), id, bson.M{"$set": set})
}

func (r *MongoConsignmentRepo) SetDocketNo(ctx context.Context, id, docketNo string) error {
	return updateByID(ctx, r.col(), id, bson.M{"$set": bson.M{"docket_no": docketNo}})
}

func (r *MongoConsignmentRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col(), id)
}

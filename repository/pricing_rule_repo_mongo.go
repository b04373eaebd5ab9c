package repository

import (
	"context"
	"time"

	"rrlogistics/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoPricingRuleRepo struct {
	DB *mongo.Database
}

func NewMongoPricingRuleRepo(db *mongo.Database) *MongoPricingRuleRepo {
	return &MongoPricingRuleRepo{DB: db}
}

func (r *MongoPricingRuleRepo) col() *mongo.Collection {
	return r.DB.Collection(pricingRulesCollection)
}

func (r *MongoPricingRuleRepo) Create(ctx context.Context, rule *models.PricingRule) error {
	if rule.ID == "" {
		rule.ID = NewID()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	return insert(ctx, r.col(), rule)
}

func (r *MongoPricingRuleRepo) GetByID(ctx context.Context, id string) (*models.PricingRule, error) {
	return findOne[models.PricingRule](ctx, r.col(), bson.M{"_id": id})
}

func (r *MongoPricingRuleRepo) FindActive(ctx context.Context, q models.PricingRuleQuery) (*models.PricingRule, error) {
	filter := bson.M{"is_active": true}
	if q.Zone != "" {
		filter["zone"] = q.Zone
	}
	if q.ShipmentType != "" {
		filter["shipment_type"] = q.ShipmentType
	}
	if q.ServiceType != "" {
		filter["service_type"] = q.ServiceType
	}
	return findOne[models.PricingRule](ctx, r.col(), filter)
}

func (r *MongoPricingRuleRepo) List(ctx context.Context) ([]*models.PricingRule, error) {
	return findMany[models.PricingRule](ctx, r.col(), bson.M{}, pageOptions(bson.D{{Key: "zone", Value: 1}}, 0, 0))
}

func (r *MongoPricingRuleRepo) Update(ctx context.Context, rule *models.PricingRule) error {
	now := time.Now().UTC()
	rule.UpdatedAt = &now
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": rule.ID}, rule)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPricingRuleRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col(), id)
}

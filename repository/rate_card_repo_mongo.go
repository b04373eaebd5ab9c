package repository

import (
	"context"
	"time"

	"rrlogistics/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoRateCardRepo struct {
	DB *mongo.Database
}

func NewMongoRateCardRepo(db *mongo.Database) *MongoRateCardRepo {
	return &MongoRateCardRepo{DB: db}
}

func (r *MongoRateCardRepo) col() *mongo.Collection {
	return r.DB.Collection(rateCardsCollection)
}

func (r *MongoRateCardRepo) Create(ctx context.Context, card *models.RateCard) error {
	if card.ID == "" {
		card.ID = NewID()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	return insert(ctx, r.col(), card)
}

func (r *MongoRateCardRepo) GetByID(ctx context.Context, id string) (*models.RateCard, error) {
	return findOne[models.RateCard](ctx, r.col(), bson.M{"_id": id})
}

func (r *MongoRateCardRepo) FindByKey(ctx context.Context, key models.RateCardKey, activeOnly bool) (*models.RateCard, error) {
	filter := bson.M{
		"user_id":          key.UserID,
		"delivery_partner": key.DeliveryPartner,
		"service_type":     key.ServiceType,
		"mode":             key.Mode,
	}
	if key.Region != "" {
		filter["region"] = key.Region
	}
	if key.Zone != "" {
		filter["zone"] = key.Zone
	}
	if activeOnly {
		filter["is_active"] = true
	}
	return findOne[models.RateCard](ctx, r.col(), filter)
}

func (r *MongoRateCardRepo) List(ctx context.Context, f models.RateCardFilter) ([]*models.RateCard, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.DeliveryPartner != "" {
		filter["delivery_partner"] = f.DeliveryPartner
	}
	if f.ServiceType != "" {
		filter["service_type"] = f.ServiceType
	}
	if f.ActiveOnly {
		filter["is_active"] = true
	}
	return findMany[models.RateCard](ctx, r.col(), filter, pageOptions(bson.D{{Key: "created_at", Value: -1}}, 0, 0))
}

func (r *MongoRateCardRepo) Update(ctx context.Context, card *models.RateCard) error {
	now := time.Now().UTC()
	card.UpdatedAt = &now
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": card.ID}, card)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRateCardRepo) SetActive(ctx context.Context, id string, active bool) error {
	return updateByID(ctx, r.col(), id, bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}})
}

func (r *MongoRateCardRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col(), id)
}

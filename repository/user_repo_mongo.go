package repository

import (
	"context"
	"strings"
	"time"

	"rrlogistics/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoUserRepo struct {
	DB *mongo.Database
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{DB: db}
}

func (r *MongoUserRepo) col() *mongo.Collection {
	return r.DB.Collection(usersCollection)
}

// CreateUser expects user.Password to already hold a bcrypt hash.
func (r *MongoUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	if user.ID == "" {
		user.ID = NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Email = strings.ToLower(user.Email)
	return insert(ctx, r.col(), user)
}

func (r *MongoUserRepo) GetUserByID(ctx context.Context, id string) (*models.AppUser, error) {
	return findOne[models.AppUser](ctx, r.col(), bson.M{"_id": id})
}

func (r *MongoUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	return findOne[models.AppUser](ctx, r.col(), bson.M{"email": strings.ToLower(email)})
}

func (r *MongoUserRepo) ListUsers(ctx context.Context, skip, limit int64) ([]*models.AppUser, error) {
	return findMany[models.AppUser](ctx, r.col(), bson.M{}, pageOptions(bson.D{{Key: "created_at", Value: 1}}, skip, limit))
}

func (r *MongoUserRepo) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	fields := map[string]*string{
		"full_name":    upd.FullName,
		"phone":        upd.Phone,
		"company_name": upd.CompanyName,
		"address":      upd.Address,
		"city":         upd.City,
		"state":        upd.State,
		"pincode":      upd.Pincode,
	}
	for key, v := range fields {
		if v != nil {
			set[key] = *v
		}
	}
	return updateByID(ctx, r.col(), id, bson.M{"$set": set})
}

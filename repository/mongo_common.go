package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	consignmentsCollection = "consignments"
	shipmentsCollection    = "shipments"
	invoicesCollection     = "invoices"
	rateCardsCollection    = "rate_cards"
	pricingRulesCollection = "pricing_rules"
	usersCollection        = "users"
	countersCollection     = "counters"
)

// NewID returns a fresh opaque identifier in ObjectID hex form.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter, opts...).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]*T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	defer cur.Close(ctx)

	out := []*T{}
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
		}
		out = append(out, &item)
	}
	return out, cur.Err()
}

// updateByID runs a single-document update and maps "no match" to ErrNotFound.
func updateByID(ctx context.Context, col *mongo.Collection, id string, update interface{}) error {
	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update %s: %w", col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func insert(ctx context.Context, col *mongo.Collection, doc interface{}) error {
	if _, err := col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert %s: %w", col.Name(), ErrDuplicate)
		}
		return fmt.Errorf("insert %s: %w", col.Name(), err)
	}
	return nil
}

func pageOptions(sort bson.D, skip, limit int64) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}

// EnsureIndexes creates the lookup and uniqueness indexes every repository relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		consignmentsCollection: {
			{Keys: bson.D{{Key: "sr_no", Value: -1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "consignment_no", Value: 1}}},
			{Keys: bson.D{{Key: "docket_no", Value: 1}}},
			{Keys: bson.D{{Key: "shipment_id", Value: 1}}},
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "zone", Value: 1}, {Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "cascade_status", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		shipmentsCollection: {
			{Keys: bson.D{{Key: "tracking_number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "docket_no", Value: 1}}},
			{Keys: bson.D{{Key: "consignment_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "customer_id", Value: 1}}},
		},
		invoicesCollection: {
			{Keys: bson.D{{Key: "invoice_number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "shipment_ids", Value: 1}}},
			{Keys: bson.D{{Key: "consignment_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "payment_status", Value: 1}, {Key: "customer_id", Value: 1}}},
		},
		rateCardsCollection: {
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "delivery_partner", Value: 1},
					{Key: "service_type", Value: 1},
					{Key: "mode", Value: 1},
					{Key: "region", Value: 1},
					{Key: "zone", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
		pricingRulesCollection: {
			{Keys: bson.D{{Key: "zone", Value: 1}, {Key: "is_active", Value: 1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
